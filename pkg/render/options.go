package render

import "github.com/goliatone/go-profilegen/pkg/theme"

// RenderOptions describe per-request data renderers use to customise their
// output without touching the widget data.
type RenderOptions struct {
	// Theme supplies the profile colour and font family. Zero fields fall
	// back to the defaults of theme.Resolve.
	Theme theme.Theme
	// ClassName is appended to the root element class list.
	ClassName string
	// Preview marks output destined for the editor preview pane.
	Preview bool
}
