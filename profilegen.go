// Package profilegen builds public profile pages out of configurable
// widgets and serves the editor used to compose them.
package profilegen

import (
	"encoding/json"
	"io/fs"

	"github.com/goliatone/go-profilegen/pkg/orchestrator"
	"github.com/goliatone/go-profilegen/pkg/profile"
	"github.com/goliatone/go-profilegen/pkg/render"
	"github.com/goliatone/go-profilegen/pkg/render/public"
	"github.com/goliatone/go-profilegen/pkg/shell"
	"github.com/goliatone/go-profilegen/pkg/widgets"
)

// Profile is a user's page: its theme selection and ordered widgets.
type Profile = profile.Profile

// Agent is an entry of the agent directory.
type Agent = profile.Agent

// ValidationResult reports per-field messages for widget data.
type ValidationResult = widgets.ValidationResult

// RenderOptions carries per-render overrides for widget renderers.
type RenderOptions = render.RenderOptions

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) (*orchestrator.Orchestrator, error) {
	return orchestrator.New(options...)
}

// ValidateWidget decodes and validates raw data of the given widget type
// against the built-in widget registry.
func ValidateWidget(widgetType string, raw json.RawMessage) (ValidationResult, error) {
	_, result, err := widgets.NewRegistry().Validate(widgets.WidgetType(widgetType), raw)
	return result, err
}

// EmbeddedTemplates exposes the built-in public widget templates so callers
// can reuse or extend them.
func EmbeddedTemplates() fs.FS {
	return public.TemplatesFS()
}

// EmbeddedShellTemplates exposes the built-in editor and layout templates.
func EmbeddedShellTemplates() fs.FS {
	return shell.TemplatesFS()
}
