package render

import (
	"context"
	"html/template"

	"github.com/goliatone/go-profilegen/pkg/widgets"
)

// WidgetRenderer turns the data of one widget type into HTML. The data
// argument is the decoded widget value (for example widgets.TitleWidgetData
// or a pointer to it).
type WidgetRenderer interface {
	Type() widgets.WidgetType
	Render(ctx context.Context, data any, options RenderOptions) (template.HTML, error)
}

// RendererFunc adapts a function to WidgetRenderer.
type RendererFunc struct {
	WidgetType widgets.WidgetType
	Fn         func(ctx context.Context, data any, options RenderOptions) (template.HTML, error)
}

func (f RendererFunc) Type() widgets.WidgetType { return f.WidgetType }

func (f RendererFunc) Render(ctx context.Context, data any, options RenderOptions) (template.HTML, error) {
	return f.Fn(ctx, data, options)
}
