package public

import (
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/goliatone/go-profilegen/pkg/render"
	rendertemplate "github.com/goliatone/go-profilegen/pkg/render/template"
	"github.com/goliatone/go-profilegen/pkg/theme"
	"github.com/goliatone/go-profilegen/pkg/widgets"
)

const titleTemplate = "templates/title.tpl"

var fontSizeClasses = map[widgets.FontSize]string{
	widgets.FontSizeSM:   "text-sm",
	widgets.FontSizeBase: "text-base",
	widgets.FontSizeLG:   "text-lg",
	widgets.FontSizeXL:   "text-xl",
	widgets.FontSize2XL:  "text-2xl",
	widgets.FontSize3XL:  "text-3xl",
}

var fontWeightClasses = map[widgets.FontWeight]string{
	widgets.FontWeightNormal:   "font-normal",
	widgets.FontWeightMedium:   "font-medium",
	widgets.FontWeightSemibold: "font-semibold",
	widgets.FontWeightBold:     "font-bold",
}

var textAlignClasses = map[widgets.TextAlign]string{
	widgets.TextAlignLeft:   "text-left",
	widgets.TextAlignCenter: "text-center",
	widgets.TextAlignRight:  "text-right",
}

// TitleRenderer renders the title block as a heading.
type TitleRenderer struct {
	templates rendertemplate.TemplateRenderer
}

var _ render.WidgetRenderer = (*TitleRenderer)(nil)

// NewTitleRenderer builds a title renderer. A nil renderer selects the
// embedded templates.
func NewTitleRenderer(templates rendertemplate.TemplateRenderer) (*TitleRenderer, error) {
	tr, err := resolveTemplates(templates)
	if err != nil {
		return nil, err
	}
	return &TitleRenderer{templates: tr}, nil
}

func (r *TitleRenderer) Type() widgets.WidgetType {
	return widgets.TypeTitle
}

func (r *TitleRenderer) Render(_ context.Context, data any, options render.RenderOptions) (template.HTML, error) {
	var title widgets.TitleWidgetData
	switch v := data.(type) {
	case widgets.TitleWidgetData:
		title = v
	case *widgets.TitleWidgetData:
		if v == nil {
			return "", fmt.Errorf("public: title data is nil")
		}
		title = *v
	default:
		return "", fmt.Errorf("public: title renderer cannot handle %T", data)
	}
	return r.render(title, options.Theme, options.ClassName)
}

// RenderTitle renders a title heading with the embedded templates.
//
// Size, weight and alignment map through fixed tables. Values outside the
// enumerations contribute no class; validated data never carries them.
func RenderTitle(data widgets.TitleWidgetData, th theme.Theme, className string) (template.HTML, error) {
	tr, err := DefaultTemplates()
	if err != nil {
		return "", err
	}
	return (&TitleRenderer{templates: tr}).render(data, th, className)
}

func (r *TitleRenderer) render(data widgets.TitleWidgetData, th theme.Theme, className string) (template.HTML, error) {
	resolved := th.Resolve()
	out, err := r.templates.RenderTemplate(titleTemplate, map[string]any{
		"classes": joinClasses(
			fontSizeClasses[data.FontSize],
			fontWeightClasses[data.FontWeight],
			textAlignClasses[data.TextAlign],
			resolved.Family.Class(),
			className,
		),
		"color": resolved.Color,
		"text":  data.Text,
	})
	if err != nil {
		return "", fmt.Errorf("public: render title: %w", err)
	}
	return template.HTML(strings.TrimSpace(out)), nil
}

func joinClasses(classes ...string) string {
	out := make([]string, 0, len(classes))
	for _, class := range classes {
		if class = strings.TrimSpace(class); class != "" {
			out = append(out, class)
		}
	}
	return strings.Join(out, " ")
}
