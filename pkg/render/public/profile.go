package public

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/goliatone/go-profilegen/pkg/profile"
	"github.com/goliatone/go-profilegen/pkg/render"
	rendertemplate "github.com/goliatone/go-profilegen/pkg/render/template"
	"github.com/goliatone/go-profilegen/pkg/theme"
	"github.com/goliatone/go-profilegen/pkg/widgets"
)

const profileTemplate = "templates/profile.tpl"

// Messages shown on flagged preview blocks.
const (
	MsgUnknownWidget = "Tipo de widget desconocido"
	MsgInvalidData   = "Los datos del widget no son válidos"
)

// ProfileOption configures a ProfileRenderer.
type ProfileOption func(*ProfileRenderer)

// WithWidgets replaces the widget registry used to decode and validate.
func WithWidgets(registry *widgets.Registry) ProfileOption {
	return func(r *ProfileRenderer) {
		if registry != nil {
			r.widgets = registry
		}
	}
}

// WithRenderers replaces the widget renderer registry.
func WithRenderers(registry *render.Registry) ProfileOption {
	return func(r *ProfileRenderer) {
		if registry != nil {
			r.renderers = registry
		}
	}
}

// WithThemes resolves profile theme references through catalog.
func WithThemes(catalog *theme.Catalog) ProfileOption {
	return func(r *ProfileRenderer) {
		r.themes = catalog
	}
}

// WithAgents sets the directory the built-in agents renderer reads.
func WithAgents(directory AgentDirectory) ProfileOption {
	return func(r *ProfileRenderer) {
		if directory != nil {
			r.agents = directory
		}
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(tr rendertemplate.TemplateRenderer) ProfileOption {
	return func(r *ProfileRenderer) {
		if tr != nil {
			r.templates = tr
		}
	}
}

// WithLogger sets the logger used to report skipped widgets.
func WithLogger(logger *slog.Logger) ProfileOption {
	return func(r *ProfileRenderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// ProfileRenderer renders a whole profile: every widget in order, themed by
// the profile's theme reference.
type ProfileRenderer struct {
	widgets   *widgets.Registry
	renderers *render.Registry
	themes    *theme.Catalog
	agents    AgentDirectory
	templates rendertemplate.TemplateRenderer
	logger    *slog.Logger
}

// NewProfileRenderer builds a profile renderer. Without WithRenderers the
// built-in title and agents renderers are registered.
func NewProfileRenderer(options ...ProfileOption) (*ProfileRenderer, error) {
	r := &ProfileRenderer{
		agents: profile.NewDirectory(),
		logger: slog.Default(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	tr, err := resolveTemplates(r.templates)
	if err != nil {
		return nil, err
	}
	r.templates = tr

	if r.widgets == nil {
		r.widgets = widgets.NewRegistry()
	}
	if r.renderers == nil {
		renderers, err := DefaultRenderers(tr, r.agents)
		if err != nil {
			return nil, err
		}
		r.renderers = renderers
	}
	return r, nil
}

// DefaultRenderers returns a registry holding the built-in renderers.
func DefaultRenderers(tr rendertemplate.TemplateRenderer, agents AgentDirectory) (*render.Registry, error) {
	title, err := NewTitleRenderer(tr)
	if err != nil {
		return nil, err
	}
	agentsRenderer, err := NewAgentsRenderer(tr, agents)
	if err != nil {
		return nil, err
	}
	registry := render.NewRegistry()
	if err := registry.Register(title); err != nil {
		return nil, err
	}
	if err := registry.Register(agentsRenderer); err != nil {
		return nil, err
	}
	return registry, nil
}

// ResolveTheme returns the catalog theme referenced by p with the
// profile overrides applied. Unknown themes resolve to the overrides only.
func (r *ProfileRenderer) ResolveTheme(p profile.Profile) theme.Theme {
	var base theme.Theme
	if r.themes != nil {
		selected, err := r.themes.Theme(p.Theme.Name, p.Theme.Variant)
		if err != nil {
			if !errors.Is(err, theme.ErrUnknownTheme) || p.Theme.Name != "" {
				r.logger.Warn("theme selection failed", "username", p.Username, "theme", p.Theme.Name, "error", err)
			}
		} else {
			base = selected
		}
	}
	return base.Merge(p.Theme.Overrides)
}

// Render renders p. options.Theme overrides the resolved profile theme and
// options.Preview wraps the page in the mobile frame. Widgets that cannot
// be decoded, validated or rendered are left out of the public page and
// shown with their errors in preview.
func (r *ProfileRenderer) Render(ctx context.Context, p profile.Profile, options render.RenderOptions) (template.HTML, error) {
	th := r.ResolveTheme(p).Merge(options.Theme)
	widgetOptions := render.RenderOptions{Theme: th, Preview: options.Preview}

	blocks := make([]any, 0, len(p.Widgets))
	for _, instance := range p.Widgets {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		html, messages := r.renderWidget(ctx, instance, widgetOptions)
		if len(messages) > 0 {
			r.logger.Debug("widget skipped", "username", p.Username, "widget", instance.ID, "type", instance.Type, "errors", messages)
			if !options.Preview {
				continue
			}
		}
		blocks = append(blocks, map[string]any{
			"id":       instance.ID,
			"type":     string(instance.Type),
			"html":     string(html),
			"invalid":  len(messages) > 0,
			"messages": messages,
		})
	}

	out, err := r.templates.RenderTemplate(profileTemplate, map[string]any{
		"username":    p.Username,
		"displayName": p.DisplayName,
		"blocks":      blocks,
		"preview":     options.Preview,
		"familyClass": th.Resolve().Family.Class(),
		"className":   strings.TrimSpace(options.ClassName),
	})
	if err != nil {
		return "", fmt.Errorf("public: render profile: %w", err)
	}
	return template.HTML(strings.TrimSpace(out)), nil
}

// renderWidget returns the widget markup or the messages explaining why it
// could not be rendered.
func (r *ProfileRenderer) renderWidget(ctx context.Context, instance profile.Instance, options render.RenderOptions) (template.HTML, []any) {
	descriptor, err := r.widgets.Lookup(instance.Type)
	if err != nil {
		return "", []any{MsgUnknownWidget}
	}
	value, err := descriptor.Decode(instance.Data)
	if err != nil {
		return "", []any{MsgInvalidData}
	}
	result, err := descriptor.ValidateValue(value)
	if err != nil {
		return "", []any{MsgInvalidData}
	}
	if !result.IsValid() {
		return "", sortedMessages(result.Errors())
	}

	renderer, err := r.renderers.Get(instance.Type)
	if err != nil {
		return "", []any{MsgUnknownWidget}
	}
	html, err := renderer.Render(ctx, value, options)
	if err != nil {
		r.logger.Error("widget render failed", "widget", instance.ID, "type", instance.Type, "error", err)
		return "", []any{MsgInvalidData}
	}
	return html, nil
}

func sortedMessages(errs map[string]string) []any {
	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	out := make([]any, 0, len(fields))
	for _, field := range fields {
		out = append(out, errs[field])
	}
	return out
}

const pageTemplate = "templates/page.tpl"

// RenderDocument renders p as a standalone public HTML page. The page links
// the "stylesheet" global of the template engine when one is set.
func (r *ProfileRenderer) RenderDocument(ctx context.Context, w io.Writer, p profile.Profile) error {
	body, err := r.Render(ctx, p, render.RenderOptions{})
	if err != nil {
		return err
	}
	_, err = r.templates.RenderTemplate(pageTemplate, map[string]any{
		"username":    p.Username,
		"displayName": p.DisplayName,
		"body":        string(body),
	}, w)
	if err != nil {
		return fmt.Errorf("public: render page: %w", err)
	}
	return nil
}
