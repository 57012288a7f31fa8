package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/url"

	"github.com/goliatone/go-profilegen/pkg/chrome"
	"github.com/goliatone/go-profilegen/pkg/profile"
	"github.com/goliatone/go-profilegen/pkg/render"
	"github.com/goliatone/go-profilegen/pkg/render/public"
	gotemplate "github.com/goliatone/go-profilegen/pkg/render/template/gotemplate"
	"github.com/goliatone/go-profilegen/pkg/shell"
	"github.com/goliatone/go-profilegen/pkg/theme"
	"github.com/goliatone/go-profilegen/pkg/widgets"
)

// DefaultStylesheet is the stylesheet URL linked from rendered pages.
const DefaultStylesheet = "/assets/profilegen.css"

// ErrInvalidWidget is returned when a widget update fails validation. The
// accompanying ValidationResult carries the messages.
var ErrInvalidWidget = errors.New("orchestrator: widget data is invalid")

// Observer receives counters for validations and page renders.
type Observer interface {
	ObserveValidation(widgetType, outcome string)
	ObserveRender(page string)
}

// Validation outcomes reported to the Observer.
const (
	OutcomeValid     = "valid"
	OutcomeInvalid   = "invalid"
	OutcomeMalformed = "malformed"
)

// Page kinds reported to the Observer.
const (
	PageShell   = "shell"
	PagePreview = "preview"
	PagePublic  = "public"
)

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithWidgets injects the widget registry.
func WithWidgets(registry *widgets.Registry) Option {
	return func(o *Orchestrator) {
		o.widgets = registry
	}
}

// WithStore injects the profile store.
func WithStore(store profile.Store) Option {
	return func(o *Orchestrator) {
		o.store = store
	}
}

// WithAgents injects the agent directory.
func WithAgents(directory *profile.Directory) Option {
	return func(o *Orchestrator) {
		o.agents = directory
	}
}

// WithThemes injects the theme catalog.
func WithThemes(catalog *theme.Catalog) Option {
	return func(o *Orchestrator) {
		o.themes = catalog
	}
}

// WithRenderers replaces the widget renderer registry.
func WithRenderers(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.renderers = registry
	}
}

// WithStylesheet overrides the stylesheet URL linked from pages.
func WithStylesheet(href string) Option {
	return func(o *Orchestrator) {
		o.stylesheet = href
	}
}

// WithTemplateDir loads templates from dir ahead of the embedded ones. A
// file such as templates/title.tpl there replaces the built-in template.
func WithTemplateDir(dir string) Option {
	return func(o *Orchestrator) {
		o.templateDir = dir
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithObserver reports validation and render counts to observer.
func WithObserver(observer Observer) Option {
	return func(o *Orchestrator) {
		o.observer = observer
	}
}

// Orchestrator is the profile builder application core.
type Orchestrator struct {
	widgets     *widgets.Registry
	renderers   *render.Registry
	store       profile.Store
	agents      *profile.Directory
	themes      *theme.Catalog
	stylesheet  string
	templateDir string
	logger      *slog.Logger
	observer    Observer

	public *public.ProfileRenderer
	editor *shell.Editor
	page   *shell.ProfilePage
}

// New constructs an Orchestrator. Missing dependencies are initialised with
// the built-in implementations.
func New(options ...Option) (*Orchestrator, error) {
	o := &Orchestrator{stylesheet: DefaultStylesheet}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}

	if o.widgets == nil {
		o.widgets = widgets.NewRegistry()
	}
	if o.agents == nil {
		o.agents = profile.NewDirectory()
	}
	if o.store == nil {
		store, err := profile.NewMemoryStore()
		if err != nil {
			return nil, err
		}
		o.store = store
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.observer == nil {
		o.observer = nopObserver{}
	}

	templates, err := newTemplates(o.templateDir, o.stylesheet)
	if err != nil {
		return nil, err
	}

	publicOptions := []public.ProfileOption{
		public.WithTemplateRenderer(templates),
		public.WithWidgets(o.widgets),
		public.WithAgents(o.agents),
		public.WithThemes(o.themes),
		public.WithLogger(o.logger),
	}
	if o.renderers != nil {
		publicOptions = append(publicOptions, public.WithRenderers(o.renderers))
	}
	publicRenderer, err := public.NewProfileRenderer(publicOptions...)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: public renderer: %w", err)
	}
	o.public = publicRenderer

	editor, err := shell.NewEditor(o.widgets, o.agents, templates, "/profile/widgets")
	if err != nil {
		return nil, fmt.Errorf("orchestrator: editor: %w", err)
	}
	o.editor = editor

	page, err := shell.NewProfilePage(editor, publicRenderer, shell.WithTemplateRenderer(templates))
	if err != nil {
		return nil, fmt.Errorf("orchestrator: page: %w", err)
	}
	o.page = page

	return o, nil
}

// newTemplates builds the engine shared by the public page and the shell.
// Files under dir win over the embedded public and shell templates.
func newTemplates(dir, stylesheet string) (*gotemplate.Engine, error) {
	options := []gotemplate.Option{
		gotemplate.WithFS(public.TemplatesFS()),
		gotemplate.WithFS(shell.TemplatesFS()),
		gotemplate.WithGlobalData(map[string]any{"stylesheet": stylesheet}),
	}
	if dir != "" {
		options = append(options, gotemplate.WithBaseDir(dir))
	}
	engine, err := gotemplate.New(options...)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: templates: %w", err)
	}
	return engine, nil
}

// Widgets returns the widget registry.
func (o *Orchestrator) Widgets() *widgets.Registry { return o.widgets }

// Store returns the profile store.
func (o *Orchestrator) Store() profile.Store { return o.store }

// Agents returns the agent directory.
func (o *Orchestrator) Agents() *profile.Directory { return o.agents }

// Validate decodes and validates raw data for widget type t.
func (o *Orchestrator) Validate(t widgets.WidgetType, raw []byte) (any, widgets.ValidationResult, error) {
	descriptor, err := o.widgets.Lookup(t)
	if err != nil {
		return nil, widgets.ValidationResult{}, err
	}
	label := string(descriptor.Metadata().Type)

	value, result, err := o.widgets.Validate(t, raw)
	switch {
	case err != nil:
		o.observer.ObserveValidation(label, OutcomeMalformed)
		return nil, result, err
	case result.IsValid():
		o.observer.ObserveValidation(label, OutcomeValid)
	default:
		o.observer.ObserveValidation(label, OutcomeInvalid)
	}
	return value, result, nil
}

// Profile loads a profile.
func (o *Orchestrator) Profile(ctx context.Context, username string) (profile.Profile, error) {
	return o.store.Get(ctx, username)
}

// UpdateWidget validates raw and stores it when valid. Invalid data is not
// saved and ErrInvalidWidget is returned with the result.
func (o *Orchestrator) UpdateWidget(ctx context.Context, username, id string, raw json.RawMessage) (profile.Instance, widgets.ValidationResult, error) {
	p, err := o.store.Get(ctx, username)
	if err != nil {
		return profile.Instance{}, widgets.ValidationResult{}, err
	}
	instance, ok := p.Widget(id)
	if !ok {
		return profile.Instance{}, widgets.ValidationResult{}, fmt.Errorf("%w: %q", profile.ErrWidgetNotFound, id)
	}

	_, result, err := o.Validate(instance.Type, raw)
	if err != nil {
		return profile.Instance{}, result, err
	}
	if !result.IsValid() {
		return instance, result, ErrInvalidWidget
	}

	updated, err := o.store.UpdateWidget(ctx, username, id, raw)
	if err != nil {
		return profile.Instance{}, result, err
	}
	o.logger.Info("widget updated", "username", username, "widget", id, "type", instance.Type)
	return updated, result, nil
}

// SubmitForm decodes an editor form for widget id and applies it like
// UpdateWidget. The encoded draft is returned so rejected submissions can
// be shown again.
func (o *Orchestrator) SubmitForm(ctx context.Context, username, id string, form url.Values) (json.RawMessage, widgets.ValidationResult, error) {
	p, err := o.store.Get(ctx, username)
	if err != nil {
		return nil, widgets.ValidationResult{}, err
	}
	instance, ok := p.Widget(id)
	if !ok {
		return nil, widgets.ValidationResult{}, fmt.Errorf("%w: %q", profile.ErrWidgetNotFound, id)
	}
	descriptor, err := o.widgets.Lookup(instance.Type)
	if err != nil {
		return nil, widgets.ValidationResult{}, err
	}
	draft, err := shell.DecodeForm(descriptor.Metadata().Fields, form)
	if err != nil {
		return nil, widgets.ValidationResult{}, err
	}
	_, result, err := o.UpdateWidget(ctx, username, id, draft)
	return draft, result, err
}

// AddWidget appends a widget of type t holding its default data.
func (o *Orchestrator) AddWidget(ctx context.Context, username string, t widgets.WidgetType) (profile.Instance, error) {
	descriptor, err := o.widgets.Lookup(t)
	if err != nil {
		return profile.Instance{}, err
	}
	raw, err := json.Marshal(descriptor.DefaultValue())
	if err != nil {
		return profile.Instance{}, fmt.Errorf("orchestrator: encode default %s: %w", t, err)
	}
	instance, err := o.store.AddWidget(ctx, username, descriptor.Metadata().Type, raw)
	if err != nil {
		return profile.Instance{}, err
	}
	o.logger.Info("widget added", "username", username, "widget", instance.ID, "type", instance.Type)
	return instance, nil
}

// RemoveWidget deletes widget id.
func (o *Orchestrator) RemoveWidget(ctx context.Context, username, id string) error {
	if err := o.store.RemoveWidget(ctx, username, id); err != nil {
		return err
	}
	o.logger.Info("widget removed", "username", username, "widget", id)
	return nil
}

// RenderPublic writes the public page of username.
func (o *Orchestrator) RenderPublic(ctx context.Context, w io.Writer, username string) error {
	p, err := o.store.Get(ctx, username)
	if err != nil {
		return err
	}
	if err := o.public.RenderDocument(ctx, w, p); err != nil {
		return err
	}
	o.observer.ObserveRender(PagePublic)
	return nil
}

// RenderPreview renders the mobile preview fragment of username.
func (o *Orchestrator) RenderPreview(ctx context.Context, username string) (template.HTML, error) {
	p, err := o.store.Get(ctx, username)
	if err != nil {
		return "", err
	}
	html, err := o.public.Render(ctx, p, render.RenderOptions{Preview: true})
	if err != nil {
		return "", err
	}
	o.observer.ObserveRender(PagePreview)
	return html, nil
}

// RenderShell writes the profile editing screen of username. The chrome
// attached to ctx is used when present.
func (o *Orchestrator) RenderShell(ctx context.Context, w io.Writer, origin, username string, state shell.EditorState) error {
	p, err := o.store.Get(ctx, username)
	if err != nil {
		return err
	}
	store, ok := chrome.FromContext(ctx)
	if !ok {
		store = chrome.NewStore()
	}
	if err := o.page.Render(ctx, w, store, origin, p, state); err != nil {
		return err
	}
	o.observer.ObserveRender(PageShell)
	return nil
}

type nopObserver struct{}

func (nopObserver) ObserveValidation(string, string) {}
func (nopObserver) ObserveRender(string)             {}
