package shell

import (
	"context"
	"fmt"
	"html/template"
	"io"

	"github.com/goliatone/go-profilegen/pkg/chrome"
	"github.com/goliatone/go-profilegen/pkg/profile"
	"github.com/goliatone/go-profilegen/pkg/render"
	rendertemplate "github.com/goliatone/go-profilegen/pkg/render/template"
)

const layoutTemplate = "templates/layout_with_mobile.tpl"

// PreviewRenderer renders the public profile; the shell calls it in
// preview mode.
type PreviewRenderer interface {
	Render(ctx context.Context, p profile.Profile, options render.RenderOptions) (template.HTML, error)
}

// Option configures a ProfilePage.
type Option func(*ProfilePage)

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(tr rendertemplate.TemplateRenderer) Option {
	return func(p *ProfilePage) {
		if tr != nil {
			p.templates = tr
		}
	}
}

// ProfilePage is the profile editing screen.
type ProfilePage struct {
	editor    *Editor
	preview   PreviewRenderer
	templates rendertemplate.TemplateRenderer
}

// NewProfilePage composes editor and preview into the screen.
func NewProfilePage(editor *Editor, preview PreviewRenderer, options ...Option) (*ProfilePage, error) {
	if editor == nil {
		return nil, fmt.Errorf("shell: editor is required")
	}
	if preview == nil {
		return nil, fmt.Errorf("shell: preview renderer is required")
	}
	page := &ProfilePage{editor: editor, preview: preview}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(page)
	}
	tr, err := resolveTemplates(page.templates)
	if err != nil {
		return nil, err
	}
	page.templates = tr
	return page, nil
}

// Render mounts the screen on store for the duration of the render and
// writes the layout: editor in the primary slot, preview in the mobile
// slot. The share link is cleared again before Render returns.
func (p *ProfilePage) Render(ctx context.Context, w io.Writer, store *chrome.Store, origin string, prof profile.Profile, state EditorState) error {
	if store == nil {
		store = chrome.NewStore()
	}
	mounted := Mount(store, origin)
	defer mounted.Unmount()

	primary, err := p.editor.Render(ctx, prof, state)
	if err != nil {
		return err
	}
	mobile, err := p.preview.Render(ctx, prof, render.RenderOptions{Preview: true})
	if err != nil {
		return fmt.Errorf("shell: render preview: %w", err)
	}

	snapshot := store.Snapshot()
	_, err = p.templates.RenderTemplate(layoutTemplate, map[string]any{
		"title":    snapshot.Title,
		"shareUrl": snapshot.ShareURL,
		"primary":  string(primary),
		"mobile":   string(mobile),
	}, w)
	if err != nil {
		return fmt.Errorf("shell: render layout: %w", err)
	}
	return nil
}
