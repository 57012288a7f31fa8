package public

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	gotheme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-profilegen/pkg/profile"
	"github.com/goliatone/go-profilegen/pkg/render"
	gotemplate "github.com/goliatone/go-profilegen/pkg/render/template/gotemplate"
	"github.com/goliatone/go-profilegen/pkg/testsupport"
	"github.com/goliatone/go-profilegen/pkg/theme"
	"github.com/goliatone/go-profilegen/pkg/widgets"
)

func newProfileRenderer(t *testing.T) *ProfileRenderer {
	t.Helper()

	catalog := theme.NewCatalog("default", "")
	if err := catalog.Register(&gotheme.Manifest{
		Name:    "default",
		Version: "1.0.0",
		Tokens:  map[string]string{theme.TokenPrimaryColor: "#0f766e", theme.TokenFontFamily: "serif"},
	}); err != nil {
		t.Fatalf("register theme: %v", err)
	}

	renderer, err := NewProfileRenderer(
		WithThemes(catalog),
		WithAgents(profile.NewDirectory(testsupport.SampleAgents()...)),
	)
	if err != nil {
		t.Fatalf("new profile renderer: %v", err)
	}
	return renderer
}

func profileWithBrokenWidgets() profile.Profile {
	p := testsupport.SampleProfile()
	p.Widgets = append(p.Widgets,
		profile.Instance{ID: "bad-title", Type: widgets.TypeTitle, Data: json.RawMessage(`{"text":"","fontSize":"lg","textAlign":"left","fontWeight":"bold"}`)},
		profile.Instance{ID: "mystery", Type: "gallery", Data: json.RawMessage(`{}`)},
	)
	return p
}

func TestProfileRenderer_PublicSkipsInvalidWidgets(t *testing.T) {
	t.Parallel()

	renderer := newProfileRenderer(t)
	html, err := renderer.Render(context.Background(), profileWithBrokenWidgets(), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	doc := testsupport.MustParseHTML(t, string(html))
	sections := doc.Find("section.pg-widget")
	if sections.Length() != 2 {
		t.Fatalf("expected 2 rendered widgets, got %d", sections.Length())
	}
	if got := sections.First().AttrOr("data-widget-id", ""); got != "title-1" {
		t.Fatalf("widgets out of order, first is %q", got)
	}
	if doc.Find(".pg-mobile-frame").Length() != 0 {
		t.Fatalf("public page must not use the mobile frame")
	}
	if !doc.Find("article.pg-profile").HasClass("font-serif") {
		t.Fatalf("expected catalog font family on profile")
	}
	if got := doc.Find("h2").AttrOr("style", ""); got != "color: #0f766e" {
		t.Fatalf("expected catalog color on title, got %q", got)
	}
}

func TestProfileRenderer_PreviewFlagsInvalidWidgets(t *testing.T) {
	t.Parallel()

	renderer := newProfileRenderer(t)
	html, err := renderer.Render(context.Background(), profileWithBrokenWidgets(), render.RenderOptions{Preview: true})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	doc := testsupport.MustParseHTML(t, string(html))
	if doc.Find(".pg-mobile-frame article.pg-profile").Length() != 1 {
		t.Fatalf("expected profile inside mobile frame")
	}
	invalid := doc.Find("section.pg-widget--invalid")
	if invalid.Length() != 2 {
		t.Fatalf("expected 2 flagged widgets, got %d", invalid.Length())
	}
	if got := invalid.First().Find(".pg-widget__errors li").Text(); got != widgets.MsgTextRequired {
		t.Fatalf("unexpected message %q", got)
	}
	if got := invalid.Last().Find(".pg-widget__errors li").Text(); got != MsgUnknownWidget {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestProfileRenderer_OverridesWin(t *testing.T) {
	t.Parallel()

	renderer := newProfileRenderer(t)
	p := testsupport.SampleProfile()
	p.Theme.Overrides = theme.Theme{PrimaryColor: "#123456"}

	got := renderer.ResolveTheme(p)
	if got.PrimaryColor != "#123456" || got.FontFamily != "serif" {
		t.Fatalf("unexpected theme %+v", got)
	}

	html, err := renderer.Render(context.Background(), p, render.RenderOptions{Theme: theme.Theme{FontFamily: "mono"}})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	doc := testsupport.MustParseHTML(t, string(html))
	if !doc.Find("h2").HasClass("font-mono") {
		t.Fatalf("expected render option theme to win")
	}
}

func TestProfileRenderer_EmptyPreview(t *testing.T) {
	t.Parallel()

	renderer := newProfileRenderer(t)
	html, err := renderer.Render(context.Background(), profile.Profile{Username: "ana"}, render.RenderOptions{Preview: true})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	doc := testsupport.MustParseHTML(t, string(html))
	if doc.Find(".pg-profile__empty").Length() != 1 {
		t.Fatalf("expected empty state in preview")
	}
}

func TestProfileRenderer_CancelledContext(t *testing.T) {
	t.Parallel()

	renderer := newProfileRenderer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := renderer.Render(ctx, testsupport.SampleProfile(), render.RenderOptions{}); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestProfileRenderer_RenderDocument(t *testing.T) {
	t.Parallel()

	engine, err := gotemplate.New(
		gotemplate.WithFS(TemplatesFS()),
		gotemplate.WithGlobalData(map[string]any{"stylesheet": "/assets/profilegen.css"}),
	)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	renderer, err := NewProfileRenderer(
		WithTemplateRenderer(engine),
		WithAgents(profile.NewDirectory(testsupport.SampleAgents()...)),
	)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	var buf bytes.Buffer
	if err := renderer.RenderDocument(context.Background(), &buf, testsupport.SampleProfile()); err != nil {
		t.Fatalf("render document: %v", err)
	}
	doc := testsupport.MustParseHTML(t, buf.String())
	if got := doc.Find("title").Text(); got != "Ana" {
		t.Fatalf("unexpected title %q", got)
	}
	if got := doc.Find(`link[rel="stylesheet"]`).AttrOr("href", ""); got != "/assets/profilegen.css" {
		t.Fatalf("unexpected stylesheet %q", got)
	}
	if doc.Find("body.pg-public article.pg-profile h2").Length() != 1 {
		t.Fatalf("expected rendered profile in body")
	}
}
