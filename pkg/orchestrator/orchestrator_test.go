package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-profilegen/pkg/chrome"
	"github.com/goliatone/go-profilegen/pkg/profile"
	"github.com/goliatone/go-profilegen/pkg/shell"
	"github.com/goliatone/go-profilegen/pkg/testsupport"
	"github.com/goliatone/go-profilegen/pkg/widgets"
)

type recordingObserver struct {
	mu          sync.Mutex
	validations []string
	renders     []string
}

func (r *recordingObserver) ObserveValidation(widgetType, outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.validations = append(r.validations, widgetType+":"+outcome)
}

func (r *recordingObserver) ObserveRender(page string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.renders = append(r.renders, page)
}

func newOrchestrator(t *testing.T) (*Orchestrator, *recordingObserver) {
	t.Helper()

	store, err := profile.NewMemoryStore(testsupport.SampleProfile())
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	observer := &recordingObserver{}
	o, err := New(
		WithStore(store),
		WithAgents(profile.NewDirectory(testsupport.SampleAgents()...)),
		WithObserver(observer),
	)
	if err != nil {
		t.Fatalf("new orchestrator: %v", err)
	}
	return o, observer
}

func TestValidate_ReportsOutcomes(t *testing.T) {
	t.Parallel()

	o, observer := newOrchestrator(t)

	if _, result, err := o.Validate("agents", []byte(`{"title":"x","agentIds":["ana"],"displayStyle":"card"}`)); err != nil || !result.IsValid() {
		t.Fatalf("expected valid, got %v %v", result.Errors(), err)
	}
	if _, result, err := o.Validate("agents", []byte(`{}`)); err != nil || result.IsValid() {
		t.Fatalf("expected invalid result, got %v %v", result.Errors(), err)
	}
	if _, _, err := o.Validate("agents", []byte(`{"title":5}`)); err == nil {
		t.Fatalf("expected malformed error")
	}
	if _, _, err := o.Validate("gallery", nil); !errors.Is(err, widgets.ErrUnknownWidget) {
		t.Fatalf("expected ErrUnknownWidget, got %v", err)
	}

	want := []string{"Agents:valid", "Agents:invalid", "Agents:malformed"}
	if diff := cmp.Diff(want, observer.validations); diff != "" {
		t.Fatalf("observations mismatch (-want +got):\n%s", diff)
	}
}

func TestUpdateWidget_InvalidIsNotSaved(t *testing.T) {
	t.Parallel()

	o, _ := newOrchestrator(t)
	ctx := context.Background()

	_, result, err := o.UpdateWidget(ctx, "username", "title-1", json.RawMessage(`{"text":"","fontSize":"lg","textAlign":"left","fontWeight":"bold"}`))
	if !errors.Is(err, ErrInvalidWidget) {
		t.Fatalf("expected ErrInvalidWidget, got %v", err)
	}
	if msg, _ := result.Error(widgets.FieldText); msg != widgets.MsgTextRequired {
		t.Fatalf("unexpected message %q", msg)
	}

	p, _ := o.Profile(ctx, "username")
	stored, _ := p.Widget("title-1")
	if !strings.Contains(string(stored.Data), `"text":"Hola"`) {
		t.Fatalf("invalid update was saved: %s", stored.Data)
	}

	if _, _, err := o.UpdateWidget(ctx, "username", "title-1", json.RawMessage(`{"text":"Nuevo","fontSize":"lg","textAlign":"left","fontWeight":"bold"}`)); err != nil {
		t.Fatalf("valid update: %v", err)
	}
	p, _ = o.Profile(ctx, "username")
	stored, _ = p.Widget("title-1")
	if !strings.Contains(string(stored.Data), `"text":"Nuevo"`) {
		t.Fatalf("valid update not saved: %s", stored.Data)
	}

	if _, _, err := o.UpdateWidget(ctx, "username", "ghost", nil); !errors.Is(err, profile.ErrWidgetNotFound) {
		t.Fatalf("expected ErrWidgetNotFound, got %v", err)
	}
}

func TestSubmitForm(t *testing.T) {
	t.Parallel()

	o, _ := newOrchestrator(t)
	ctx := context.Background()

	draft, result, err := o.SubmitForm(ctx, "username", "agents-1", url.Values{
		"title":        {"Equipo"},
		"displayStyle": {"bubble"},
	})
	if !errors.Is(err, ErrInvalidWidget) {
		t.Fatalf("expected ErrInvalidWidget, got %v", err)
	}
	if msg, _ := result.Error(widgets.FieldAgentIDs); msg != widgets.MsgAgentsRequired {
		t.Fatalf("unexpected message %q", msg)
	}
	if !strings.Contains(string(draft), `"title":"Equipo"`) {
		t.Fatalf("draft should echo the submission: %s", draft)
	}

	if _, _, err := o.SubmitForm(ctx, "username", "agents-1", url.Values{
		"title":        {"Equipo"},
		"agentIds":     {"bot"},
		"displayStyle": {"bubble"},
	}); err != nil {
		t.Fatalf("valid submit: %v", err)
	}
}

func TestAddAndRemoveWidget(t *testing.T) {
	t.Parallel()

	o, _ := newOrchestrator(t)
	ctx := context.Background()

	instance, err := o.AddWidget(ctx, "username", "TITLE")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if instance.Type != widgets.TypeTitle {
		t.Fatalf("expected canonical type, got %q", instance.Type)
	}
	data, err := widgets.TitleConfig.DecodeData(instance.Data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(widgets.TitleConfig.DefaultData, data); diff != "" {
		t.Fatalf("default mismatch (-want +got):\n%s", diff)
	}

	if _, err := o.AddWidget(ctx, "username", "gallery"); !errors.Is(err, widgets.ErrUnknownWidget) {
		t.Fatalf("expected ErrUnknownWidget, got %v", err)
	}
	if err := o.RemoveWidget(ctx, "username", instance.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	p, _ := o.Profile(ctx, "username")
	if _, ok := p.Widget(instance.ID); ok {
		t.Fatalf("widget still present")
	}
}

func TestRenderPages(t *testing.T) {
	t.Parallel()

	o, observer := newOrchestrator(t)
	store := chrome.NewStore()
	ctx := chrome.WithStore(context.Background(), store)

	var page bytes.Buffer
	if err := o.RenderShell(ctx, &page, "https://perfil.example.com", "username", shell.EditorState{}); err != nil {
		t.Fatalf("render shell: %v", err)
	}
	if !strings.Contains(page.String(), "https://perfil.example.com/username") {
		t.Fatalf("shell missing share link")
	}
	if store.Title() != shell.PageTitle {
		t.Fatalf("shell should mount on the context chrome")
	}
	if _, ok := store.ShareURL(); ok {
		t.Fatalf("share link should be released after render")
	}

	preview, err := o.RenderPreview(context.Background(), "username")
	if err != nil {
		t.Fatalf("render preview: %v", err)
	}
	if !strings.Contains(string(preview), "pg-mobile-frame") {
		t.Fatalf("preview should use the mobile frame")
	}

	var public bytes.Buffer
	if err := o.RenderPublic(context.Background(), &public, "username"); err != nil {
		t.Fatalf("render public: %v", err)
	}
	if err := o.RenderPublic(context.Background(), &public, "nobody"); !errors.Is(err, profile.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if diff := cmp.Diff([]string{PageShell, PagePreview, PagePublic}, observer.renders); diff != "" {
		t.Fatalf("renders mismatch (-want +got):\n%s", diff)
	}
}

func TestTemplateDirOverridesEmbedded(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "templates"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	custom := `<h1 class="custom-title">{{ text }}</h1>`
	if err := os.WriteFile(filepath.Join(dir, "templates", "title.tpl"), []byte(custom), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}

	store, err := profile.NewMemoryStore(testsupport.SampleProfile())
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	o, err := New(
		WithStore(store),
		WithAgents(profile.NewDirectory(testsupport.SampleAgents()...)),
		WithTemplateDir(dir),
		WithStylesheet("/static/site.css"),
	)
	if err != nil {
		t.Fatalf("new orchestrator: %v", err)
	}

	var public bytes.Buffer
	if err := o.RenderPublic(context.Background(), &public, "username"); err != nil {
		t.Fatalf("render public: %v", err)
	}
	doc := testsupport.MustParseHTML(t, public.String())
	if got := doc.Find("h1.custom-title").Text(); got != "Hola" {
		t.Fatalf("expected custom title template, got %q", got)
	}
	if doc.Find(".pg-agents.pg-agents--card").Length() != 1 {
		t.Fatalf("agents widget should keep the embedded template")
	}
	if got := doc.Find(`link[rel="stylesheet"]`).AttrOr("href", ""); got != "/static/site.css" {
		t.Fatalf("unexpected public stylesheet %q", got)
	}

	var page bytes.Buffer
	if err := o.RenderShell(context.Background(), &page, "https://perfil.example.com", "username", shell.EditorState{}); err != nil {
		t.Fatalf("render shell: %v", err)
	}
	doc = testsupport.MustParseHTML(t, page.String())
	if got := doc.Find(`link[rel="stylesheet"]`).AttrOr("href", ""); got != "/static/site.css" {
		t.Fatalf("unexpected shell stylesheet %q", got)
	}
	if doc.Find(".pg-layout__mobile h1.custom-title").Length() != 1 {
		t.Fatalf("preview should use the custom title template")
	}

	if _, err := New(WithTemplateDir(filepath.Join(dir, "missing"))); err == nil {
		t.Fatalf("expected error for a missing template dir")
	}
}
