package shell

import (
	"bytes"
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-profilegen/pkg/chrome"
	"github.com/goliatone/go-profilegen/pkg/profile"
	"github.com/goliatone/go-profilegen/pkg/render/public"
	gotemplate "github.com/goliatone/go-profilegen/pkg/render/template/gotemplate"
	"github.com/goliatone/go-profilegen/pkg/testsupport"
	"github.com/goliatone/go-profilegen/pkg/widgets"
)

func newPage(t *testing.T) *ProfilePage {
	t.Helper()

	agents := profile.NewDirectory(testsupport.SampleAgents()...)
	editor, err := NewEditor(widgets.NewRegistry(), agents, nil, "/profile/widgets")
	if err != nil {
		t.Fatalf("new editor: %v", err)
	}
	preview, err := public.NewProfileRenderer(public.WithAgents(agents))
	if err != nil {
		t.Fatalf("new preview: %v", err)
	}
	engine, err := gotemplate.New(
		gotemplate.WithFS(TemplatesFS()),
		gotemplate.WithGlobalData(map[string]any{"stylesheet": "/assets/profilegen.css"}),
	)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	page, err := NewProfilePage(editor, preview, WithTemplateRenderer(engine))
	if err != nil {
		t.Fatalf("new page: %v", err)
	}
	return page
}

func TestProfilePage_Render(t *testing.T) {
	t.Parallel()

	page := newPage(t)
	store := chrome.NewStore()

	var buf bytes.Buffer
	if err := page.Render(context.Background(), &buf, store, "https://app.example.com", testsupport.SampleProfile(), EditorState{}); err != nil {
		t.Fatalf("render: %v", err)
	}

	doc := testsupport.MustParseHTML(t, buf.String())
	if got := doc.Find("title").Text(); got != "My Profile" {
		t.Fatalf("unexpected title %q", got)
	}
	if got := doc.Find(".pg-shell__share").AttrOr("href", ""); got != "https://app.example.com/username" {
		t.Fatalf("unexpected share link %q", got)
	}
	if got := doc.Find(`link[rel="stylesheet"]`).AttrOr("href", ""); got != "/assets/profilegen.css" {
		t.Fatalf("unexpected stylesheet %q", got)
	}
	if doc.Find(".pg-layout__primary form.pg-editor__form").Length() != 2 {
		t.Fatalf("expected one editor form per widget")
	}
	if doc.Find(".pg-layout__mobile .pg-mobile-frame .pg-profile").Length() != 1 {
		t.Fatalf("expected preview profile in the mobile slot")
	}
	if _, ok := store.ShareURL(); ok {
		t.Fatalf("share url must be cleared after render")
	}
}

func TestEditor_ShowsDraftAndMessages(t *testing.T) {
	t.Parallel()

	agents := profile.NewDirectory(testsupport.SampleAgents()...)
	editor, err := NewEditor(nil, agents, nil, "")
	if err != nil {
		t.Fatalf("new editor: %v", err)
	}

	draft := testsupport.MustJSON(widgets.AgentsWidgetData{Title: "", AgentIDs: []string{}, DisplayStyle: "grid"})
	var state EditorState
	state.Invalid("agents-1", draft, widgets.ValidateAgents(widgets.AgentsWidgetData{DisplayStyle: "grid"}))

	html, err := editor.Render(context.Background(), testsupport.SampleProfile(), state)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	doc := testsupport.MustParseHTML(t, string(html))
	form := doc.Find(`form[data-widget-id="agents-1"]`)
	if got := form.AttrOr("action", ""); got != "/profile/widgets/agents-1" {
		t.Fatalf("unexpected action %q", got)
	}

	var messages []string
	form.Find(".pg-field__error").Each(func(_ int, s *goquery.Selection) {
		messages = append(messages, s.Text())
	})
	want := []string{widgets.MsgTitleRequired, widgets.MsgAgentsRequired, widgets.MsgDisplayStyleInvalid}
	if diff := cmp.Diff(want, messages); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
	if got := form.Find(`select[name="agentIds"] option`).Length(); got != 3 {
		t.Fatalf("expected agent directory options, got %d", got)
	}

	title := doc.Find(`form[data-widget-id="title-1"]`)
	if got := title.Find(`input[name="text"]`).AttrOr("value", ""); got != "Hola" {
		t.Fatalf("expected stored value, got %q", got)
	}
	if got := title.Find(`select[name="fontSize"] option[selected]`).AttrOr("value", ""); got != "xl" {
		t.Fatalf("expected selected font size, got %q", got)
	}
	if title.Find(".pg-field__error").Length() != 0 {
		t.Fatalf("valid widget must not show errors")
	}
}

func TestDecodeForm(t *testing.T) {
	t.Parallel()

	form := url.Values{
		"title":        {"Equipo"},
		"agentIds":     {"ana", " ", "luis"},
		"displayStyle": {"list"},
		"ignored":      {"x"},
	}
	raw, err := DecodeForm(widgets.AgentsConfig.Metadata().Fields, form)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	got, err := widgets.AgentsConfig.DecodeData(raw)
	if err != nil {
		t.Fatalf("decode data: %v", err)
	}
	want := widgets.AgentsWidgetData{Title: "Equipo", AgentIDs: []string{"ana", "luis"}, DisplayStyle: widgets.DisplayStyleList}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}

	empty, err := DecodeForm(widgets.AgentsConfig.Metadata().Fields, url.Values{})
	if err != nil {
		t.Fatalf("decode empty: %v", err)
	}
	if !strings.Contains(string(empty), `"agentIds":[]`) {
		t.Fatalf("multiselect should encode as an empty list: %s", empty)
	}
}

func TestMessageList(t *testing.T) {
	t.Parallel()

	got := MessageList(widgets.ValidateTitle(widgets.TitleWidgetData{}))
	want := []string{widgets.MsgFontSizeInvalid, widgets.MsgFontWeightInvalid, widgets.MsgTextRequired, widgets.MsgTextAlignInvalid}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
}
