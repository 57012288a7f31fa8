package testsupport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-profilegen/pkg/profile"
	"github.com/goliatone/go-profilegen/pkg/widgets"
)

// SampleAgents returns the agent directory used across package tests.
func SampleAgents() []profile.Agent {
	return []profile.Agent{
		{ID: "ana", Name: "Ana Torres", Role: "Ventas"},
		{ID: "luis", Name: "Luis Gómez", Role: "Soporte", AvatarURL: "https://example.com/luis.png"},
		{ID: "bot", Name: "Asistente"},
	}
}

// SampleProfile returns a profile with one title and one agents widget.
func SampleProfile() profile.Profile {
	return profile.Profile{
		Username:    "username",
		DisplayName: "Ana",
		Theme:       profile.ThemeRef{Name: "default"},
		Widgets: []profile.Instance{
			{
				ID:   "title-1",
				Type: widgets.TypeTitle,
				Data: MustJSON(widgets.TitleWidgetData{
					Text:       "Hola",
					FontSize:   widgets.FontSizeXL,
					TextAlign:  widgets.TextAlignCenter,
					FontWeight: widgets.FontWeightBold,
				}),
			},
			{
				ID:   "agents-1",
				Type: widgets.TypeAgents,
				Data: MustJSON(widgets.AgentsWidgetData{
					Title:        "Habla con nosotros",
					AgentIDs:     []string{"ana", "luis"},
					DisplayStyle: widgets.DisplayStyleCard,
				}),
			},
		},
	}
}

// MustJSON marshals v, panicking on failure. Only for fixtures.
func MustJSON(v any) json.RawMessage {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return raw
}

// MustParseHTML parses a rendered fragment or page for selector assertions.
func MustParseHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents. Tests can assert
// the renderer returns and writes the same payload without duplicating buffer
// setup.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
