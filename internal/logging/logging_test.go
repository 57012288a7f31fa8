package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]slog.Level{
		"":      slog.LevelInfo,
		"DEBUG": slog.LevelDebug,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Fatalf("ParseLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected unknown level error")
	}
}

func TestNew_WritesJSONWithComponent(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(&buf, "server", slog.LevelInfo)
	logger.Debug("hidden")
	logger.Info("started", "addr", ":8484")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected a single JSON line, got %q: %v", buf.String(), err)
	}
	if entry["component"] != "server" || entry["msg"] != "started" || entry["addr"] != ":8484" {
		t.Fatalf("unexpected entry %v", entry)
	}
}
