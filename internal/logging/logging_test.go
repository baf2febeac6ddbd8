package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestSetupJSONRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup(&buf, "warn", "json")

	logger.Info("hidden")
	logger.Warn("shown", "component", "prefs.store")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 log line, got %d: %q", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("expected json output, got %q: %v", lines[0], err)
	}
	if entry["msg"] != "shown" || entry["component"] != "prefs.store" {
		t.Fatalf("unexpected entry %v", entry)
	}
}

func TestSetupTextFormat(t *testing.T) {
	var buf bytes.Buffer
	Setup(&buf, "debug", "text").Debug("loaded", "key", "bedtime_story_settings")

	if !strings.Contains(buf.String(), "msg=loaded") {
		t.Fatalf("expected text handler output, got %q", buf.String())
	}
}

func TestSetupInvalidLevelWarns(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup(&buf, "loud", "text")

	if !strings.Contains(buf.String(), "invalid log level") {
		t.Fatalf("expected warning about level, got %q", buf.String())
	}
	if !logger.Enabled(context.Background(), slog.LevelInfo) || logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatalf("expected info level fallback")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"DEBUG": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"":      slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range cases {
		got, ok := ParseLevel(in)
		if !ok || got != want {
			t.Fatalf("ParseLevel(%q): expected %v, got %v (ok=%v)", in, want, got, ok)
		}
	}
	if _, ok := ParseLevel("trace"); ok {
		t.Fatalf("expected trace to be rejected")
	}
}
