package app

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in).Level(); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, "info", "json")
	log.Debug("hidden")
	log.Info("tick", "n", 3)

	out := strings.TrimSpace(buf.String())
	if strings.Contains(out, "hidden") {
		t.Fatal("debug record written at info level")
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(out), &rec); err != nil {
		t.Fatalf("not JSON: %q", out)
	}
	if rec["msg"] != "tick" || rec["n"] != float64(3) {
		t.Errorf("record = %v", rec)
	}
}

func TestNewLogger_Text(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, "debug", "text").Debug("frame rendered", "tick", 7)
	if out := buf.String(); !strings.Contains(out, "msg=\"frame rendered\"") || !strings.Contains(out, "tick=7") {
		t.Errorf("output = %q", out)
	}
}
