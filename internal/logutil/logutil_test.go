package logutil

import (
	"bytes"
	"strings"
	"testing"

	log "github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]log.Level{
		"debug":   log.DebugLevel,
		"trace":   log.DebugLevel,
		"INFO":    log.InfoLevel,
		"warning": log.WarnLevel,
		"error":   log.ErrorLevel,
	}
	for raw, want := range cases {
		got, err := ParseLevel(raw)
		if err != nil {
			t.Fatalf("ParseLevel(%q) failed: %v", raw, err)
		}
		if got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", raw, got, want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestConfigureFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(nil)
	defer func() { _ = Configure("info") }()

	if err := Configure("warn"); err != nil {
		t.Fatalf("Configure failed: %v", err)
	}
	log.Info("hidden message")
	log.Warn("schema mismatch", "version", "0.3.0")
	out := buf.String()
	if strings.Contains(out, "hidden message") {
		t.Fatalf("expected info message to be filtered: %q", out)
	}
	if !strings.Contains(out, "schema mismatch") || !strings.Contains(out, "0.3.0") {
		t.Fatalf("expected warning in output: %q", out)
	}

	if err := Configure(""); err != nil {
		t.Fatalf("expected empty level to default to info: %v", err)
	}
	if log.GetLevel() != log.InfoLevel {
		t.Fatalf("expected info level, got %v", log.GetLevel())
	}
}
