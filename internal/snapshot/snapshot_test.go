package snapshot

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleSnapshot = `{
  "version": "0.4.0",
  "pastFiveWeeks": {
    "1": {"machines": {"m1": {"name": "laptop", "editors": {"vscode": {"languages": {
      "go": {"rank": 0.5, "added": 10, "deleted": 2, "added_typed": 9, "chars": {"a": {"added": 10, "added_typed": 9}}}
    }}}}}},
    "2": {"machines": null}
  },
  "years": {"2024": {"machines": {"m1": {"editors": {"vscode": {"languages": {"go": {"added": 10}}}}}}}}
}`

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coderank.json")
	if err := os.WriteFile(path, []byte(sampleSnapshot), 0o644); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}
	snap, warnings, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", warnings)
	}
	goStats := snap.PastFiveWeeks["1"].Machines["m1"].Editors["vscode"].Languages["go"]
	if goStats.Added != 10 || goStats.AddedTyped != 9 || goStats.Rank != 0.5 {
		t.Fatalf("unexpected stats: %+v", goStats)
	}
	if goStats.Chars["a"].AddedTyped != 9 {
		t.Fatalf("unexpected chars: %+v", goStats.Chars)
	}
	if snap.PastFiveWeeks["2"].Machines == nil {
		t.Fatalf("expected null machines to be normalized")
	}
	if snap.Years["2024"].Machines["m1"].Editors["vscode"].Languages["go"].Chars == nil {
		t.Fatalf("expected missing chars to be normalized")
	}
}

func TestLoadVersionWarning(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.json")
	if err := os.WriteFile(path, []byte(`{"version": "0.3.1"}`), 0o644); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}
	snap, warnings, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(warnings) != 1 || warnings[0].Version != "0.3.1" {
		t.Fatalf("expected one version warning, got %v", warnings)
	}
	if !strings.Contains(warnings[0].String(), "0.4.0") {
		t.Fatalf("expected supported versions in warning: %q", warnings[0].String())
	}
	if snap.Years == nil || snap.PastFiveWeeks == nil {
		t.Fatalf("expected empty period maps")
	}
}

func TestLoadErrors(t *testing.T) {
	if _, _, err := Load(context.Background(), "  "); !errors.Is(err, ErrEmptySource) {
		t.Fatalf("expected ErrEmptySource, got %v", err)
	}
	if _, _, err := Load(context.Background(), filepath.Join(t.TempDir(), "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`{"version":`), 0o644); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}
	if _, _, err := Load(context.Background(), path); err == nil || !strings.Contains(err.Error(), "failed to decode snapshot") {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestLoadHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/coderank.json" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleSnapshot))
	}))
	defer srv.Close()

	snap, _, err := Load(context.Background(), srv.URL+"/coderank.json")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if snap.Version != "0.4.0" {
		t.Fatalf("unexpected version %q", snap.Version)
	}

	if _, _, err := Load(context.Background(), srv.URL+"/missing.json"); err == nil || !strings.Contains(err.Error(), "404") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestLoadHTTPHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := Load(ctx, srv.URL); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}
}
