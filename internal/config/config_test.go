package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("expected missing file to be ignored: %v", err)
	}
	if cfg.Viewer.Snapshot != nil || cfg.Server.Addr != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
	if _, err := LoadConfig(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestLoadConfigValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
[viewer]
snapshot = "https://example.com/coderank.json"
duration = "1 year"
char-order-by = "added typed"

[server]
addr = ":9000"

[log]
level = "debug"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Viewer.Snapshot == nil || *cfg.Viewer.Snapshot != "https://example.com/coderank.json" {
		t.Fatalf("unexpected snapshot: %v", cfg.Viewer.Snapshot)
	}
	if cfg.Viewer.Duration == nil || *cfg.Viewer.Duration != "1 year" {
		t.Fatalf("unexpected duration: %v", cfg.Viewer.Duration)
	}
	if cfg.Viewer.CharOrderBy == nil || *cfg.Viewer.CharOrderBy != "added typed" {
		t.Fatalf("unexpected char order by: %v", cfg.Viewer.CharOrderBy)
	}
	if cfg.Viewer.Metric != nil {
		t.Fatalf("expected unset metric to stay nil")
	}
	if cfg.Server.Addr == nil || *cfg.Server.Addr != ":9000" {
		t.Fatalf("unexpected addr: %v", cfg.Server.Addr)
	}
	if cfg.Log.Level == nil || *cfg.Log.Level != "debug" {
		t.Fatalf("unexpected log level: %v", cfg.Log.Level)
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[viewer]\ncolour = \"red\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "viewer.colour") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestDefaultTemplateIsValidTOML(t *testing.T) {
	tmpl := DefaultTemplate("coderank/coderank.json")
	var cfg FileConfig
	if _, err := toml.Decode(tmpl, &cfg); err != nil {
		t.Fatalf("template does not parse: %v", err)
	}
	uncommented := strings.ReplaceAll(tmpl, "# snapshot", "snapshot")
	if _, err := toml.Decode(uncommented, &cfg); err != nil {
		t.Fatalf("uncommented template does not parse: %v", err)
	}
	if cfg.Viewer.Snapshot == nil || *cfg.Viewer.Snapshot != "coderank/coderank.json" {
		t.Fatalf("unexpected snapshot from template: %v", cfg.Viewer.Snapshot)
	}
}

func TestDefaultPathsFollowXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	t.Setenv("XDG_DATA_HOME", "/tmp/data")
	if got := DefaultConfigPath(); got != filepath.Join("/tmp/cfg", "rankview", "config.toml") {
		t.Fatalf("unexpected config path %q", got)
	}
	if got := DefaultDBPath(); got != filepath.Join("/tmp/data", "rankview", "rankview.db") {
		t.Fatalf("unexpected db path %q", got)
	}
	if got := DefaultChartDir(); got != filepath.Join("/tmp/data", "rankview", "charts") {
		t.Fatalf("unexpected chart dir %q", got)
	}
}
