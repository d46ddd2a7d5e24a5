// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Viewer ViewerConfig `toml:"viewer"`
	Server ServerConfig `toml:"server"`
	Export ExportConfig `toml:"export"`
	Log    LogConfig    `toml:"log"`
}

// ViewerConfig maps dashboard and report defaults.
type ViewerConfig struct {
	Snapshot    *string `toml:"snapshot"`
	Duration    *string `toml:"duration"`
	Metric      *string `toml:"metric"`
	CharOrder   *string `toml:"char-order"`
	CharOrderBy *string `toml:"char-order-by"`
}

// ServerConfig maps JSON API settings.
type ServerConfig struct {
	Addr *string `toml:"addr"`
}

// ExportConfig maps SQLite export settings.
type ExportConfig struct {
	DB *string `toml:"db"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
}

// Defaults used by the CLI and the config template.
const (
	DefaultDuration    = "all time"
	DefaultMetric      = "added"
	DefaultCharOrder   = "desc."
	DefaultCharOrderBy = "added"
	DefaultAddr        = "127.0.0.1:8080"
	DefaultLogLevel    = "info"
)

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}

// DefaultTemplate returns the commented config written by "rankview config".
func DefaultTemplate(snapshotPath string) string {
	return fmt.Sprintf(`# rankview configuration
# Uncomment a value to enable it. CLI flags override config values.

[viewer]
# snapshot = %q        # Snapshot file path or http(s) URL
# duration = %q                   # Initial duration token
# metric = %q                        # Initial language metric
# char-order = %q                    # Character chart order (asc. or desc.)
# char-order-by = %q                 # added, added typed, added pasted or char

[server]
# addr = %q               # Listen address for "rankview serve"

[export]
# db = %q

[log]
# level = %q                          # debug, info, warn or error
`,
		snapshotPath,
		DefaultDuration,
		DefaultMetric,
		DefaultCharOrder,
		DefaultCharOrderBy,
		DefaultAddr,
		DefaultDBPath(),
		DefaultLogLevel,
	)
}
