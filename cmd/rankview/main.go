// Package main provides the CLI entrypoint for rankview.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/rankview/internal/config"
	"github.com/verte-zerg/rankview/internal/logutil"
	"github.com/verte-zerg/rankview/internal/model"
	"github.com/verte-zerg/rankview/internal/snapshot"
	"github.com/verte-zerg/rankview/internal/stats"
	"github.com/verte-zerg/rankview/internal/statsui"
)

var version = "dev"

// globalOptions holds the persistent flags and the loaded config file.
type globalOptions struct {
	file       string
	logLevel   string
	configPath string
	cfg        config.FileConfig
}

type dashboardOptions struct {
	duration    string
	metric      string
	charOrder   string
	charOrderBy string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globalOptions{}
	dash := &dashboardOptions{}

	rootCmd := &cobra.Command{
		Use:           "rankview",
		Short:         "coderank typing stats dashboard",
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return g.init(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDashboard(cmd, g, dash)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&g.file, "file", "f", snapshot.DefaultSource, "snapshot file path or http(s) URL")
	rootCmd.PersistentFlags().StringVar(&g.logLevel, "loglevel", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&g.configPath, "config", config.DefaultConfigPath(), "config file path")

	rootCmd.Flags().StringVar(&dash.duration, "duration", config.DefaultDuration, "initial duration")
	rootCmd.Flags().StringVar(&dash.metric, "metric", config.DefaultMetric, "initial language metric")
	rootCmd.Flags().StringVar(&dash.charOrder, "char-order", config.DefaultCharOrder, "character chart order (asc. or desc.)")
	rootCmd.Flags().StringVar(&dash.charOrderBy, "char-order-by", config.DefaultCharOrderBy, "character chart sort key")

	rootCmd.AddCommand(newConfigCmd(g))
	rootCmd.AddCommand(newDurationsCmd(g))
	rootCmd.AddCommand(newSummaryCmd(g))
	rootCmd.AddCommand(newLanguagesCmd(g))
	rootCmd.AddCommand(newCharsCmd(g))
	rootCmd.AddCommand(newTrendCmd(g))
	rootCmd.AddCommand(newRenderCmd(g))
	rootCmd.AddCommand(newServeCmd(g))
	rootCmd.AddCommand(newExportCmd(g))
	rootCmd.AddCommand(newHistoryCmd(g))

	return rootCmd
}

// init loads the config file, lets it fill unset persistent flags and
// configures logging. The config command skips the file so a broken config
// can still be opened for editing.
func (g *globalOptions) init(cmd *cobra.Command) error {
	if cmd.Name() != "config" {
		cfg, err := config.LoadConfig(g.configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		g.cfg = cfg
	}
	applyStringConfig(cmd, "file", &g.file, g.cfg.Viewer.Snapshot)
	applyStringConfig(cmd, "loglevel", &g.logLevel, g.cfg.Log.Level)
	return logutil.Configure(g.logLevel)
}

// load reads the snapshot and logs version warnings.
func (g *globalOptions) load(cmd *cobra.Command) (model.Snapshot, []snapshot.Warning, error) {
	log.Debug("loading snapshot", "source", g.file)
	snap, warnings, err := snapshot.Load(cmd.Context(), g.file)
	if err != nil {
		return model.Snapshot{}, nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	for _, w := range warnings {
		log.Warn("unsupported snapshot version", "version", w.Version, "supported", strings.Join(w.Supported, ", "))
	}
	return snap, warnings, nil
}

func runDashboard(cmd *cobra.Command, g *globalOptions, dash *dashboardOptions) error {
	viewer := g.cfg.Viewer
	applyStringConfig(cmd, "duration", &dash.duration, viewer.Duration)
	applyStringConfig(cmd, "metric", &dash.metric, viewer.Metric)
	applyStringConfig(cmd, "char-order", &dash.charOrder, viewer.CharOrder)
	applyStringConfig(cmd, "char-order-by", &dash.charOrderBy, viewer.CharOrderBy)

	if err := validateMetric(dash.metric); err != nil {
		return err
	}
	if _, err := stats.ParseOrder(dash.charOrder); err != nil {
		return err
	}
	if err := validateCharSortKey(dash.charOrderBy); err != nil {
		return err
	}

	snap, warnings, err := g.load(cmd)
	if err != nil {
		return err
	}
	messages := make([]string, len(warnings))
	for i, w := range warnings {
		messages[i] = w.String()
	}

	m := statsui.NewModel(snap, messages, statsui.Options{
		Duration:    dash.duration,
		Metric:      dash.metric,
		CharOrder:   dash.charOrder,
		CharOrderBy: dash.charOrderBy,
	})
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run dashboard: %w", err)
	}
	return nil
}

func newConfigCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runConfigCmd(g.configPath)
		},
	}
}

func runConfigCmd(path string) error {
	if err := writeDefaultConfig(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// writeDefaultConfig creates the commented template unless a config exists.
func writeDefaultConfig(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(config.DefaultTemplate(snapshot.DefaultSource)), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func validateMetric(metric string) error {
	if !stats.IsLanguageMetric(metric) {
		return fmt.Errorf("unknown metric %q (use one of: %s)", metric, strings.Join(stats.LanguageMetrics, ", "))
	}
	return nil
}

func validateCharSortKey(by string) error {
	for _, key := range stats.CharSortKeys {
		if key == by {
			return nil
		}
	}
	return fmt.Errorf("unknown sort key %q (use one of: %s)", by, strings.Join(stats.CharSortKeys, ", "))
}
