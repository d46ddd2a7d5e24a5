package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/rankview/internal/config"
	"github.com/verte-zerg/rankview/internal/render"
	"github.com/verte-zerg/rankview/internal/server"
	"github.com/verte-zerg/rankview/internal/store"
	"github.com/verte-zerg/rankview/internal/stats"
)

const (
	languagesChartFile  = "languages.png"
	charactersChartFile = "characters.png"
	trendChartFile      = "trend.png"
)

func newRenderCmd(g *globalOptions) *cobra.Command {
	var (
		outDir   string
		duration string
		metric   string
		order    string
		by       string
		scopeRaw string
		width    int
		height   int
		filters  filterFlags
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render PNG charts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			viewer := g.cfg.Viewer
			applyStringConfig(cmd, "duration", &duration, viewer.Duration)
			applyStringConfig(cmd, "metric", &metric, viewer.Metric)
			applyStringConfig(cmd, "order", &order, viewer.CharOrder)
			applyStringConfig(cmd, "by", &by, viewer.CharOrderBy)
			if err := validateMetric(metric); err != nil {
				return err
			}
			parsedOrder, err := stats.ParseOrder(order)
			if err != nil {
				return err
			}
			if err := validateCharSortKey(by); err != nil {
				return err
			}
			scope, err := stats.ParseScope(scopeRaw)
			if err != nil {
				return err
			}

			snap, _, err := g.load(cmd)
			if err != nil {
				return err
			}
			w := stats.Resolve(snap, duration)
			if w.Empty() {
				return fmt.Errorf("no data for duration %q", duration)
			}
			machine, editor := stats.ParseFilter(filters.machine), stats.ParseFilter(filters.editor)
			language := stats.ParseFilter(filters.language)
			opts := render.Options{Width: width, Height: height}

			langs, _ := stats.AggregateLanguages(w, machine, editor)
			chars, _ := stats.AggregateCharacters(w, machine, editor, language)
			charMetric := by
			if by == stats.SortByChar {
				charMetric = stats.MetricAdded
			}
			series := stats.Trend(snap, stats.TrendQuery{
				Scope:     scope,
				Machine:   machine,
				Editor:    editor,
				Language:  language,
				Character: stats.All(),
				Metric:    metric,
			})

			charts := []struct {
				file string
				draw func(io.Writer) error
			}{
				{languagesChartFile, func(out io.Writer) error {
					return render.Languages(out, fmt.Sprintf("%s by language (%s)", metric, duration),
						stats.LanguageRows(langs, metric), opts)
				}},
				{charactersChartFile, func(out io.Writer) error {
					return render.Characters(out, fmt.Sprintf("%s per character (%s, %s)", charMetric, parsedOrder, duration),
						stats.CharRows(chars, by, parsedOrder), opts)
				}},
				{trendChartFile, func(out io.Writer) error {
					return render.Trend(out, fmt.Sprintf("%s per %s", metric, strings.TrimSuffix(scope.String(), "s")),
						[]stats.TrendSeries{series}, opts)
				}},
			}
			for _, c := range charts {
				path := filepath.Join(outDir, c.file)
				err := render.WriteFile(path, c.draw)
				if errors.Is(err, render.ErrNoData) {
					log.Warn("skipping empty chart", "file", c.file)
					continue
				}
				if err != nil {
					return err
				}
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), path); err != nil {
					return fmt.Errorf("failed to write output: %w", err)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&outDir, "out", config.DefaultChartDir(), "output directory")
	cmd.Flags().StringVar(&duration, "duration", config.DefaultDuration, "duration token, year or week")
	cmd.Flags().StringVar(&metric, "metric", config.DefaultMetric, "language metric")
	cmd.Flags().StringVar(&order, "order", config.DefaultCharOrder, "character order (asc. or desc.)")
	cmd.Flags().StringVar(&by, "by", config.DefaultCharOrderBy, "character sort key")
	cmd.Flags().StringVar(&scopeRaw, "scope", defaultTrendScope, "trend scope (weeks or years)")
	cmd.Flags().IntVar(&width, "width", 0, "image width in pixels")
	cmd.Flags().IntVar(&height, "height", 0, "image height in pixels")
	filters.register(cmd, true)
	return cmd
}

func newServeCmd(g *globalOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			applyStringConfig(cmd, "addr", &addr, g.cfg.Server.Addr)
			snap, warnings, err := g.load(cmd)
			if err != nil {
				return err
			}
			srv := server.New(snap, warnings, server.Options{Addr: addr, AppVersion: version})
			return srv.Run(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", config.DefaultAddr, "listen address")
	return cmd
}

func newExportCmd(g *globalOptions) *cobra.Command {
	var dbPath string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the snapshot into SQLite",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			applyStringConfig(cmd, "db", &dbPath, g.cfg.Export.DB)
			snap, _, err := g.load(cmd)
			if err != nil {
				return err
			}
			st, err := store.Open(dbPath)
			if err != nil {
				return err
			}
			defer func() {
				if cerr := st.Close(); cerr != nil {
					log.Error("failed to close db", "err", cerr)
				}
			}()
			res, err := st.Export(cmd.Context(), snap, time.Now())
			if err != nil {
				return err
			}
			log.Debug("export finished", "id", res.ID, "path", dbPath)
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Exported %d language rows and %d character rows to %s\n",
				res.Languages, res.Chars, dbPath); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", config.DefaultDBPath(), "SQLite database path")
	return cmd
}

func newHistoryCmd(g *globalOptions) *cobra.Command {
	var (
		dbPath    string
		scopeRaw  string
		languages []string
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show totals of the latest SQLite export",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			applyStringConfig(cmd, "db", &dbPath, g.cfg.Export.DB)
			scope, err := stats.ParseScope(scopeRaw)
			if err != nil {
				return err
			}
			if _, err := os.Stat(dbPath); err != nil {
				return fmt.Errorf("failed to open export database %s: %w", dbPath, err)
			}
			st, err := store.Open(dbPath)
			if err != nil {
				return err
			}
			defer func() {
				if cerr := st.Close(); cerr != nil {
					log.Error("failed to close db", "err", cerr)
				}
			}()
			return writeHistory(cmd, st, scope.String(), languages)
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", config.DefaultDBPath(), "SQLite database path")
	cmd.Flags().StringVar(&scopeRaw, "scope", defaultTrendScope, "weeks or years")
	cmd.Flags().StringSliceVar(&languages, "lang", nil, "limit character totals to these languages")
	return cmd
}

func writeHistory(cmd *cobra.Command, st *store.Store, scope string, languages []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	count, err := st.ExportCount(ctx)
	if err != nil {
		return err
	}
	if count == 0 {
		_, err := fmt.Fprintln(out, "No exports found.")
		return err
	}
	langTotals, err := st.LanguageTotals(ctx, scope)
	if err != nil {
		return err
	}
	charTotals, err := st.CharTotals(ctx, scope, languages...)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(out, "Exports: %d (latest, %s)\n\n", count, scope); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	langRows := make([]stats.LanguageRow, len(langTotals))
	for i, t := range langTotals {
		langRows[i] = stats.LanguageRow{Language: t.Language, Value: float64(t.Added)}
	}
	if err := stats.RenderLanguageTable(out, langRows, stats.MetricAdded); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	charRows := make([]stats.CharRow, len(charTotals))
	for i, t := range charTotals {
		charRows[i] = stats.CharRow{Char: t.Char, Label: stats.CharLabel(t.Char), Value: float64(t.Added)}
	}
	if err := stats.RenderCharTable(out, charRows, stats.MetricAdded); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
