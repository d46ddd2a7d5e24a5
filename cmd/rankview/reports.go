package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/rankview/internal/config"
	"github.com/verte-zerg/rankview/internal/stats"
)

const (
	defaultTrendScope  = "years"
	defaultPlotHeight  = 10
	defaultPlotColumns = 0
)

// filterFlags are the machine/editor/language selectors shared by reports.
type filterFlags struct {
	machine  string
	editor   string
	language string
}

func (f *filterFlags) register(cmd *cobra.Command, withLanguage bool) {
	cmd.Flags().StringVar(&f.machine, "machine", stats.AllID, "machine id")
	cmd.Flags().StringVar(&f.editor, "editor", stats.AllID, "editor id")
	if withLanguage {
		cmd.Flags().StringVar(&f.language, "lang", stats.AllID, "language id")
	}
}

func newDurationsCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "durations",
		Short: "List duration tokens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap, _, err := g.load(cmd)
			if err != nil {
				return err
			}
			if err := stats.RenderDurations(cmd.OutOrStdout(), stats.Durations(snap)); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			return nil
		},
	}
}

func newSummaryCmd(g *globalOptions) *cobra.Command {
	var duration string
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show the overview of a duration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			applyStringConfig(cmd, "duration", &duration, g.cfg.Viewer.Duration)
			snap, _, err := g.load(cmd)
			if err != nil {
				return err
			}
			p, ok := stats.SumWindow(stats.Resolve(snap, duration))
			if !ok {
				return fmt.Errorf("no data for duration %q", duration)
			}
			if err := stats.RenderSummary(cmd.OutOrStdout(), duration, stats.Summarize(p)); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&duration, "duration", config.DefaultDuration, "duration token, year or week")
	return cmd
}

func newLanguagesCmd(g *globalOptions) *cobra.Command {
	var (
		duration string
		metric   string
		char     string
		filters  filterFlags
	)
	cmd := &cobra.Command{
		Use:   "languages",
		Short: "Rank languages by a metric",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			applyStringConfig(cmd, "duration", &duration, g.cfg.Viewer.Duration)
			applyStringConfig(cmd, "metric", &metric, g.cfg.Viewer.Metric)
			if err := validateMetric(metric); err != nil {
				return err
			}
			snap, _, err := g.load(cmd)
			if err != nil {
				return err
			}
			langs, ok := stats.AggregateLanguages(stats.Resolve(snap, duration),
				stats.ParseFilter(filters.machine), stats.ParseFilter(filters.editor))
			if !ok {
				return fmt.Errorf("no data for duration %q", duration)
			}
			rows := stats.CharLanguageRows(langs, metric, charFilter(char))
			if err := stats.RenderLanguageTable(cmd.OutOrStdout(), rows, metric); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&duration, "duration", config.DefaultDuration, "duration token, year or week")
	cmd.Flags().StringVar(&metric, "metric", config.DefaultMetric, "language metric")
	cmd.Flags().StringVar(&char, "char", stats.AllID, "count a single character (character metrics only)")
	filters.register(cmd, false)
	return cmd
}

func newCharsCmd(g *globalOptions) *cobra.Command {
	var (
		duration string
		order    string
		by       string
		filters  filterFlags
	)
	cmd := &cobra.Command{
		Use:   "chars",
		Short: "Show per-character stats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			applyStringConfig(cmd, "duration", &duration, g.cfg.Viewer.Duration)
			applyStringConfig(cmd, "order", &order, g.cfg.Viewer.CharOrder)
			applyStringConfig(cmd, "by", &by, g.cfg.Viewer.CharOrderBy)
			parsedOrder, err := stats.ParseOrder(order)
			if err != nil {
				return err
			}
			if err := validateCharSortKey(by); err != nil {
				return err
			}
			snap, _, err := g.load(cmd)
			if err != nil {
				return err
			}
			chars, ok := stats.AggregateCharacters(stats.Resolve(snap, duration),
				stats.ParseFilter(filters.machine), stats.ParseFilter(filters.editor), stats.ParseFilter(filters.language))
			if !ok {
				return fmt.Errorf("no data for duration %q", duration)
			}
			metric := by
			if by == stats.SortByChar {
				metric = stats.MetricAdded
			}
			if err := stats.RenderCharTable(cmd.OutOrStdout(), stats.CharRows(chars, by, parsedOrder), metric); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&duration, "duration", config.DefaultDuration, "duration token, year or week")
	cmd.Flags().StringVar(&order, "order", config.DefaultCharOrder, "sort order (asc. or desc.)")
	cmd.Flags().StringVar(&by, "by", config.DefaultCharOrderBy, "sort key (added, added typed, added pasted, char)")
	filters.register(cmd, true)
	return cmd
}

func newTrendCmd(g *globalOptions) *cobra.Command {
	var (
		scopeRaw string
		metric   string
		char     string
		width    int
		height   int
		filters  filterFlags
	)
	cmd := &cobra.Command{
		Use:   "trend",
		Short: "Plot a metric across weeks or years",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			applyStringConfig(cmd, "metric", &metric, g.cfg.Viewer.Metric)
			scope, err := stats.ParseScope(scopeRaw)
			if err != nil {
				return err
			}
			if err := validateMetric(metric); err != nil {
				return err
			}
			if height <= 0 {
				return fmt.Errorf("--height must be > 0")
			}
			snap, _, err := g.load(cmd)
			if err != nil {
				return err
			}
			series := stats.Trend(snap, stats.TrendQuery{
				Scope:     scope,
				Machine:   stats.ParseFilter(filters.machine),
				Editor:    stats.ParseFilter(filters.editor),
				Language:  stats.ParseFilter(filters.language),
				Character: charFilter(char),
				Metric:    metric,
			})
			opts := stats.PlotOptions{Width: width, Height: height}
			if err := stats.RenderTrend(cmd.OutOrStdout(), series, opts); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&scopeRaw, "scope", defaultTrendScope, "weeks or years")
	cmd.Flags().StringVar(&metric, "metric", config.DefaultMetric, "language metric")
	cmd.Flags().StringVar(&char, "char", stats.AllID, "count a single character (character metrics only)")
	cmd.Flags().IntVar(&width, "width", defaultPlotColumns, "plot width in columns (0 fits the terminal)")
	cmd.Flags().IntVar(&height, "height", defaultPlotHeight, "plot height in rows")
	filters.register(cmd, true)
	return cmd
}

// charFilter keeps the raw flag value so a single space stays selectable.
func charFilter(raw string) stats.Filter {
	if raw == "" || strings.EqualFold(raw, stats.AllID) {
		return stats.All()
	}
	return stats.Exact(raw)
}
