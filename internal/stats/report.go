package stats

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/verte-zerg/rankview/internal/model"
)

const topRankedShown = 10

// LanguageRow is one language with the value of the selected metric.
type LanguageRow struct {
	Language string
	Value    float64
}

// LanguageRows orders languages by descending metric value, ties by name.
func LanguageRows(langs map[string]model.LanguageStats, metric string) []LanguageRow {
	return CharLanguageRows(langs, metric, All())
}

// CharLanguageRows is LanguageRows reading one character's counters when char
// is exact and metric is a character metric. Languages that never recorded
// the character are left out.
func CharLanguageRows(langs map[string]model.LanguageStats, metric string, char Filter) []LanguageRow {
	byChar := !char.IsAll() && IsCharacterMetric(metric)
	rows := make([]LanguageRow, 0, len(langs))
	for lang, s := range langs {
		value := LanguageValue(s, metric)
		if byChar {
			cs, ok := s.Chars[char.ID()]
			if !ok {
				continue
			}
			value = CharacterValue(cs, metric)
		}
		rows = append(rows, LanguageRow{Language: lang, Value: value})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Value == rows[j].Value {
			return rows[i].Language < rows[j].Language
		}
		return rows[i].Value > rows[j].Value
	})
	return rows
}

// RankLine renders a rank with its equivalent in text entry actions.
func RankLine(rank float64) string {
	return fmt.Sprintf("Rank: %s (%s text entry actions)", FormatNumber(rank, 2), FormatNumber(TextEntryActions(rank), 0))
}

// RenderSummary prints the overview of a merged window.
func RenderSummary(w io.Writer, duration string, s Summary) error {
	if _, err := fmt.Fprintf(w, "Summary (%s)\n", duration); err != nil {
		return err
	}
	if len(s.Languages) == 0 {
		_, err := fmt.Fprintln(w, "No activity recorded.")
		return err
	}
	lines := []string{
		RankLine(s.Total.Rank),
		fmt.Sprintf("Languages: %s", joinTop(RankedNames(s.Languages))),
		fmt.Sprintf("Editors: %s", joinTop(RankedNames(s.Editors))),
		fmt.Sprintf("Machines: %s", joinTop(RankedNames(s.Machines))),
		fmt.Sprintf("Top chars: %s", joinTop(charLabels(s.Chars))),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	rows := s.AddDeleteRows()
	tableRows := make([][]string, 0, len(rows))
	for _, r := range rows {
		digits := 0
		if strings.HasPrefix(r.Label, "ave.") {
			digits = 2
		}
		tableRows = append(tableRows, []string{
			r.Label,
			FormatNumber(r.Added, digits),
			FormatNumber(r.Deleted, digits),
			FormatNumber(r.Total, digits),
			FormatNumber(r.Net, digits),
		})
	}
	headers := []string{"", "added", "deleted", "total", "net"}
	return writeLines(w, formatTable(headers, tableRows, map[int]bool{1: true, 2: true, 3: true, 4: true}))
}

// RenderLanguageTable prints language rows in the order given.
func RenderLanguageTable(w io.Writer, rows []LanguageRow, metric string) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No languages found.")
		return err
	}
	tableRows := make([][]string, 0, len(rows))
	for _, r := range rows {
		tableRows = append(tableRows, []string{r.Language, FormatNumber(r.Value, metricDigits(metric))})
	}
	return writeLines(w, formatTable([]string{"Language", metric}, tableRows, map[int]bool{1: true}))
}

// RenderDurations prints the selectable duration tokens with their labels.
func RenderDurations(w io.Writer, opts []model.Option) error {
	rows := make([][]string, len(opts))
	for i, opt := range opts {
		rows[i] = []string{opt.Value, opt.Label}
	}
	return writeLines(w, formatTable([]string{"Duration", "Label"}, rows, nil))
}

// RenderCharTable prints character rows as ordered by CharRows.
func RenderCharTable(w io.Writer, rows []CharRow, metric string) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No character stats found.")
		return err
	}
	tableRows := make([][]string, 0, len(rows))
	for _, r := range rows {
		tableRows = append(tableRows, []string{r.Label, FormatNumber(r.Value, 0)})
	}
	return writeLines(w, formatTable([]string{"Char", metric}, tableRows, map[int]bool{1: true}))
}

// RenderTrend prints a per-period table, a sparkline and a braille plot.
func RenderTrend(w io.Writer, series TrendSeries, opts PlotOptions) error {
	if len(series.Values) == 0 {
		_, err := fmt.Fprintln(w, "No periods found.")
		return err
	}
	digits := metricDigits(series.Name)
	tableRows := make([][]string, 0, len(series.Values))
	for i, v := range series.Values {
		tableRows = append(tableRows, []string{series.Keys[i], series.Labels[i], FormatNumber(v, digits)})
	}
	if err := writeLines(w, formatTable([]string{"Period", "Label", series.Name}, tableRows, map[int]bool{2: true})); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Sparkline: %s\n\n", Sparkline(series.Values)); err != nil {
		return err
	}
	return PlotTrends(w, "Trend: "+series.Name, []TrendSeries{series}, opts)
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func metricDigits(metric string) int {
	if metric == MetricRank {
		return 4
	}
	return 0
}

func joinTop(items []string) string {
	if len(items) > topRankedShown {
		items = items[:topRankedShown]
	}
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}

func charLabels(chars []string) []string {
	out := make([]string, len(chars))
	for i, ch := range chars {
		out[i] = CharLabel(ch)
	}
	return out
}
