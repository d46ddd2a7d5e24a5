package statsui

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/rankview/internal/chart"
	"github.com/verte-zerg/rankview/internal/model"
	"github.com/verte-zerg/rankview/internal/stats"
)

// Selector positions per tab.
const (
	selDuration = 0
	selMachine  = 1
	selEditor   = 2

	selLangMetric = 3
	selLangChar   = 4

	selCharLanguage = 3
	selCharOrder    = 4
	selCharOrderBy  = 5

	selTrendScope    = 0
	selTrendLanguage = 3
	selTrendMetric   = 4
)

const topListed = 8

func (m *Model) initSelectors(opts Options) {
	m.selectors = [][]*selector{
		{newSelector("duration")},
		{newSelector("duration"), newSelector("machine"), newSelector("editor"), newSelector("metric"), newSelector("char")},
		{newSelector("duration"), newSelector("machine"), newSelector("editor"), newSelector("language"), newSelector("order"), newSelector("by")},
		{newSelector("scope"), newSelector("machine"), newSelector("editor"), newSelector("language"), newSelector("metric")},
	}
	m.focus = make([]int, len(m.selectors))

	metric := opts.Metric
	if metric == "" {
		metric = stats.MetricAdded
	}
	order := string(stats.OrderDesc)
	if o, err := stats.ParseOrder(opts.CharOrder); err == nil {
		order = string(o)
	}

	durations := stats.Durations(m.snap)
	for tab := tabOverview; tab <= tabCharacters; tab++ {
		preset(m.selectors[tab][selDuration], durations, opts.Duration)
	}
	preset(m.selectors[tabLanguages][selLangMetric], valueOptions(stats.LanguageMetrics), metric)
	preset(m.selectors[tabTrends][selTrendMetric], valueOptions(stats.LanguageMetrics), metric)
	preset(m.selectors[tabCharacters][selCharOrder], valueOptions(stats.Orders), order)
	preset(m.selectors[tabCharacters][selCharOrderBy], valueOptions(stats.CharSortKeys), opts.CharOrderBy)
	preset(m.selectors[tabTrends][selTrendScope], valueOptions([]string{stats.ScopeYears.String(), stats.ScopeWeeks.String()}), "")
}

func preset(sel *selector, options []model.Option, value string) {
	sel.setOptions(options)
	if value != "" {
		_ = sel.choose(value)
	}
}

// refresh rebuilds the selectors of a tab top-down and redraws its content.
func (m *Model) refresh(tab int) {
	sels := m.selectors[tab]
	switch tab {
	case tabOverview:
		sels[selDuration].setOptions(stats.Durations(m.snap))
	case tabLanguages:
		w := m.cascade(sels)
		metric := sels[selLangMetric]
		metric.setOptions(valueOptions(stats.LanguageMetrics))
		if stats.IsCharacterMetric(metric.value()) {
			sels[selLangChar].setOptions(stats.CollectCharacters(w, filterOf(sels[selMachine]), filterOf(sels[selEditor]), stats.All()))
		} else {
			sels[selLangChar].disable()
		}
	case tabCharacters:
		w := m.cascade(sels)
		sels[selCharLanguage].setValues(stats.CollectLanguages(w, filterOf(sels[selMachine]), filterOf(sels[selEditor])))
		sels[selCharOrder].setOptions(valueOptions(stats.Orders))
		sels[selCharOrderBy].setOptions(valueOptions(stats.CharSortKeys))
	case tabTrends:
		sels[selTrendScope].setOptions(valueOptions([]string{stats.ScopeYears.String(), stats.ScopeWeeks.String()}))
		w := m.trendWindow()
		sels[selMachine].setOptions(stats.CollectMachines(w))
		sels[selEditor].setValues(stats.CollectEditors(w, filterOf(sels[selMachine])))
		sels[selTrendLanguage].setValues(stats.CollectLanguages(w, filterOf(sels[selMachine]), filterOf(sels[selEditor])))
		sels[selTrendMetric].setOptions(valueOptions(stats.LanguageMetrics))
	}
	m.renderTab(tab)
}

// cascade refreshes the duration, machine and editor selectors shared by the
// languages and characters tabs and returns the resolved window.
func (m *Model) cascade(sels []*selector) stats.Window {
	sels[selDuration].setOptions(stats.Durations(m.snap))
	w := stats.Resolve(m.snap, sels[selDuration].value())
	sels[selMachine].setOptions(stats.CollectMachines(w))
	sels[selEditor].setValues(stats.CollectEditors(w, filterOf(sels[selMachine])))
	return w
}

func (m *Model) trendWindow() stats.Window {
	scope, err := stats.ParseScope(m.selectors[tabTrends][selTrendScope].value())
	if err != nil {
		scope = stats.ScopeYears
	}
	return stats.Window{Scope: scope, Periods: scope.Periods(m.snap)}
}

func (m *Model) renderTabContents() {
	for tab := range m.tabs {
		m.renderTab(tab)
	}
}

func (m *Model) renderTab(tab int) {
	if len(m.viewports) == 0 {
		return
	}
	var content string
	switch tab {
	case tabOverview:
		content = m.renderOverview()
	case tabLanguages:
		content = m.renderLanguages()
	case tabCharacters:
		content = m.renderCharacters()
	case tabTrends:
		content = m.renderTrend()
	}
	m.viewports[tab].SetContent(content)
}

func (m *Model) renderOverview() string {
	duration := m.selectors[tabOverview][selDuration].value()
	p, ok := stats.SumWindow(stats.Resolve(m.snap, duration))
	if !ok {
		return "No data for this duration."
	}
	s := stats.Summarize(p)
	if len(s.Languages) == 0 {
		return "No activity recorded."
	}
	cards := []string{
		metricCard("Rank", stats.FormatNumber(s.Total.Rank, 2)),
		metricCard("Languages", strconv.Itoa(len(s.Languages))),
		metricCard("Top language", s.Languages[0].Name),
		metricCard("Top editor", firstName(s.Editors)),
		metricCard("Machines", strconv.Itoa(len(s.Machines))),
	}
	var cardBlock string
	if m.contentWidth() < 80 {
		cardBlock = strings.Join(cards, "\n")
	} else {
		cardBlock = lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2]),
			lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4]),
		)
	}
	details := []string{
		stats.RankLine(s.Total.Rank),
		"Languages: " + joinLimited(stats.RankedNames(s.Languages)),
		"Editors: " + joinLimited(stats.RankedNames(s.Editors)),
		"Machines: " + joinLimited(stats.RankedNames(s.Machines)),
		"Top chars: " + joinLimited(charLabels(s.Chars)),
		"Supported editors: " + strings.Join(stats.SupportedEditors, ", "),
	}
	m.setRows(s.AddDeleteRows())
	return strings.Join([]string{
		cardBlock,
		headerStyle.Render(strings.Join(details, "\n")),
		tableMutedStyle.Render(m.rowsTable.View()),
	}, "\n\n")
}

func (m *Model) renderLanguages() string {
	sels := m.selectors[tabLanguages]
	metric := sels[selLangMetric].value()
	w := stats.Resolve(m.snap, sels[selDuration].value())
	langs, ok := stats.AggregateLanguages(w, filterOf(sels[selMachine]), filterOf(sels[selEditor]))
	title := metric + " by language"
	if !ok {
		m.shareChart.Update(title, nil)
		return "No data for this duration."
	}
	char := sels[selLangChar]
	charFilter := stats.All()
	if !char.disabled {
		charFilter = filterOf(char)
	}
	rows := stats.CharLanguageRows(langs, metric, charFilter)
	slices := make([]chart.Slice, len(rows))
	for i, r := range rows {
		slices[i] = chart.Slice{Label: r.Language, Value: r.Value}
	}
	if !char.disabled && char.value() != stats.AllID {
		title = fmt.Sprintf("%s of %s by language", metric, char.label())
	}
	m.shareChart.Update(title, slices)
	return m.shareChart.View(m.contentWidth())
}

func (m *Model) renderCharacters() string {
	sels := m.selectors[tabCharacters]
	w := stats.Resolve(m.snap, sels[selDuration].value())
	chars, ok := stats.AggregateCharacters(w, filterOf(sels[selMachine]), filterOf(sels[selEditor]), filterOf(sels[selCharLanguage]))
	by := sels[selCharOrderBy].value()
	order, err := stats.ParseOrder(sels[selCharOrder].value())
	if err != nil {
		order = stats.OrderDesc
	}
	metric := by
	if by == stats.SortByChar {
		metric = stats.MetricAdded
	}
	title := fmt.Sprintf("%s per character (%s)", metric, order)
	if !ok {
		m.barChart.Update(title, nil)
		return "No data for this duration."
	}
	rows := stats.CharRows(chars, by, order)
	bars := make([]chart.Bar, len(rows))
	for i, r := range rows {
		bars[i] = chart.Bar{Label: r.Label, Value: r.Value}
	}
	m.barChart.Update(title, bars)
	return m.barChart.View(m.contentWidth())
}

func (m *Model) renderTrend() string {
	sels := m.selectors[tabTrends]
	scope, err := stats.ParseScope(sels[selTrendScope].value())
	if err != nil {
		scope = stats.ScopeYears
	}
	series := stats.Trend(m.snap, stats.TrendQuery{
		Scope:     scope,
		Machine:   filterOf(sels[selMachine]),
		Editor:    filterOf(sels[selEditor]),
		Language:  filterOf(sels[selTrendLanguage]),
		Character: stats.All(),
		Metric:    sels[selTrendMetric].value(),
	})
	if len(series.Values) == 0 {
		return "No periods tracked for this scope."
	}
	var buf bytes.Buffer
	opts := stats.PlotOptions{Width: stats.PlotWidthFor(m.contentWidth()), Height: plotHeight, ForceColor: true}
	if err := stats.PlotTrends(&buf, fmt.Sprintf("%s per %s", series.Name, strings.TrimSuffix(scope.String(), "s")), []stats.TrendSeries{series}, opts); err != nil {
		return fmt.Sprintf("Failed to render trend: %v", err)
	}
	header := headerStyle.Render("Sparkline: " + stats.Sparkline(series.Values))
	return strings.TrimRight(header+"\n\n"+buf.String(), "\n")
}

func (m *Model) initRowsTable() {
	columns := []table.Column{
		{Title: "", Width: 20},
		{Title: "added", Width: 12},
		{Title: "deleted", Width: 12},
		{Title: "total", Width: 12},
		{Title: "net", Width: 12},
	}
	m.rowsTable = table.New(table.WithColumns(columns), table.WithHeight(8))
	m.rowsTable.SetStyles(rowsTableStyles())
	m.rowsTable.Blur()
}

func (m *Model) setRows(rows []stats.AddDeleteRow) {
	out := make([]table.Row, 0, len(rows))
	for _, r := range rows {
		digits := 0
		if strings.HasPrefix(r.Label, "ave.") {
			digits = 2
		}
		out = append(out, table.Row{
			r.Label,
			stats.FormatNumber(r.Added, digits),
			stats.FormatNumber(r.Deleted, digits),
			stats.FormatNumber(r.Total, digits),
			stats.FormatNumber(r.Net, digits),
		})
	}
	m.rowsTable.SetRows(out)
	m.rowsTable.SetHeight(len(out) + 2)
}

func rowsTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell
	return styles
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

// filterOf maps a selector value to a filter without trimming, so that
// whitespace characters stay selectable.
func filterOf(sel *selector) stats.Filter {
	v := sel.value()
	if v == "" || v == stats.AllID {
		return stats.All()
	}
	return stats.Exact(v)
}

func firstName(items []stats.Ranked) string {
	if len(items) == 0 {
		return "-"
	}
	return items[0].Name
}

func joinLimited(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	if len(items) > topListed {
		return strings.Join(items[:topListed], ", ") + fmt.Sprintf(" (+%d)", len(items)-topListed)
	}
	return strings.Join(items, ", ")
}

func charLabels(chars []string) []string {
	out := make([]string, len(chars))
	for i, ch := range chars {
		out[i] = stats.CharLabel(ch)
	}
	return out
}
