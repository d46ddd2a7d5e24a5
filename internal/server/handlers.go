package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/verte-zerg/rankview/internal/model"
	"github.com/verte-zerg/rankview/internal/render"
	"github.com/verte-zerg/rankview/internal/snapshot"
	"github.com/verte-zerg/rankview/internal/stats"
)

const formatPNG = "png"

type versionResponse struct {
	App       string   `json:"app,omitempty"`
	Snapshot  string   `json:"snapshot"`
	Supported []string `json:"supported"`
	Warnings  []string `json:"warnings"`
}

type rankedJSON struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Rank float64 `json:"rank"`
}

type rowJSON struct {
	Label   string  `json:"label"`
	Added   float64 `json:"added"`
	Deleted float64 `json:"deleted"`
	Total   float64 `json:"total"`
	Net     float64 `json:"net"`
}

type summaryResponse struct {
	Duration         string              `json:"duration"`
	TextEntryActions float64             `json:"text_entry_actions"`
	Total            model.LanguageStats `json:"total"`
	Languages        []rankedJSON        `json:"languages"`
	Editors          []rankedJSON        `json:"editors"`
	Machines         []rankedJSON        `json:"machines"`
	Chars            []model.Option      `json:"chars"`
	Rows             []rowJSON           `json:"rows"`
	SupportedEditors []string            `json:"supported_editors"`
}

type languageShare struct {
	Language string  `json:"language"`
	Value    float64 `json:"value"`
	Share    float64 `json:"share"`
}

type languageChartResponse struct {
	Title  string          `json:"title"`
	Metric string          `json:"metric"`
	Rows   []languageShare `json:"rows"`
}

type charBar struct {
	Char  string  `json:"char"`
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

type charChartResponse struct {
	Title  string    `json:"title"`
	Metric string    `json:"metric"`
	Order  string    `json:"order"`
	By     string    `json:"by"`
	Rows   []charBar `json:"rows"`
}

type trendPoint struct {
	Key   string  `json:"key"`
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

type trendResponse struct {
	Scope     string       `json:"scope"`
	Metric    string       `json:"metric"`
	Sparkline string       `json:"sparkline"`
	Points    []trendPoint `json:"points"`
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	warnings := make([]string, len(s.warnings))
	for i, warn := range s.warnings {
		warnings[i] = warn.String()
	}
	writeJSON(w, http.StatusOK, versionResponse{
		App:       s.appVersion,
		Snapshot:  s.snap.Version,
		Supported: snapshot.SupportedVersions,
		Warnings:  warnings,
	})
}

func (s *Server) handleDurations(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, stats.Durations(s.snap))
}

func (s *Server) handleMachines(w http.ResponseWriter, r *http.Request) {
	win, ok := s.window(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, stats.CollectMachines(win))
}

func (s *Server) handleEditors(w http.ResponseWriter, r *http.Request) {
	win, ok := s.window(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, stats.CollectEditors(win, filterParam(r, "machine")))
}

func (s *Server) handleLanguages(w http.ResponseWriter, r *http.Request) {
	win, ok := s.window(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, stats.CollectLanguages(win, filterParam(r, "machine"), filterParam(r, "editor")))
}

func (s *Server) handleCharacters(w http.ResponseWriter, r *http.Request) {
	win, ok := s.window(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, stats.CollectCharacters(win,
		filterParam(r, "machine"), filterParam(r, "editor"), filterParam(r, "language")))
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	duration := param(r, "duration", stats.DurationAllTime)
	p, ok := stats.SumWindow(stats.Resolve(s.snap, duration))
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("no data for duration %q", duration))
		return
	}
	sum := stats.Summarize(p)
	chars := make([]model.Option, len(sum.Chars))
	for i, ch := range sum.Chars {
		chars[i] = model.Option{Value: ch, Label: stats.CharLabel(ch)}
	}
	rows := sum.AddDeleteRows()
	outRows := make([]rowJSON, len(rows))
	for i, row := range rows {
		outRows[i] = rowJSON(row)
	}
	writeJSON(w, http.StatusOK, summaryResponse{
		Duration:         duration,
		TextEntryActions: stats.TextEntryActions(sum.Total.Rank),
		Total:            sum.Total,
		Languages:        rankedList(sum.Languages),
		Editors:          rankedList(sum.Editors),
		Machines:         rankedList(sum.Machines),
		Chars:            chars,
		Rows:             outRows,
		SupportedEditors: stats.SupportedEditors,
	})
}

func (s *Server) handleLanguageChart(w http.ResponseWriter, r *http.Request) {
	metric := param(r, "metric", stats.MetricAdded)
	if !stats.IsLanguageMetric(metric) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown metric %q", metric))
		return
	}
	win, ok := s.window(w, r)
	if !ok {
		return
	}
	langs, _ := stats.AggregateLanguages(win, filterParam(r, "machine"), filterParam(r, "editor"))
	char := filterParam(r, "char")
	rows := stats.CharLanguageRows(langs, metric, char)

	title := metric + " by language"
	if !char.IsAll() && stats.IsCharacterMetric(metric) {
		title = fmt.Sprintf("%s of %s by language", metric, stats.CharLabel(char.ID()))
	}
	if r.URL.Query().Get("format") == formatPNG {
		writePNG(w, func(buf *bytes.Buffer) error {
			return render.Languages(buf, title, rows, render.Options{})
		})
		return
	}

	total := 0.0
	for _, row := range rows {
		if row.Value > 0 {
			total += row.Value
		}
	}
	out := make([]languageShare, len(rows))
	for i, row := range rows {
		share := 0.0
		if row.Value > 0 && total > 0 {
			share = row.Value / total
		}
		out[i] = languageShare{Language: row.Language, Value: row.Value, Share: share}
	}
	writeJSON(w, http.StatusOK, languageChartResponse{Title: title, Metric: metric, Rows: out})
}

func (s *Server) handleCharacterChart(w http.ResponseWriter, r *http.Request) {
	order, err := stats.ParseOrder(param(r, "order", string(stats.OrderDesc)))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	by := param(r, "by", stats.MetricAdded)
	if !containsString(stats.CharSortKeys, by) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown sort key %q", by))
		return
	}
	win, ok := s.window(w, r)
	if !ok {
		return
	}
	chars, _ := stats.AggregateCharacters(win,
		filterParam(r, "machine"), filterParam(r, "editor"), filterParam(r, "language"))
	rows := stats.CharRows(chars, by, order)

	metric := by
	if by == stats.SortByChar {
		metric = stats.MetricAdded
	}
	title := fmt.Sprintf("%s per character (%s)", metric, order)
	if r.URL.Query().Get("format") == formatPNG {
		writePNG(w, func(buf *bytes.Buffer) error {
			return render.Characters(buf, title, rows, render.Options{})
		})
		return
	}

	out := make([]charBar, len(rows))
	for i, row := range rows {
		out[i] = charBar{Char: row.Char, Label: row.Label, Value: row.Value}
	}
	writeJSON(w, http.StatusOK, charChartResponse{
		Title:  title,
		Metric: metric,
		Order:  string(order),
		By:     by,
		Rows:   out,
	})
}

func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	scope, err := stats.ParseScope(r.URL.Query().Get("scope"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	metric := param(r, "metric", stats.MetricAdded)
	if !stats.IsLanguageMetric(metric) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown metric %q", metric))
		return
	}
	series := stats.Trend(s.snap, stats.TrendQuery{
		Scope:     scope,
		Machine:   filterParam(r, "machine"),
		Editor:    filterParam(r, "editor"),
		Language:  filterParam(r, "language"),
		Character: filterParam(r, "char"),
		Metric:    metric,
	})
	if len(series.Values) == 0 {
		writeError(w, http.StatusNotFound, fmt.Sprintf("no periods tracked for scope %s", scope))
		return
	}
	if r.URL.Query().Get("format") == formatPNG {
		title := fmt.Sprintf("%s per %s", metric, strings.TrimSuffix(scope.String(), "s"))
		writePNG(w, func(buf *bytes.Buffer) error {
			return render.Trend(buf, title, []stats.TrendSeries{series}, render.Options{})
		})
		return
	}

	points := make([]trendPoint, len(series.Values))
	for i := range series.Values {
		points[i] = trendPoint{Key: series.Keys[i], Label: series.Labels[i], Value: series.Values[i]}
	}
	writeJSON(w, http.StatusOK, trendResponse{
		Scope:     scope.String(),
		Metric:    metric,
		Sparkline: stats.Sparkline(series.Values),
		Points:    points,
	})
}

// window resolves the duration parameter and answers 404 when it selects no periods.
func (s *Server) window(w http.ResponseWriter, r *http.Request) (stats.Window, bool) {
	duration := param(r, "duration", stats.DurationAllTime)
	win := stats.Resolve(s.snap, duration)
	if win.Empty() {
		writeError(w, http.StatusNotFound, fmt.Sprintf("no data for duration %q", duration))
		return stats.Window{}, false
	}
	return win, true
}

func param(r *http.Request, key, def string) string {
	if v := r.URL.Query().Get(key); v != "" {
		return v
	}
	return def
}

// filterParam does not trim, so a single space stays a valid character id.
func filterParam(r *http.Request, key string) stats.Filter {
	v := r.URL.Query().Get(key)
	if v == "" || v == stats.AllID {
		return stats.All()
	}
	return stats.Exact(v)
}

func rankedList(items []stats.Ranked) []rankedJSON {
	out := make([]rankedJSON, len(items))
	for i, item := range items {
		out[i] = rankedJSON(item)
	}
	return out
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writePNG(w http.ResponseWriter, draw func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := draw(&buf); err != nil {
		if errors.Is(err, render.ErrNoData) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		log.Error("chart render failed", "err", err)
		writeError(w, http.StatusInternalServerError, "failed to render chart")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
