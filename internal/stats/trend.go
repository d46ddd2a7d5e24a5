package stats

import (
	"math"
	"strings"

	"github.com/verte-zerg/rankview/internal/model"
)

const sparkChars = " .:-=+*#%@"

// TrendQuery selects the slice of history a trend is computed over.
type TrendQuery struct {
	Scope     Scope
	Machine   Filter
	Editor    Filter
	Language  Filter
	Character Filter
	Metric    string
}

// TrendSeries holds one metric value per period key of a scope.
type TrendSeries struct {
	Name   string
	Keys   []string
	Labels []string
	Values []float64
}

// Trend computes the metric for every period of the query scope, oldest first.
// An exact character filter applies only to character metrics.
func Trend(snap model.Snapshot, q TrendQuery) TrendSeries {
	periods := q.Scope.Periods(snap)
	keys := sortedPeriodKeys(periods)
	series := TrendSeries{
		Name:   q.Metric,
		Keys:   keys,
		Labels: make([]string, len(keys)),
		Values: make([]float64, len(keys)),
	}
	labelYear := labelYearFor(snap)
	for i, key := range keys {
		if q.Scope == ScopeWeeks {
			series.Labels[i] = WeekLabel(key, labelYear)
		} else {
			series.Labels[i] = key
		}
		w := Window{Scope: q.Scope, Periods: periods, Keys: []string{key}}
		series.Values[i] = windowValue(w, q)
	}
	return series
}

func windowValue(w Window, q TrendQuery) float64 {
	if !q.Character.IsAll() && IsCharacterMetric(q.Metric) {
		chars, ok := AggregateCharacters(w, q.Machine, q.Editor, q.Language)
		if !ok {
			return 0
		}
		return CharacterValue(chars[q.Character.ID()], q.Metric)
	}
	langs, ok := AggregateLanguages(w, q.Machine, q.Editor)
	if !ok {
		return 0
	}
	if !q.Language.IsAll() {
		return LanguageValue(langs[q.Language.ID()], q.Metric)
	}
	var total model.LanguageStats
	for _, lang := range sortedKeys(langs) {
		addLanguageStats(&total, langs[lang])
	}
	return LanguageValue(total, q.Metric)
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := seriesMinMax(values)
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}
