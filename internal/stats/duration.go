package stats

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/verte-zerg/rankview/internal/model"
)

// Fixed duration tokens offered before the literal year and week keys.
const (
	DurationOneWeek   = "1 week"
	DurationFiveWeeks = "5 weeks"
	DurationOneYear   = "1 year"
	DurationFiveYears = "5 years"
	DurationAllTime   = "all time"
)

const (
	latestYearsCount = 5
	zeroWeek         = "0"
	weekLabelLayout  = "Jan 2"
)

var now = time.Now

// Scope names the period map a window reads from.
type Scope int

const (
	ScopeYears Scope = iota
	ScopeWeeks
)

func (s Scope) String() string {
	if s == ScopeWeeks {
		return "weeks"
	}
	return "years"
}

// ParseScope parses "weeks" or "years".
func ParseScope(raw string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "weeks", "week":
		return ScopeWeeks, nil
	case "years", "year", "":
		return ScopeYears, nil
	default:
		return ScopeYears, fmt.Errorf("unknown scope %q (use weeks or years)", raw)
	}
}

// Periods returns the period map for a scope.
func (s Scope) Periods(snap model.Snapshot) map[string]model.Period {
	if s == ScopeWeeks {
		return snap.PastFiveWeeks
	}
	return snap.Years
}

// Window is a resolved duration: a period map and the keys to merge from it.
// A nil Keys slice means every key of Periods.
type Window struct {
	Scope   Scope
	Periods map[string]model.Period
	Keys    []string
}

// DesiredKeys returns the period keys to merge in traversal order.
func (w Window) DesiredKeys() []string {
	if w.Keys == nil {
		return sortedPeriodKeys(w.Periods)
	}
	return w.Keys
}

// Empty reports whether the window has nothing to merge.
func (w Window) Empty() bool {
	return len(w.DesiredKeys()) == 0
}

// Resolve maps a duration token to a window over the snapshot.
func Resolve(snap model.Snapshot, token string) Window {
	if _, ok := snap.Years[token]; ok {
		return Window{Scope: ScopeYears, Periods: snap.Years, Keys: []string{token}}
	}
	if _, ok := snap.PastFiveWeeks[token]; ok {
		return Window{Scope: ScopeWeeks, Periods: snap.PastFiveWeeks, Keys: []string{token}}
	}
	switch token {
	case DurationOneYear:
		keys := []string{}
		if year, ok := latestYear(snap.Years); ok {
			keys = append(keys, year)
		}
		return Window{Scope: ScopeYears, Periods: snap.Years, Keys: keys}
	case DurationOneWeek:
		keys := []string{}
		if week, ok := mostRecentWeek(snap.PastFiveWeeks); ok {
			keys = append(keys, week)
		}
		return Window{Scope: ScopeWeeks, Periods: snap.PastFiveWeeks, Keys: keys}
	case DurationFiveWeeks:
		return Window{Scope: ScopeWeeks, Periods: snap.PastFiveWeeks}
	case DurationFiveYears:
		return Window{Scope: ScopeYears, Periods: snap.Years, Keys: latestYears(snap.Years, latestYearsCount)}
	default:
		return Window{Scope: ScopeYears, Periods: snap.Years}
	}
}

// Durations lists the selectable duration tokens with display labels.
func Durations(snap model.Snapshot) []model.Option {
	years := sortedPeriodKeys(snap.Years)
	fixed := []string{DurationOneWeek, DurationFiveWeeks, DurationOneYear}
	if len(years) >= latestYearsCount {
		fixed = append(fixed, DurationFiveYears)
	}
	fixed = append(fixed, DurationAllTime)

	out := make([]model.Option, 0, len(fixed)+len(years)+len(snap.PastFiveWeeks))
	for _, token := range fixed {
		out = append(out, model.Option{Value: token, Label: token})
	}
	for _, year := range years {
		out = append(out, model.Option{Value: year, Label: year})
	}
	labelYear := labelYearFor(snap)
	for _, week := range sortedPeriodKeys(snap.PastFiveWeeks) {
		if len(snap.PastFiveWeeks[week].Machines) == 0 {
			continue
		}
		out = append(out, model.Option{Value: week, Label: WeekLabel(week, labelYear)})
	}
	return out
}

// WeekLabel renders a week number as a calendar range within year,
// e.g. week 2 of 2024 is "Jan 8 - Jan 14".
func WeekLabel(week string, year int) string {
	n, err := strconv.Atoi(week)
	if err != nil {
		return week
	}
	start := time.Date(year, time.January, 1+(n-1)*7, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 6)
	return fmt.Sprintf("%s - %s", start.Format(weekLabelLayout), end.Format(weekLabelLayout))
}

func labelYearFor(snap model.Snapshot) int {
	if year, ok := latestYear(snap.Years); ok {
		if n, err := strconv.Atoi(year); err == nil {
			return n
		}
	}
	return now().Year()
}

func latestYear(years map[string]model.Period) (string, bool) {
	keys := latestYears(years, 1)
	if len(keys) == 0 {
		return "", false
	}
	return keys[0], true
}

// latestYears returns up to count numerically largest year keys, largest first.
func latestYears(years map[string]model.Period, count int) []string {
	keys := sortedPeriodKeys(years)
	out := make([]string, 0, minInt(count, len(keys)))
	for i := len(keys) - 1; i >= 0 && len(out) < count; i-- {
		out = append(out, keys[i])
	}
	return out
}

// mostRecentWeek picks the numerically largest week holding machine data.
// The zero sentinel week ranks oldest. Equal ranks keep the later key.
func mostRecentWeek(weeks map[string]model.Period) (string, bool) {
	keys := sortedPeriodKeys(weeks)
	if week, ok := pickRecentWeek(keys, func(k string) bool {
		return len(weeks[k].Machines) > 0
	}); ok {
		return week, true
	}
	return pickRecentWeek(keys, func(string) bool { return true })
}

func pickRecentWeek(keys []string, keep func(string) bool) (string, bool) {
	best := ""
	bestRank := 0.0
	found := false
	for _, key := range keys {
		if !keep(key) {
			continue
		}
		rank := weekRank(key)
		if !found || rank >= bestRank {
			best = key
			bestRank = rank
			found = true
		}
	}
	return best, found
}

func weekRank(key string) float64 {
	if key == zeroWeek {
		return 0
	}
	n, err := strconv.ParseFloat(key, 64)
	if err != nil {
		return -1
	}
	return n
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
