package stats

import (
	"fmt"
	"sort"
	"strings"

	"github.com/verte-zerg/rankview/internal/model"
)

// Order is the sort direction of the character chart.
type Order string

const (
	OrderAsc  Order = "asc."
	OrderDesc Order = "desc."
)

// SortByChar orders characters by the character itself instead of a metric.
const SortByChar = "char"

// Orders lists the selectable sort directions.
var Orders = []string{string(OrderAsc), string(OrderDesc)}

// CharSortKeys lists the selectable character sort keys.
var CharSortKeys = append(append([]string(nil), CharacterMetrics...), SortByChar)

// ParseOrder accepts "asc"/"asc." and "desc"/"desc.".
func ParseOrder(raw string) (Order, error) {
	switch strings.TrimSuffix(strings.ToLower(strings.TrimSpace(raw)), ".") {
	case "asc":
		return OrderAsc, nil
	case "desc", "":
		return OrderDesc, nil
	default:
		return OrderDesc, fmt.Errorf("unknown order %q (use asc. or desc.)", raw)
	}
}

// CharRow is a character with the value it is charted by.
type CharRow struct {
	Char  string
	Label string
	Value float64
}

// RankChars orders raw characters by a character metric, or by the character
// itself when by is SortByChar. Ties fall back to character order.
func RankChars(chars map[string]model.CharStats, by string, order Order) []string {
	rows := CharRows(chars, by, order)
	out := make([]string, len(rows))
	for i, row := range rows {
		out[i] = row.Char
	}
	return out
}

// CharRows builds the rows of the character chart. When sorting by character
// the charted value is "added".
func CharRows(chars map[string]model.CharStats, by string, order Order) []CharRow {
	metric := by
	if by == SortByChar {
		metric = MetricAdded
	}
	rows := make([]CharRow, 0, len(chars))
	for ch, s := range chars {
		rows = append(rows, CharRow{
			Char:  ch,
			Label: CharLabel(ch),
			Value: CharacterValue(s, metric),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if order == OrderAsc {
			a, b = b, a
		}
		if by != SortByChar && a.Value != b.Value {
			return a.Value > b.Value
		}
		return a.Char > b.Char
	})
	return rows
}
