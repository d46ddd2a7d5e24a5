package stats

import (
	"testing"

	"github.com/verte-zerg/rankview/internal/model"
)

func TestRankCharsByAdded(t *testing.T) {
	chars := map[string]model.CharStats{
		"b": {Added: 3},
		"a": {Added: 3},
		"c": {Added: 9},
	}
	got := RankChars(chars, MetricAdded, OrderDesc)
	want := []string{"c", "b", "a"}
	if len(got) != len(want) {
		t.Fatalf("expected %d chars, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected order: %v", got)
		}
	}

	asc := RankChars(chars, MetricAdded, OrderAsc)
	if asc[0] != "a" || asc[2] != "c" {
		t.Fatalf("unexpected ascending order: %v", asc)
	}
}

func TestCharRowsByCharUsesAdded(t *testing.T) {
	chars := map[string]model.CharStats{
		"\n": {Added: 4, AddedTyped: 1},
		"z":  {Added: 2, AddedTyped: 2},
	}
	rows := CharRows(chars, SortByChar, OrderAsc)
	if rows[0].Char != "\n" || rows[0].Label != `\n` {
		t.Fatalf("unexpected first row: %+v", rows[0])
	}
	if rows[0].Value != 4 {
		t.Fatalf("expected added value when sorting by char, got %v", rows[0].Value)
	}

	typed := CharRows(chars, MetricAddedTyped, OrderDesc)
	if typed[0].Char != "z" || typed[0].Value != 2 {
		t.Fatalf("unexpected typed order: %+v", typed)
	}
}

func TestParseOrder(t *testing.T) {
	if o, err := ParseOrder("asc"); err != nil || o != OrderAsc {
		t.Fatalf("expected asc., got %q %v", o, err)
	}
	if o, err := ParseOrder(""); err != nil || o != OrderDesc {
		t.Fatalf("expected desc. default, got %q %v", o, err)
	}
	if _, err := ParseOrder("sideways"); err == nil {
		t.Fatalf("expected error for unknown order")
	}
}
