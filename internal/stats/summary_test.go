package stats

import (
	"reflect"
	"testing"

	"github.com/verte-zerg/rankview/internal/model"
)

func TestSummarize(t *testing.T) {
	snap := multiSnapshot()
	s := Summarize(snap.Years["2023"])

	if s.Total.Added != 120 || s.Total.Deleted != 45 || s.Total.Rank != 0.75 {
		t.Fatalf("unexpected totals: %+v", s.Total)
	}
	if got := RankedNames(s.Languages); !reflect.DeepEqual(got, []string{"go", "python"}) {
		t.Fatalf("unexpected language ranking: %v", got)
	}
	if got := RankedNames(s.Machines); !reflect.DeepEqual(got, []string{"laptop", "m2"}) {
		t.Fatalf("unexpected machine ranking: %v", got)
	}
	if len(s.Editors) != 1 || s.Editors[0].Rank != 0.75 {
		t.Fatalf("unexpected editors: %+v", s.Editors)
	}
	if !reflect.DeepEqual(s.Chars, []string{"g", "\n", "p"}) {
		t.Fatalf("unexpected char ranking: %q", s.Chars)
	}
	if got := TextEntryActions(s.Total.Rank); got != 7500 {
		t.Fatalf("expected 7500 text entry actions, got %v", got)
	}
}

func TestAddDeleteRows(t *testing.T) {
	snap := multiSnapshot()
	rows := Summarize(snap.Years["2023"]).AddDeleteRows()
	want := []AddDeleteRow{
		{Label: "total", Added: 120, Deleted: 45, Total: 165, Net: 75},
		{Label: "typed", Added: 100, Deleted: 35, Total: 135, Net: 65},
		{Label: "pasted / cut", Added: 20, Deleted: 10, Total: 30, Net: 10},
		{Label: "no. pastes / cuts", Added: 2, Deleted: 1, Total: 3, Net: 1},
		{Label: "ave. per paste / cut", Added: 10, Deleted: 10, Total: 10, Net: 0},
		{Label: "ave. per rank", Added: 160, Deleted: 60, Total: 220, Net: 100},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Fatalf("unexpected rows:\n%+v\nwant\n%+v", rows, want)
	}
}

func TestAddDeleteRowsZeroCounts(t *testing.T) {
	rows := Summarize(model.Period{}).AddDeleteRows()
	for _, r := range rows {
		if r.Added != 0 || r.Deleted != 0 || r.Total != 0 || r.Net != 0 {
			t.Fatalf("expected zero row for empty period, got %+v", r)
		}
	}
}
