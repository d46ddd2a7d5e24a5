package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/rankview/internal/model"
)

func exportSnapshot() model.Snapshot {
	goStats := model.LanguageStats{
		Rank: 0.5, Added: 100, AddedTyped: 80, AddedPasted: 20, NumPastes: 2,
		Deleted: 40, DeletedTyped: 30, DeletedCut: 10, NumCuts: 1,
		Chars: map[string]model.CharStats{
			"g":  {Added: 60, AddedTyped: 50, AddedPasted: 10},
			"\n": {Added: 40, AddedTyped: 30, AddedPasted: 10},
		},
	}
	pyStats := model.LanguageStats{
		Rank: 0.25, Added: 20, Deleted: 5,
		Chars: map[string]model.CharStats{"p": {Added: 20, AddedTyped: 20}},
	}
	period := func(machine, name string, langs map[string]model.LanguageStats) model.Period {
		return model.Period{Machines: map[string]model.Machine{
			machine: {Name: name, Editors: map[string]model.Editor{
				"vscode": {Languages: langs},
			}},
		}}
	}
	snap := model.Snapshot{
		Version: "0.4.0",
		PastFiveWeeks: map[string]model.Period{
			"10": period("m1", "laptop", map[string]model.LanguageStats{"go": goStats}),
		},
		Years: map[string]model.Period{
			"2023": period("m1", "laptop", map[string]model.LanguageStats{"go": goStats, "python": pyStats}),
			"2024": period("m2", "desktop", map[string]model.LanguageStats{"go": goStats}),
		},
	}
	snap.Normalize()
	return snap
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "rankview.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestExportCountsRows(t *testing.T) {
	st := openTestStore(t)
	res, err := st.Export(context.Background(), exportSnapshot(), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if res.Languages != 4 {
		t.Fatalf("expected 4 language rows, got %d", res.Languages)
	}
	if res.Chars != 7 {
		t.Fatalf("expected 7 char rows, got %d", res.Chars)
	}
}

func TestLanguageTotals(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	if _, err := st.Export(ctx, exportSnapshot(), time.Now()); err != nil {
		t.Fatalf("export: %v", err)
	}

	totals, err := st.LanguageTotals(ctx, ScopeYears)
	if err != nil {
		t.Fatalf("language totals: %v", err)
	}
	if len(totals) != 2 {
		t.Fatalf("expected 2 languages, got %d", len(totals))
	}
	if totals[0].Language != "go" || totals[0].Added != 200 || totals[0].Deleted != 80 || totals[0].Rank != 1 {
		t.Fatalf("unexpected go totals: %+v", totals[0])
	}
	if totals[1].Language != "python" || totals[1].Added != 20 {
		t.Fatalf("unexpected python totals: %+v", totals[1])
	}

	weeks, err := st.LanguageTotals(ctx, ScopeWeeks)
	if err != nil {
		t.Fatalf("language totals: %v", err)
	}
	if len(weeks) != 1 || weeks[0].Added != 100 {
		t.Fatalf("unexpected week totals: %+v", weeks)
	}
}

func TestTotalsReadLatestExport(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	if _, err := st.Export(ctx, exportSnapshot(), time.Now()); err != nil {
		t.Fatalf("export: %v", err)
	}
	empty := model.Snapshot{Version: "0.4.0"}
	empty.Normalize()
	if _, err := st.Export(ctx, empty, time.Now()); err != nil {
		t.Fatalf("export: %v", err)
	}

	n, err := st.ExportCount(ctx)
	if err != nil {
		t.Fatalf("export count: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 exports, got %d", n)
	}
	totals, err := st.LanguageTotals(ctx, ScopeYears)
	if err != nil {
		t.Fatalf("language totals: %v", err)
	}
	if len(totals) != 0 {
		t.Fatalf("expected no totals for the empty export, got %+v", totals)
	}
}

func TestCharTotalsByLanguage(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	if _, err := st.Export(ctx, exportSnapshot(), time.Now()); err != nil {
		t.Fatalf("export: %v", err)
	}

	all, err := st.CharTotals(ctx, ScopeYears)
	if err != nil {
		t.Fatalf("char totals: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 chars, got %+v", all)
	}
	if all[0].Char != "g" || all[0].Added != 120 || all[0].AddedTyped != 100 {
		t.Fatalf("unexpected top char: %+v", all[0])
	}

	python, err := st.CharTotals(ctx, ScopeYears, "python")
	if err != nil {
		t.Fatalf("char totals: %v", err)
	}
	if len(python) != 1 || python[0].Char != "p" || python[0].Added != 20 {
		t.Fatalf("unexpected python chars: %+v", python)
	}
}

func TestExportCanceledContext(t *testing.T) {
	st := openTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := st.Export(ctx, exportSnapshot(), time.Now()); err == nil {
		t.Fatalf("expected error for canceled context")
	}
	n, err := st.ExportCount(context.Background())
	if err != nil {
		t.Fatalf("export count: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected no committed export, got %d", n)
	}
}
