package stats

import (
	"reflect"
	"testing"

	"github.com/verte-zerg/rankview/internal/model"
)

func TestAggregateLanguagesAcrossWeeks(t *testing.T) {
	snap := twoWeekSnapshot()
	langs, ok := AggregateLanguages(Resolve(snap, DurationFiveWeeks), All(), All())
	if !ok {
		t.Fatalf("expected a non-empty window")
	}
	z := langs["languageZ"]
	if z.Added != 15 || z.Deleted != 3 {
		t.Fatalf("unexpected totals: %+v", z)
	}
	if !reflect.DeepEqual(z.Chars, map[string]model.CharStats{"a": {Added: 15}, "b": {Added: 3}}) {
		t.Fatalf("unexpected chars: %+v", z.Chars)
	}
}

func TestAggregateEmptyWindow(t *testing.T) {
	var snap model.Snapshot
	snap.Normalize()
	if _, ok := AggregateLanguages(Resolve(snap, DurationOneYear), All(), All()); ok {
		t.Fatalf("expected empty window to report false")
	}
	if _, ok := AggregateCharacters(Resolve(snap, DurationOneYear), All(), All(), All()); ok {
		t.Fatalf("expected empty window to report false")
	}
}

func TestAggregateMissingFilterYieldsEmpty(t *testing.T) {
	snap := multiSnapshot()
	w := Resolve(snap, DurationAllTime)
	langs, ok := AggregateLanguages(w, Exact("nope"), All())
	if !ok || len(langs) != 0 {
		t.Fatalf("expected empty result for unknown machine, got %v %v", langs, ok)
	}
	chars, ok := AggregateCharacters(w, All(), All(), Exact("rust"))
	if !ok || len(chars) != 0 {
		t.Fatalf("expected empty result for unknown language, got %v %v", chars, ok)
	}
}

func TestAggregateWithFilters(t *testing.T) {
	snap := multiSnapshot()
	w := Resolve(snap, DurationAllTime)
	langs, _ := AggregateLanguages(w, Exact("m1"), Exact("vscode"))
	if len(langs) != 1 || langs["go"].Added != 200 {
		t.Fatalf("unexpected m1 languages: %+v", langs)
	}
	chars, _ := AggregateCharacters(w, All(), All(), Exact("python"))
	if chars["p"].Added != 40 || len(chars) != 1 {
		t.Fatalf("unexpected python chars: %+v", chars)
	}
}

func TestCollectSelectors(t *testing.T) {
	snap := multiSnapshot()
	w := Resolve(snap, DurationAllTime)

	machines := CollectMachines(w)
	want := []model.Option{{Value: "all", Label: "all"}, {Value: "m1", Label: "laptop"}, {Value: "m2", Label: "desktop"}}
	if !reflect.DeepEqual(machines, want) {
		t.Fatalf("unexpected machines: %+v", machines)
	}
	if got := CollectEditors(w, Exact("m2")); !reflect.DeepEqual(got, []string{"all", "vscode"}) {
		t.Fatalf("unexpected editors: %v", got)
	}
	if got := CollectLanguages(w, All(), All()); !reflect.DeepEqual(got, []string{"all", "go", "python"}) {
		t.Fatalf("unexpected languages: %v", got)
	}
	if got := CollectLanguages(w, Exact("m2"), All()); !reflect.DeepEqual(got, []string{"all", "python"}) {
		t.Fatalf("unexpected m2 languages: %v", got)
	}
	chars := CollectCharacters(w, All(), All(), Exact("go"))
	wantChars := []model.Option{{Value: "all", Label: "all"}, {Value: "\n", Label: `\n`}, {Value: "g", Label: "g"}}
	if !reflect.DeepEqual(chars, wantChars) {
		t.Fatalf("unexpected characters: %+v", chars)
	}
}

func TestCollectOnEmptyWindow(t *testing.T) {
	var snap model.Snapshot
	snap.Normalize()
	w := Resolve(snap, DurationOneWeek)
	if got := CollectEditors(w, All()); !reflect.DeepEqual(got, []string{"all"}) {
		t.Fatalf("expected only the wildcard, got %v", got)
	}
	if got := CollectMachines(w); len(got) != 1 {
		t.Fatalf("expected only the wildcard, got %v", got)
	}
}

func TestCharLabel(t *testing.T) {
	cases := map[string]string{
		"\n":   `\n`,
		"\t":   `\t`,
		"\r":   `\r`,
		" ":    "<space>",
		"a":    "a",
		"\x01": `\x01`,
		"é":    "é",
	}
	for in, want := range cases {
		if got := CharLabel(in); got != want {
			t.Fatalf("CharLabel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSumWindow(t *testing.T) {
	snap := twoWeekSnapshot()
	p, ok := SumWindow(Resolve(snap, DurationFiveWeeks))
	if !ok {
		t.Fatalf("expected a non-empty window")
	}
	if got := p.Machines["machineX"].Editors["editorY"].Languages["languageZ"].Added; got != 15 {
		t.Fatalf("expected 15 added, got %d", got)
	}
}

func TestParseFilter(t *testing.T) {
	if !ParseFilter("").IsAll() || !ParseFilter("all").IsAll() {
		t.Fatalf("expected wildcard filters")
	}
	f := ParseFilter(" go ")
	if f.IsAll() || f.ID() != "go" {
		t.Fatalf("unexpected exact filter: %v", f)
	}
	if All().String() != AllID {
		t.Fatalf("expected wildcard to print as %q", AllID)
	}
}
