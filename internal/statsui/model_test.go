package statsui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/rankview/internal/model"
	"github.com/verte-zerg/rankview/internal/stats"
)

func testSnapshot() model.Snapshot {
	lang := func(added, deleted int64, chars map[string]model.CharStats) model.LanguageStats {
		return model.LanguageStats{Rank: float64(added) / 100, Added: added, AddedTyped: added, Deleted: deleted, DeletedTyped: deleted, Chars: chars}
	}
	period := model.Period{Machines: map[string]model.Machine{
		"m1": {Name: "laptop", Editors: map[string]model.Editor{
			"vscode": {Languages: map[string]model.LanguageStats{
				"go": lang(50, 10, map[string]model.CharStats{"g": {Added: 30, AddedTyped: 30}, " ": {Added: 20, AddedTyped: 20}}),
			}},
		}},
		"m2": {Name: "desktop", Editors: map[string]model.Editor{
			"vscode": {Languages: map[string]model.LanguageStats{
				"python": lang(20, 5, map[string]model.CharStats{"p": {Added: 20, AddedTyped: 20}}),
			}},
			"vim": {Languages: map[string]model.LanguageStats{
				"lua": lang(5, 1, map[string]model.CharStats{"l": {Added: 5, AddedTyped: 5}}),
			}},
		}},
	}}
	snap := model.Snapshot{
		Version:       "0.4.0",
		Years:         map[string]model.Period{"2023": period, "2024": period},
		PastFiveWeeks: map[string]model.Period{"1": period},
	}
	snap.Normalize()
	return snap
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func sized(t *testing.T, m *Model) *Model {
	t.Helper()
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m
}

func TestOverviewRenders(t *testing.T) {
	m := sized(t, NewModel(testSnapshot(), nil, Options{}))
	view := m.View()
	for _, want := range []string{"Overview", "Languages", "Rank: ", "text entry actions", "go", "ave. per rank", "duration: 1 week"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view:\n%s", want, view)
		}
	}
}

func TestOptionsPresetSelectors(t *testing.T) {
	m := NewModel(testSnapshot(), nil, Options{Duration: "2024", Metric: "net", CharOrder: "asc.", CharOrderBy: "char"})
	if got := m.selectors[tabOverview][selDuration].value(); got != "2024" {
		t.Fatalf("expected preset duration, got %q", got)
	}
	if got := m.selectors[tabLanguages][selLangMetric].value(); got != "net" {
		t.Fatalf("expected preset metric, got %q", got)
	}
	if got := m.selectors[tabCharacters][selCharOrderBy].value(); got != stats.SortByChar {
		t.Fatalf("expected preset order by, got %q", got)
	}
	if !m.selectors[tabLanguages][selLangChar].disabled {
		t.Fatalf("expected char selector to be n/a for net")
	}
}

func TestWarningModal(t *testing.T) {
	m := sized(t, NewModel(testSnapshot(), []string{"snapshot version \"0.3.0\" is not supported"}, Options{}))
	if !strings.Contains(m.View(), "Snapshot warning") {
		t.Fatalf("expected warning modal")
	}
	m.Update(keyRunes("]"))
	if !m.showWarning {
		t.Fatalf("expected other keys to be ignored while the modal is open")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.showWarning || strings.Contains(m.View(), "Snapshot warning") {
		t.Fatalf("expected modal to be dismissed")
	}
}

func TestTabNavigation(t *testing.T) {
	m := sized(t, NewModel(testSnapshot(), nil, Options{}))
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.activeTab != tabLanguages {
		t.Fatalf("expected languages tab, got %d", m.activeTab)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if m.activeTab != tabTrends {
		t.Fatalf("expected wrap to trends tab, got %d", m.activeTab)
	}
	if !strings.Contains(m.View(), "Sparkline") {
		t.Fatalf("expected trend view:\n%s", m.View())
	}
	_, cmd := m.Update(keyRunes("q"))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
}

func TestLanguageSelectorsCascade(t *testing.T) {
	m := sized(t, NewModel(testSnapshot(), nil, Options{Duration: "all time"}))
	m.activeTab = tabLanguages
	sels := m.selectors[tabLanguages]

	if got := len(sels[selEditor].options); got != 3 {
		t.Fatalf("expected all, vim and vscode editors, got %d", got)
	}
	if err := sels[selMachine].choose("laptop"); err != nil {
		t.Fatalf("choose machine: %v", err)
	}
	if err := sels[selEditor].choose("vim"); err != nil {
		t.Fatalf("choose editor: %v", err)
	}
	m.refresh(tabLanguages)
	if got := sels[selEditor].value(); got != stats.AllID {
		t.Fatalf("expected editor to reset when vim is not offered for m1, got %q", got)
	}
	if got := len(sels[selEditor].options); got != 2 {
		t.Fatalf("expected all and vscode for m1, got %d", got)
	}

	if sels[selLangChar].label() != "all" {
		t.Fatalf("expected char selector for added metric, got %q", sels[selLangChar].label())
	}
	if err := sels[selLangChar].choose(" "); err != nil {
		t.Fatalf("choose space: %v", err)
	}
	m.refresh(tabLanguages)
	if sels[selLangChar].label() != "<space>" {
		t.Fatalf("expected escaped space label, got %q", sels[selLangChar].label())
	}
	if !strings.Contains(m.View(), "added of <space> by language") {
		t.Fatalf("expected char-filtered chart title:\n%s", m.View())
	}

	if err := sels[selLangMetric].choose("net"); err != nil {
		t.Fatalf("choose metric: %v", err)
	}
	m.refresh(tabLanguages)
	if !sels[selLangChar].disabled || sels[selLangChar].label() != notApplicable {
		t.Fatalf("expected n/a char selector for net")
	}
}

func TestChartsAreUpdatedInPlace(t *testing.T) {
	m := sized(t, NewModel(testSnapshot(), nil, Options{}))
	share, bars := m.shareChart, m.barChart
	before := share.Updates()
	m.activeTab = tabLanguages
	m.focus[tabLanguages] = selLangMetric
	m.Update(keyRunes("]"))
	if m.shareChart != share || m.barChart != bars {
		t.Fatalf("expected charts to be reused")
	}
	if share.Updates() <= before {
		t.Fatalf("expected share chart to be updated")
	}
	if got := m.selectors[tabLanguages][selLangMetric].value(); got != stats.MetricAddedTyped {
		t.Fatalf("expected metric to cycle to added typed, got %q", got)
	}
}

func TestCharactersTab(t *testing.T) {
	m := sized(t, NewModel(testSnapshot(), nil, Options{Duration: "2024"}))
	m.activeTab = tabCharacters
	sels := m.selectors[tabCharacters]
	if err := sels[selCharLanguage].choose("python"); err != nil {
		t.Fatalf("choose language: %v", err)
	}
	m.refresh(tabCharacters)
	if m.barChart.Len() != 1 {
		t.Fatalf("expected one python character, got %d", m.barChart.Len())
	}
	if !strings.Contains(m.View(), "added per character (desc.)") {
		t.Fatalf("unexpected characters view:\n%s", m.View())
	}
}

func TestTypedSelectorValue(t *testing.T) {
	m := sized(t, NewModel(testSnapshot(), nil, Options{}))
	m.Update(keyRunes("/"))
	if !m.inputMode {
		t.Fatalf("expected input mode")
	}
	m.Update(keyRunes("1999"))
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !m.inputMode || m.inputError == "" {
		t.Fatalf("expected unknown value to keep input open with an error")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.inputMode {
		t.Fatalf("expected esc to cancel input")
	}

	m.Update(keyRunes("/"))
	m.Update(keyRunes("2023"))
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.inputMode {
		t.Fatalf("expected input to close, error: %s", m.inputError)
	}
	if got := m.selectors[tabOverview][selDuration].value(); got != "2023" {
		t.Fatalf("expected typed duration, got %q", got)
	}
}

func TestEmptySnapshot(t *testing.T) {
	var snap model.Snapshot
	snap.Normalize()
	m := sized(t, NewModel(snap, nil, Options{}))
	if !strings.Contains(m.View(), "No data for this duration.") {
		t.Fatalf("expected empty notice:\n%s", m.View())
	}
	m.activeTab = tabTrends
	if !strings.Contains(m.View(), "No periods tracked") {
		t.Fatalf("expected empty trend notice:\n%s", m.View())
	}
}
