package stats

import (
	"sort"

	"github.com/verte-zerg/rankview/internal/model"
)

// SupportedEditors lists the editors the coderank recorder ships for.
var SupportedEditors = []string{"VS Code"}

// Ranked is an id with its accumulated rank.
type Ranked struct {
	ID   string
	Name string
	Rank float64
}

// Summary is the overview of a merged period.
type Summary struct {
	Total     model.LanguageStats
	Languages []Ranked
	Editors   []Ranked
	Machines  []Ranked
	// Chars holds raw characters ordered by descending added count.
	Chars []string
}

// AddDeleteRow is one line of the added/deleted/total/net table.
type AddDeleteRow struct {
	Label   string
	Added   float64
	Deleted float64
	Total   float64
	Net     float64
}

// Summarize totals every language of every editor and machine in the period
// and ranks languages, editors and machines by their accumulated rank.
func Summarize(p model.Period) Summary {
	total := model.LanguageStats{Chars: map[string]model.CharStats{}}
	languages := map[string]*Ranked{}
	editors := map[string]*Ranked{}
	machines := map[string]*Ranked{}

	for _, machineID := range sortedKeys(p.Machines) {
		machine := p.Machines[machineID]
		for _, editorID := range sortedKeys(machine.Editors) {
			editor := machine.Editors[editorID]
			for _, lang := range sortedKeys(editor.Languages) {
				stats := editor.Languages[lang]
				addLanguageStats(&total, stats)
				addRank(languages, lang, lang, stats.Rank)
				addRank(editors, editorID, editorID, stats.Rank)
				name := machine.Name
				if name == "" {
					name = machineID
				}
				addRank(machines, machineID, name, stats.Rank)
			}
		}
	}

	return Summary{
		Total:     total,
		Languages: sortRanked(languages),
		Editors:   sortRanked(editors),
		Machines:  sortRanked(machines),
		Chars:     RankChars(total.Chars, MetricAdded, OrderDesc),
	}
}

// TextEntryActions converts rank units to individual text entry actions.
func TextEntryActions(rank float64) float64 {
	return rank * RankUnitsPerAction
}

// AddDeleteRows returns the added/deleted/total/net breakdown of the totals.
// Averages over a zero count are reported as 0.
func (s Summary) AddDeleteRows() []AddDeleteRow {
	t := s.Total
	rows := []AddDeleteRow{
		countRow("total", t.Added, t.Deleted),
		countRow("typed", t.AddedTyped, t.DeletedTyped),
		countRow("pasted / cut", t.AddedPasted, t.DeletedCut),
		countRow("no. pastes / cuts", t.NumPastes, t.NumCuts),
	}
	perPaste := ratio(float64(t.AddedPasted), float64(t.NumPastes))
	perCut := ratio(float64(t.DeletedCut), float64(t.NumCuts))
	rows = append(rows, AddDeleteRow{
		Label:   "ave. per paste / cut",
		Added:   perPaste,
		Deleted: perCut,
		Total:   ratio(float64(t.AddedPasted+t.DeletedCut), float64(t.NumPastes+t.NumCuts)),
		Net:     perPaste - perCut,
	})
	rows = append(rows, AddDeleteRow{
		Label:   "ave. per rank",
		Added:   ratio(float64(t.Added), t.Rank),
		Deleted: ratio(float64(t.Deleted), t.Rank),
		Total:   ratio(float64(t.Added+t.Deleted), t.Rank),
		Net:     ratio(float64(t.Added-t.Deleted), t.Rank),
	})
	return rows
}

// RankedNames returns the display names of ranked entries.
func RankedNames(items []Ranked) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Name
	}
	return out
}

func countRow(label string, added, deleted int64) AddDeleteRow {
	return AddDeleteRow{
		Label:   label,
		Added:   float64(added),
		Deleted: float64(deleted),
		Total:   float64(added + deleted),
		Net:     float64(added - deleted),
	}
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

func addRank(m map[string]*Ranked, id, name string, rank float64) {
	entry, ok := m[id]
	if !ok {
		entry = &Ranked{ID: id, Name: name}
		m[id] = entry
	}
	entry.Rank += rank
}

func sortRanked(m map[string]*Ranked) []Ranked {
	out := make([]Ranked, 0, len(m))
	for _, entry := range m {
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rank == out[j].Rank {
			return out[i].ID < out[j].ID
		}
		return out[i].Rank > out[j].Rank
	})
	return out
}
