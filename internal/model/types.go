// Package model defines shared data structures.
package model

// Snapshot is the root coderank document.
type Snapshot struct {
	Version       string            `json:"version"`
	PastFiveWeeks map[string]Period `json:"pastFiveWeeks"`
	Years         map[string]Period `json:"years"`
}

// Period holds every machine tracked during a week or a year.
type Period struct {
	Machines map[string]Machine `json:"machines"`
}

// Machine groups editors recorded on a single machine.
type Machine struct {
	Name    string            `json:"name"`
	Editors map[string]Editor `json:"editors"`
}

// Editor groups per-language stats recorded in one editor.
type Editor struct {
	Languages map[string]LanguageStats `json:"languages"`
}

// LanguageStats stores the counters for a single language.
type LanguageStats struct {
	Rank         float64              `json:"rank"`
	Added        int64                `json:"added"`
	AddedTyped   int64                `json:"added_typed"`
	AddedPasted  int64                `json:"added_pasted"`
	NumPastes    int64                `json:"num_pastes"`
	Deleted      int64                `json:"deleted"`
	DeletedTyped int64                `json:"deleted_typed"`
	DeletedCut   int64                `json:"deleted_cut"`
	NumCuts      int64                `json:"num_cuts"`
	Chars        map[string]CharStats `json:"chars"`
}

// CharStats stores per-character counters. Deletions are not tracked per character.
type CharStats struct {
	Added       int64 `json:"added"`
	AddedTyped  int64 `json:"added_typed"`
	AddedPasted int64 `json:"added_pasted"`
}

// Option is a value/label pair used to populate selectors.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Normalize replaces missing maps with empty ones so traversal never sees nil.
func (s *Snapshot) Normalize() {
	if s.PastFiveWeeks == nil {
		s.PastFiveWeeks = map[string]Period{}
	}
	if s.Years == nil {
		s.Years = map[string]Period{}
	}
	for key, period := range s.PastFiveWeeks {
		s.PastFiveWeeks[key] = period.normalized()
	}
	for key, period := range s.Years {
		s.Years[key] = period.normalized()
	}
}

func (p Period) normalized() Period {
	if p.Machines == nil {
		p.Machines = map[string]Machine{}
	}
	for id, machine := range p.Machines {
		if machine.Editors == nil {
			machine.Editors = map[string]Editor{}
		}
		for editorID, editor := range machine.Editors {
			if editor.Languages == nil {
				editor.Languages = map[string]LanguageStats{}
			}
			for lang, stats := range editor.Languages {
				if stats.Chars == nil {
					stats.Chars = map[string]CharStats{}
					editor.Languages[lang] = stats
				}
			}
			machine.Editors[editorID] = editor
		}
		p.Machines[id] = machine
	}
	return p
}
