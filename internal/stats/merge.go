// Package stats contains aggregation, derived metrics and reporting for coderank snapshots.
package stats

import "github.com/verte-zerg/rankview/internal/model"

// The exported Merge* functions never mutate their arguments. They start from a
// zero accumulator and add both sides into it, so every map in the result is
// freshly allocated. The add* helpers below mutate dst only; dst must be owned
// by the caller.

// MergeChars adds two character maps.
func MergeChars(base, addend map[string]model.CharStats) map[string]model.CharStats {
	out := make(map[string]model.CharStats, len(base)+len(addend))
	addChars(out, base)
	addChars(out, addend)
	return out
}

// MergeLanguageStats adds two language stat blocks, including their character maps.
func MergeLanguageStats(base, addend model.LanguageStats) model.LanguageStats {
	var out model.LanguageStats
	addLanguageStats(&out, base)
	addLanguageStats(&out, addend)
	return out
}

// MergeLanguageMaps adds two language-name keyed maps.
func MergeLanguageMaps(base, addend map[string]model.LanguageStats) map[string]model.LanguageStats {
	out := make(map[string]model.LanguageStats, len(base)+len(addend))
	addLanguageMap(out, base)
	addLanguageMap(out, addend)
	return out
}

// MergeEditors adds the language maps of two editors.
func MergeEditors(base, addend model.Editor) model.Editor {
	return model.Editor{Languages: MergeLanguageMaps(base.Languages, addend.Languages)}
}

// MergeEditorMaps adds two editor-id keyed maps.
func MergeEditorMaps(base, addend map[string]model.Editor) map[string]model.Editor {
	out := make(map[string]model.Editor, len(base)+len(addend))
	addEditorMap(out, base)
	addEditorMap(out, addend)
	return out
}

// MergeMachineMaps adds two machine-id keyed maps. A machine keeps the first
// non-empty display name it was given.
func MergeMachineMaps(base, addend map[string]model.Machine) map[string]model.Machine {
	out := make(map[string]model.Machine, len(base)+len(addend))
	addMachineMap(out, base)
	addMachineMap(out, addend)
	return out
}

// MergePeriods adds two periods.
func MergePeriods(base, addend model.Period) model.Period {
	return model.Period{Machines: MergeMachineMaps(base.Machines, addend.Machines)}
}

func addCharStats(dst *model.CharStats, src model.CharStats) {
	dst.Added += src.Added
	dst.AddedTyped += src.AddedTyped
	dst.AddedPasted += src.AddedPasted
}

func addChars(dst, src map[string]model.CharStats) {
	for ch, s := range src {
		entry := dst[ch]
		addCharStats(&entry, s)
		dst[ch] = entry
	}
}

func addLanguageStats(dst *model.LanguageStats, src model.LanguageStats) {
	dst.Rank += src.Rank
	dst.Added += src.Added
	dst.AddedTyped += src.AddedTyped
	dst.AddedPasted += src.AddedPasted
	dst.NumPastes += src.NumPastes
	dst.Deleted += src.Deleted
	dst.DeletedTyped += src.DeletedTyped
	dst.DeletedCut += src.DeletedCut
	dst.NumCuts += src.NumCuts
	if dst.Chars == nil {
		dst.Chars = make(map[string]model.CharStats, len(src.Chars))
	}
	addChars(dst.Chars, src.Chars)
}

func addLanguageMap(dst, src map[string]model.LanguageStats) {
	for lang, s := range src {
		entry := dst[lang]
		addLanguageStats(&entry, s)
		dst[lang] = entry
	}
}

func addEditorMap(dst, src map[string]model.Editor) {
	for id, editor := range src {
		entry := dst[id]
		if entry.Languages == nil {
			entry.Languages = make(map[string]model.LanguageStats, len(editor.Languages))
		}
		addLanguageMap(entry.Languages, editor.Languages)
		dst[id] = entry
	}
}

func addMachineMap(dst, src map[string]model.Machine) {
	for id, machine := range src {
		entry := dst[id]
		if entry.Name == "" {
			entry.Name = machine.Name
		}
		if entry.Editors == nil {
			entry.Editors = make(map[string]model.Editor, len(machine.Editors))
		}
		addEditorMap(entry.Editors, machine.Editors)
		dst[id] = entry
	}
}

func addPeriod(dst *model.Period, src model.Period) {
	if dst.Machines == nil {
		dst.Machines = make(map[string]model.Machine, len(src.Machines))
	}
	addMachineMap(dst.Machines, src.Machines)
}
