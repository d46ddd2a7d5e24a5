package stats

import "github.com/verte-zerg/rankview/internal/model"

func period(machine, name, editor, lang string, s model.LanguageStats) model.Period {
	return model.Period{Machines: map[string]model.Machine{
		machine: {Name: name, Editors: map[string]model.Editor{
			editor: {Languages: map[string]model.LanguageStats{lang: s}},
		}},
	}}
}

// twoWeekSnapshot holds two weeks of a single language on one machine.
func twoWeekSnapshot() model.Snapshot {
	snap := model.Snapshot{
		Version: "0.4.0",
		PastFiveWeeks: map[string]model.Period{
			"1": period("machineX", "", "editorY", "languageZ", model.LanguageStats{
				Added: 10, Deleted: 2, Chars: map[string]model.CharStats{"a": {Added: 10}},
			}),
			"2": period("machineX", "", "editorY", "languageZ", model.LanguageStats{
				Added: 5, Deleted: 1, Chars: map[string]model.CharStats{"a": {Added: 5}, "b": {Added: 3}},
			}),
		},
	}
	snap.Normalize()
	return snap
}

// multiSnapshot spans three years and two machines with two languages.
func multiSnapshot() model.Snapshot {
	goStats := model.LanguageStats{
		Rank: 0.5, Added: 100, AddedTyped: 80, AddedPasted: 20, NumPastes: 2,
		Deleted: 40, DeletedTyped: 30, DeletedCut: 10, NumCuts: 1,
		Chars: map[string]model.CharStats{"g": {Added: 60, AddedTyped: 50, AddedPasted: 10}, "\n": {Added: 40, AddedTyped: 30, AddedPasted: 10}},
	}
	pyStats := model.LanguageStats{
		Rank: 0.25, Added: 20, AddedTyped: 20, Deleted: 5, DeletedTyped: 5,
		Chars: map[string]model.CharStats{"p": {Added: 20, AddedTyped: 20}},
	}
	y2022 := period("m1", "laptop", "vscode", "go", goStats)
	y2023 := MergePeriods(
		period("m1", "laptop", "vscode", "go", goStats),
		period("m2", "", "vscode", "python", pyStats),
	)
	y2024 := period("m2", "desktop", "vscode", "python", pyStats)
	snap := model.Snapshot{
		Version: "0.4.0",
		Years:   map[string]model.Period{"2022": y2022, "2023": y2023, "2024": y2024},
		PastFiveWeeks: map[string]model.Period{
			"0":  {Machines: map[string]model.Machine{}},
			"9":  period("m2", "desktop", "vscode", "python", pyStats),
			"10": period("m1", "laptop", "vscode", "go", goStats),
		},
	}
	snap.Normalize()
	return snap
}
