package stats

import (
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/verte-zerg/rankview/internal/model"
)

// CollectMachines lists the machines present in the window, led by the
// synthetic "all" entry. Labels are machine names, or the id when unnamed.
func CollectMachines(w Window) []model.Option {
	out := []model.Option{{Value: AllID, Label: AllID}}
	index := map[string]int{}
	for _, key := range w.DesiredKeys() {
		period, ok := w.Periods[key]
		if !ok {
			continue
		}
		for _, id := range sortedKeys(period.Machines) {
			name := period.Machines[id].Name
			if i, seen := index[id]; seen {
				if out[i].Label == id && name != "" {
					out[i].Label = name
				}
				continue
			}
			if name == "" {
				name = id
			}
			index[id] = len(out)
			out = append(out, model.Option{Value: id, Label: name})
		}
	}
	return out
}

// CollectEditors lists the editors visible under the machine filter.
func CollectEditors(w Window, machine Filter) []string {
	ids := newIDList()
	for _, key := range w.DesiredKeys() {
		period, ok := w.Periods[key]
		if !ok {
			continue
		}
		for _, machineID := range pickKeys(machine, period.Machines) {
			for _, editorID := range sortedKeys(period.Machines[machineID].Editors) {
				ids.add(editorID)
			}
		}
	}
	return ids.values
}

// CollectLanguages lists the languages visible under the machine and editor filters.
func CollectLanguages(w Window, machine, editor Filter) []string {
	ids := newIDList()
	walkEditors(w, machine, editor, func(e model.Editor) {
		for _, lang := range sortedKeys(e.Languages) {
			ids.add(lang)
		}
	})
	return ids.values
}

// CollectCharacters lists the characters visible under the filters. Values are
// the raw characters; labels escape whitespace and control characters.
func CollectCharacters(w Window, machine, editor, language Filter) []model.Option {
	out := []model.Option{{Value: AllID, Label: AllID}}
	seen := map[string]struct{}{}
	walkLanguages(w, machine, editor, language, func(_ string, s model.LanguageStats) {
		for _, ch := range sortedKeys(s.Chars) {
			if _, ok := seen[ch]; ok {
				continue
			}
			seen[ch] = struct{}{}
			out = append(out, model.Option{Value: ch, Label: CharLabel(ch)})
		}
	})
	return out
}

// AggregateLanguages merges the language maps of every selected editor in the
// window. It reports false only when the window has no period keys.
func AggregateLanguages(w Window, machine, editor Filter) (map[string]model.LanguageStats, bool) {
	if w.Empty() {
		return nil, false
	}
	out := map[string]model.LanguageStats{}
	walkEditors(w, machine, editor, func(e model.Editor) {
		addLanguageMap(out, e.Languages)
	})
	return out, true
}

// AggregateCharacters merges the character maps of every selected language in
// the window. It reports false only when the window has no period keys.
func AggregateCharacters(w Window, machine, editor, language Filter) (map[string]model.CharStats, bool) {
	if w.Empty() {
		return nil, false
	}
	out := map[string]model.CharStats{}
	walkLanguages(w, machine, editor, language, func(_ string, s model.LanguageStats) {
		addChars(out, s.Chars)
	})
	return out, true
}

// SumWindow merges every period of the window into one.
func SumWindow(w Window) (model.Period, bool) {
	keys := w.DesiredKeys()
	if len(keys) == 0 {
		return model.Period{}, false
	}
	out := model.Period{Machines: map[string]model.Machine{}}
	for _, key := range keys {
		if period, ok := w.Periods[key]; ok {
			addPeriod(&out, period)
		}
	}
	return out, true
}

// CharLabel renders a character for display: "\n", "\t" and other control
// characters become escape sequences and a space becomes "<space>".
func CharLabel(ch string) string {
	switch ch {
	case "\n":
		return `\n`
	case "\t":
		return `\t`
	case "\r":
		return `\r`
	case " ":
		return "<space>"
	}
	r, size := utf8.DecodeRuneInString(ch)
	if size > 0 && size == len(ch) && unicode.IsControl(r) {
		quoted := strconv.QuoteRune(r)
		return quoted[1 : len(quoted)-1]
	}
	return ch
}

func walkEditors(w Window, machine, editor Filter, fn func(model.Editor)) {
	for _, key := range w.DesiredKeys() {
		period, ok := w.Periods[key]
		if !ok {
			continue
		}
		for _, machineID := range pickKeys(machine, period.Machines) {
			editors := period.Machines[machineID].Editors
			for _, editorID := range pickKeys(editor, editors) {
				fn(editors[editorID])
			}
		}
	}
}

func walkLanguages(w Window, machine, editor, language Filter, fn func(string, model.LanguageStats)) {
	walkEditors(w, machine, editor, func(e model.Editor) {
		for _, lang := range pickKeys(language, e.Languages) {
			fn(lang, e.Languages[lang])
		}
	})
}

type idList struct {
	values []string
	seen   map[string]struct{}
}

func newIDList() *idList {
	return &idList{
		values: []string{AllID},
		seen:   map[string]struct{}{AllID: {}},
	}
}

func (l *idList) add(id string) {
	if _, ok := l.seen[id]; ok {
		return
	}
	l.seen[id] = struct{}{}
	l.values = append(l.values, id)
}
