package stats

import (
	"sort"
	"strconv"
	"strings"
)

// AllID is the selector value meaning "every id at this level".
const AllID = "all"

// Filter selects either every id of a hierarchy level or exactly one.
type Filter struct {
	id    string
	exact bool
}

// All returns the wildcard filter.
func All() Filter {
	return Filter{}
}

// Exact returns a filter matching a single id.
func Exact(id string) Filter {
	return Filter{id: id, exact: true}
}

// ParseFilter maps selector input to a filter. Empty input and "all" are wildcards.
func ParseFilter(raw string) Filter {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == AllID {
		return All()
	}
	return Exact(raw)
}

// IsAll reports whether the filter is the wildcard.
func (f Filter) IsAll() bool {
	return !f.exact
}

// ID returns the selected id, or AllID for the wildcard.
func (f Filter) ID() string {
	if !f.exact {
		return AllID
	}
	return f.id
}

func (f Filter) String() string {
	return f.ID()
}

// pickKeys returns the keys of m selected by f. Ids missing from m yield nothing.
func pickKeys[V any](f Filter, m map[string]V) []string {
	if f.exact {
		if _, ok := m[f.id]; !ok {
			return nil
		}
		return []string{f.id}
	}
	return sortedKeys(m)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// sortedPeriodKeys orders week and year keys numerically, followed by any
// non-numeric keys in lexical order.
func sortedPeriodKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return periodKeyLess(keys[i], keys[j])
	})
	return keys
}

func periodKeyLess(a, b string) bool {
	ai, aErr := strconv.ParseInt(a, 10, 64)
	bi, bErr := strconv.ParseInt(b, 10, 64)
	switch {
	case aErr == nil && bErr == nil:
		if ai == bi {
			return a < b
		}
		return ai < bi
	case aErr == nil:
		return true
	case bErr == nil:
		return false
	default:
		return a < b
	}
}
