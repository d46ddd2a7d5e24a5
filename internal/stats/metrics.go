package stats

import "github.com/verte-zerg/rankview/internal/model"

// Metric names understood by LanguageValue and CharacterValue.
const (
	MetricRank               = "rank"
	MetricAdded              = "added"
	MetricAddedTyped         = "added typed"
	MetricAddedPasted        = "added pasted"
	MetricNumPastes          = "num pastes"
	MetricDeleted            = "deleted"
	MetricDeletedTyped       = "deleted typed"
	MetricDeletedCut         = "deleted cut"
	MetricNumCuts            = "num cuts"
	MetricNet                = "net"
	MetricNetTyped           = "net typed"
	MetricNetPastedCut       = "net pasted cut"
	MetricNetPastesAndCuts   = "net pastes and cuts"
	MetricTotal              = "total"
	MetricTotalTyped         = "total typed"
	MetricTotalPastedCut     = "total pasted cut"
	MetricTotalPastesAndCuts = "total pastes and cuts"
)

// RankUnitsPerAction is the number of rank units per individual text entry action.
const RankUnitsPerAction = 10000

// LanguageMetrics is the closed set of language-level metrics, in display order.
var LanguageMetrics = []string{
	MetricRank,
	MetricAdded,
	MetricAddedTyped,
	MetricAddedPasted,
	MetricNumPastes,
	MetricDeleted,
	MetricDeletedTyped,
	MetricDeletedCut,
	MetricNumCuts,
	MetricNet,
	MetricNetTyped,
	MetricNetPastedCut,
	MetricNetPastesAndCuts,
	MetricTotal,
	MetricTotalTyped,
	MetricTotalPastedCut,
	MetricTotalPastesAndCuts,
}

// CharacterMetrics is the closed set of character-level metrics.
var CharacterMetrics = []string{MetricAdded, MetricAddedTyped, MetricAddedPasted}

// LanguageValue computes a named metric. Unknown names fall back to "added".
func LanguageValue(s model.LanguageStats, metric string) float64 {
	switch metric {
	case MetricRank:
		return s.Rank
	case MetricAddedTyped:
		return float64(s.AddedTyped)
	case MetricAddedPasted:
		return float64(s.AddedPasted)
	case MetricNumPastes:
		return float64(s.NumPastes)
	case MetricDeleted:
		return float64(s.Deleted)
	case MetricDeletedTyped:
		return float64(s.DeletedTyped)
	case MetricDeletedCut:
		return float64(s.DeletedCut)
	case MetricNumCuts:
		return float64(s.NumCuts)
	case MetricNet:
		return float64(s.Added - s.Deleted)
	case MetricNetTyped:
		return float64(s.AddedTyped - s.DeletedTyped)
	case MetricNetPastedCut:
		return float64(s.AddedPasted - s.DeletedCut)
	case MetricNetPastesAndCuts:
		return float64(s.NumPastes - s.NumCuts)
	case MetricTotal:
		return float64(s.Added + s.Deleted)
	case MetricTotalTyped:
		return float64(s.AddedTyped + s.DeletedTyped)
	case MetricTotalPastedCut:
		return float64(s.AddedPasted + s.DeletedCut)
	case MetricTotalPastesAndCuts:
		return float64(s.NumPastes + s.NumCuts)
	default:
		return float64(s.Added)
	}
}

// CharacterValue computes a named character metric. Unknown names fall back to "added".
func CharacterValue(c model.CharStats, metric string) float64 {
	switch metric {
	case MetricAddedTyped:
		return float64(c.AddedTyped)
	case MetricAddedPasted:
		return float64(c.AddedPasted)
	default:
		return float64(c.Added)
	}
}

// IsCharacterMetric reports whether the metric exists at character level.
func IsCharacterMetric(metric string) bool {
	return containsString(CharacterMetrics, metric)
}

// IsLanguageMetric reports whether the metric is part of the language vocabulary.
func IsLanguageMetric(metric string) bool {
	return containsString(LanguageMetrics, metric)
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
