// Package sqlbuild turns a classified intent and its extracted
// parameters into parameterized SQL, when one of its templates applies.
// A nil build result is the explicit signal that deterministic synthesis
// defers to the language-model fallback.
package sqlbuild

import "strings"

// QueryType selects among SQL templates. Detection is pure keyword
// matching, independent of the intent classifier.
type QueryType string

const (
	TypeTimeSeries     QueryType = "time_series"
	TypeDistribution   QueryType = "distribution"
	TypeComparison     QueryType = "comparison"
	TypeEquipmentCombo QueryType = "equipment_combo"
	TypeShiftGrouping  QueryType = "shift_grouping"
	TypeSummary        QueryType = "summary"
	TypeGeneric        QueryType = "generic"
)

// typeSignals maps each query type to its trigger phrases, checked in
// listed order; first type with a hit wins. Shift grouping outranks
// comparison so "compare production by shift" groups rather than defers.
var typeSignals = []struct {
	qt      QueryType
	phrases []string
}{
	{TypeEquipmentCombo, []string{
		"combination", "truck and excavator", "excavator and truck",
		"which trucks with", "pairing", "pairs", "pair",
	}},
	{TypeShiftGrouping, []string{
		"by shift", "per shift", "each shift", "across shifts", "shift comparison",
	}},
	{TypeTimeSeries, []string{
		"daily", "per day", "day by day", "over time", "weekly trend",
		"monthly breakdown", "trend",
	}},
	{TypeDistribution, []string{
		"distribution", "breakdown by", "split by", "grouped by material",
		"by material", "by equipment",
	}},
	{TypeComparison, []string{
		"compare", "versus", " vs ", "difference between",
	}},
	{TypeSummary, []string{
		"total", "sum", "average", "overall", "summary", "how much", "how many",
	}},
}

// DetectType classifies the question for template selection. Generic
// means no template applies and the builder falls through to the
// language-model path.
func DetectType(text string) QueryType {
	lower := strings.ToLower(text)
	for _, sig := range typeSignals {
		for _, phrase := range sig.phrases {
			if strings.Contains(lower, phrase) {
				return sig.qt
			}
		}
	}
	return TypeGeneric
}
