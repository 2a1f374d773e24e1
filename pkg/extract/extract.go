// Package extract pulls structured parameters out of free-text questions:
// equipment codes, shift letters, numeric comparisons, unit-tagged
// quantities, top-N requests, and date ranges. Extraction is independent
// of intent classification and never fails; a detector that finds nothing
// simply leaves its keys unset.
package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/oreline/oreline-engine/pkg/dateparse"
)

var (
	// Fleet codes: 2-4 letter class prefix, 1-4 digit unit number,
	// optionally hyphenated ("DT102", "ex-7", "HDR-1250").
	equipmentPattern = regexp.MustCompile(`\b([a-zA-Z]{2,4})-?(\d{1,4})\b`)

	shiftPattern = regexp.MustCompile(`\bshift\s+([a-zA-Z])\b`)

	numberToken = `-?[\d,]+(?:\.\d+)?`

	betweenPattern = regexp.MustCompile(`\bbetween\s+(` + numberToken + `)\s+and\s+(` + numberToken + `)\b`)
	gtPattern      = regexp.MustCompile(`\b(?:greater than|more than|above|over|exceeds|exceeding)\s+(` + numberToken + `)`)
	ltPattern      = regexp.MustCompile(`\b(?:less than|fewer than|below|under)\s+(` + numberToken + `)`)
	gtePattern     = regexp.MustCompile(`\b(?:at least|minimum of|no less than)\s+(` + numberToken + `)`)
	ltePattern     = regexp.MustCompile(`\b(?:at most|maximum of|no more than)\s+(` + numberToken + `)`)
	eqPattern      = regexp.MustCompile(`\b(?:equals|equal to|exactly)\s+(` + numberToken + `)`)

	measurePattern = regexp.MustCompile(`\b(` + numberToken + `)\s*(tons?|tonnes?|trips?|meters?|metres?|kilometres?|kilometers?|km|hours?|hrs?)\b`)

	topNPattern    = regexp.MustCompile(`\b(top|bottom|best|worst|highest|lowest)\s+(\d+)\b`)
	nthRowPattern  = regexp.MustCompile(`\b(\d+)(?:st|nd|rd|th)\s+(?:row|record|entry)\b`)
	bareTopPattern = regexp.MustCompile(`\b(top|bottom|best|worst)\s+(?:performing|producing)?\b`)

	// Fragments whose absence lets the comparison detectors be skipped
	// entirely. Purely a short-circuit; skipping must never change the
	// extracted set, which TestEarlyExitEquivalence asserts against the
	// full battery.
	comparisonTriggers = []string{
		"greater", "more than", "above", "over", "exceed",
		"less", "fewer", "below", "under",
		"at least", "minimum", "at most", "maximum", "no less", "no more",
		"equal", "exactly", "between",
	}

	// Month prefixes that would otherwise look like an equipment class
	// ("jan-2024" is a date, not a unit).
	monthPrefixes = map[string]bool{
		"jan": true, "feb": true, "mar": true, "apr": true, "may": true,
		"jun": true, "jul": true, "aug": true, "sep": true, "sept": true,
		"oct": true, "nov": true, "dec": true,
	}

	unitCanonical = map[string]string{
		"ton": "tons", "tons": "tons", "tonne": "tons", "tonnes": "tons",
		"trip": "trips", "trips": "trips",
		"meter": "meters", "meters": "meters", "metre": "meters", "metres": "meters",
		"kilometre": "km", "kilometres": "km", "kilometer": "km", "kilometers": "km", "km": "km",
		"hour": "hours", "hours": "hours", "hr": "hours", "hrs": "hours",
	}
)

// Comparison is a numeric constraint parsed from the question.
type Comparison struct {
	Operator string  `json:"operator"` // gt, gte, lt, lte, eq, between
	Value    float64 `json:"value,omitempty"`
	Min      float64 `json:"min,omitempty"`
	Max      float64 `json:"max,omitempty"`
}

// Measurement is a bare number with an attached unit ("1200 tons").
type Measurement struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// Extract runs the full detector battery over text and merges results
// into one flat parameter map. Later detectors add keys but never
// silently overwrite one already set; a more specific date refines a
// year-only match rather than conflicting with it.
func Extract(text string) map[string]any {
	params := map[string]any{}
	lower := strings.ToLower(text)

	extractEquipment(lower, params)
	extractShifts(lower, params)
	if containsAny(lower, comparisonTriggers) {
		extractComparison(lower, params)
	}
	extractMeasurement(lower, params)
	extractTopN(lower, params)
	extractDates(lower, params)

	return params
}

func containsAny(text string, triggers []string) bool {
	for _, t := range triggers {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}

func setIfAbsent(params map[string]any, key string, value any) {
	if _, ok := params[key]; !ok {
		params[key] = value
	}
}

func extractEquipment(text string, params map[string]any) {
	matches := equipmentPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return
	}
	seen := map[string]bool{}
	var codes []string
	for _, m := range matches {
		prefix := strings.ToLower(m[1])
		if monthPrefixes[prefix] {
			continue
		}
		code := strings.ToUpper(m[1] + m[2])
		if !seen[code] {
			seen[code] = true
			codes = append(codes, code)
		}
	}
	switch len(codes) {
	case 0:
	case 1:
		setIfAbsent(params, "equipment", codes[0])
	default:
		setIfAbsent(params, "equipment", codes)
	}
	if len(codes) > 0 {
		setIfAbsent(params, "equipment_count", len(codes))
	}
}

func extractShifts(text string, params map[string]any) {
	matches := shiftPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return
	}
	seen := map[string]bool{}
	var shifts []string
	for _, m := range matches {
		s := strings.ToUpper(m[1])
		if !seen[s] {
			seen[s] = true
			shifts = append(shifts, s)
		}
	}
	if len(shifts) == 1 {
		setIfAbsent(params, "shift", shifts[0])
	} else {
		setIfAbsent(params, "shift", shifts)
	}
	setIfAbsent(params, "shift_count", len(shifts))
}

func extractComparison(text string, params map[string]any) {
	if m := betweenPattern.FindStringSubmatch(text); m != nil {
		lo, okLo := parseNumber(m[1])
		hi, okHi := parseNumber(m[2])
		if okLo && okHi {
			setIfAbsent(params, "comparison", Comparison{Operator: "between", Min: lo, Max: hi})
			return
		}
	}
	for _, c := range []struct {
		op string
		re *regexp.Regexp
	}{
		// gte/lte before gt/lt so "at least" isn't eaten by a bare
		// number fallback; each regex is anchored on its own phrase so
		// order only matters for first-hit-wins.
		{"gte", gtePattern},
		{"lte", ltePattern},
		{"gt", gtPattern},
		{"lt", ltPattern},
		{"eq", eqPattern},
	} {
		if m := c.re.FindStringSubmatch(text); m != nil {
			if v, ok := parseNumber(m[1]); ok {
				setIfAbsent(params, "comparison", Comparison{Operator: c.op, Value: v})
				return
			}
		}
	}
}

func extractMeasurement(text string, params map[string]any) {
	m := measurePattern.FindStringSubmatch(text)
	if m == nil {
		return
	}
	v, ok := parseNumber(m[1])
	if !ok {
		return
	}
	unit := unitCanonical[m[2]]
	if unit == "" {
		unit = m[2]
	}
	setIfAbsent(params, "measurement", Measurement{Value: v, Unit: unit})
}

func extractTopN(text string, params map[string]any) {
	if m := topNPattern.FindStringSubmatch(text); m != nil {
		n, err := strconv.Atoi(m[2])
		if err == nil && n > 0 {
			setIfAbsent(params, "limit", n)
			setIfAbsent(params, "order", direction(m[1]))
			return
		}
	}
	if m := nthRowPattern.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			setIfAbsent(params, "row_number", n)
			return
		}
	}
	if m := bareTopPattern.FindStringSubmatch(text); m != nil {
		setIfAbsent(params, "order", direction(m[1]))
	}
}

func direction(word string) string {
	switch word {
	case "bottom", "worst", "lowest":
		return "asc"
	default:
		return "desc"
	}
}

func extractDates(text string, params map[string]any) {
	d := dateparse.Parse(text)
	if d == nil {
		return
	}
	// A concrete range refines an earlier year-only hit; anything else
	// respects what is already set.
	if existing, ok := params["date_kind"]; ok {
		if existing != string(dateparse.KindYear) || d.Kind == dateparse.KindYear {
			return
		}
	}
	params["start_date"] = d.StartDate()
	params["end_date"] = d.EndDate()
	params["date_kind"] = string(d.Kind)
	if d.IsSingleDay() {
		params["single_day"] = true
	}
}

// parseNumber reads a number that may carry thousands separators.
func parseNumber(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
