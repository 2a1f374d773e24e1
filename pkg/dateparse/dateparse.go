// Package dateparse resolves free-text date expressions into concrete
// inclusive calendar ranges. It recognizes explicit dates, quarters,
// relative windows, named months, bare years, and two-ended ranges.
package dateparse

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Kind identifies which pattern produced a ParsedDate.
type Kind string

const (
	KindAbsolute Kind = "absolute" // a single calendar day
	KindMonth    Kind = "month"    // a whole named month
	KindQuarter  Kind = "quarter"  // Q1..Q4
	KindRange    Kind = "range"    // explicit two-ended range
	KindRelative Kind = "relative" // N days/weeks/months back, named shortcuts
	KindYear     Kind = "year"     // bare year
)

// ParsedDate is a resolved date expression. Every variant resolves to a
// concrete inclusive [Start, End] range before it is used in SQL; a single
// day has Start == End. Immutable after creation.
type ParsedDate struct {
	Kind    Kind
	Start   time.Time
	End     time.Time
	Quarter int // 1..4 when Kind == KindQuarter
}

// StartDate returns the range start formatted for SQL literals.
func (d *ParsedDate) StartDate() string { return d.Start.Format("2006-01-02") }

// EndDate returns the range end formatted for SQL literals.
func (d *ParsedDate) EndDate() string { return d.End.Format("2006-01-02") }

// IsSingleDay reports whether the range covers exactly one calendar day.
func (d *ParsedDate) IsSingleDay() bool {
	return d.Start.Year() == d.End.Year() && d.Start.YearDay() == d.End.YearDay()
}

// Year sanity bounds. Numbers outside this window are never treated as
// years, so trip counts and tonnages don't get misread as dates.
const (
	minYear = 1900
	maxYear = 2100
)

var monthsByName = map[string]time.Month{
	"january": time.January, "jan": time.January,
	"february": time.February, "feb": time.February,
	"march": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"may": time.May,
	"june": time.June, "jun": time.June,
	"july": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sep": time.September, "sept": time.September,
	"october": time.October, "oct": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

const monthAlt = `january|february|march|april|may|june|july|august|september|october|november|december|jan|feb|mar|apr|jun|jul|aug|sept|sep|oct|nov|dec`

var (
	isoDatePattern   = regexp.MustCompile(`\b(\d{4})-(\d{1,2})-(\d{1,2})\b`)
	slashDatePattern = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`)

	quarterPattern     = regexp.MustCompile(`\bq([1-4])\b`)
	quarterWordPattern = regexp.MustCompile(`\b(first|second|third|fourth|1st|2nd|3rd|4th)\s+quarter\b`)

	relativeNPattern = regexp.MustCompile(`\b(?:last|past|previous)\s+(\d+)\s+(day|week|month|year)s?\b`)

	// Month with an optional day and/or year: "January", "January 2024",
	// "January, 2024", "January 15, 2025", "15 January 2025".
	monthDayYearPattern = regexp.MustCompile(`\b(` + monthAlt + `)\s+(\d{1,2})(?:st|nd|rd|th)?\s*,?\s*(\d{4})?\b`)
	dayMonthYearPattern = regexp.MustCompile(`\b(\d{1,2})(?:st|nd|rd|th)?\s+(` + monthAlt + `)\s*,?\s*(\d{4})?\b`)
	monthYearPattern    = regexp.MustCompile(`\b(` + monthAlt + `)\s*,?\s*(\d{4})?\b`)

	rangePattern = regexp.MustCompile(`\b(?:from|between|compare)\s+(.+?)\s+(?:to|and|until|through|vs\.?|versus|with)\s+(.+?)(?:\s*[?.!,]|$)`)

	yearPattern = regexp.MustCompile(`\b(\d{4})\b`)

	quarterWords = map[string]int{
		"first": 1, "1st": 1,
		"second": 2, "2nd": 2,
		"third": 3, "3rd": 3,
		"fourth": 4, "4th": 4,
	}
)

// Parse resolves a date expression found anywhere in text, evaluated
// against the current wall clock. Returns nil when nothing matches.
func Parse(text string) *ParsedDate {
	return ParseAt(text, time.Now())
}

// ParseAt is Parse with an explicit reference time, used for relative
// windows ("last month") and for defaulting the year on quarters and
// months that don't state one.
//
// Pattern priority, first match wins:
//  1. explicit two-ended ranges ("from X to Y", "between X and Y",
//     "compare X to Y") — the connective binds tighter than its
//     endpoints, which are resolved recursively
//  2. explicit ISO or DD/MM/YYYY dates
//  3. quarter notation, with year look-around in the surrounding text
//  4. relative windows and named shortcuts
//  5. named month with optional day and year — a month name plus a day
//     number resolves to a single day, never a month range
//  6. bare year
func ParseAt(text string, now time.Time) *ParsedDate {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return nil
	}

	if d := parseRange(lower, now); d != nil {
		return d
	}
	return parseSingle(lower, now)
}

// parseSingle resolves one endpoint (no range connectives considered).
func parseSingle(text string, now time.Time) *ParsedDate {
	if d := parseExplicitDate(text); d != nil {
		return d
	}
	if d := parseQuarter(text, now); d != nil {
		return d
	}
	if d := parseRelative(text, now); d != nil {
		return d
	}
	if d := parseMonth(text, now); d != nil {
		return d
	}
	if d := parseBareYear(text); d != nil {
		return d
	}
	return nil
}

func parseExplicitDate(text string) *ParsedDate {
	if m := isoDatePattern.FindStringSubmatch(text); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		if d := makeDay(year, month, day); d != nil {
			return d
		}
	}
	if m := slashDatePattern.FindStringSubmatch(text); m != nil {
		// DD/MM/YYYY convention, per site reporting standards.
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if d := makeDay(year, month, day); d != nil {
			return d
		}
	}
	return nil
}

func makeDay(year, month, day int) *ParsedDate {
	if year < minYear || year > maxYear || month < 1 || month > 12 || day < 1 || day > 31 {
		return nil
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// Reject day overflow (e.g. Feb 30 normalizing into March).
	if int(t.Month()) != month || t.Day() != day {
		return nil
	}
	return &ParsedDate{Kind: KindAbsolute, Start: t, End: t}
}

func parseQuarter(text string, now time.Time) *ParsedDate {
	q := 0
	if m := quarterPattern.FindStringSubmatch(text); m != nil {
		q, _ = strconv.Atoi(m[1])
	} else if m := quarterWordPattern.FindStringSubmatch(text); m != nil {
		q = quarterWords[m[1]]
	}
	if q == 0 {
		return nil
	}
	year := findYear(text, now.Year())
	startMonth := time.Month((q-1)*3 + 1)
	start := time.Date(year, startMonth, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 3, -1)
	return &ParsedDate{Kind: KindQuarter, Start: start, End: end, Quarter: q}
}

func parseRelative(text string, now time.Time) *ParsedDate {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	if m := relativeNPattern.FindStringSubmatch(text); m != nil {
		n, _ := strconv.Atoi(m[1])
		var start time.Time
		switch m[2] {
		case "day":
			start = today.AddDate(0, 0, -n)
		case "week":
			start = today.AddDate(0, 0, -7*n)
		case "month":
			start = today.AddDate(0, -n, 0)
		case "year":
			start = today.AddDate(-n, 0, 0)
		}
		return &ParsedDate{Kind: KindRelative, Start: start, End: today}
	}

	switch {
	case strings.Contains(text, "today"):
		return &ParsedDate{Kind: KindRelative, Start: today, End: today}
	case strings.Contains(text, "yesterday"):
		y := today.AddDate(0, 0, -1)
		return &ParsedDate{Kind: KindRelative, Start: y, End: y}
	case strings.Contains(text, "this week"):
		// Week starts Monday.
		offset := (int(today.Weekday()) + 6) % 7
		start := today.AddDate(0, 0, -offset)
		return &ParsedDate{Kind: KindRelative, Start: start, End: today}
	case strings.Contains(text, "last week"):
		offset := (int(today.Weekday()) + 6) % 7
		thisMonday := today.AddDate(0, 0, -offset)
		return &ParsedDate{Kind: KindRelative, Start: thisMonday.AddDate(0, 0, -7), End: thisMonday.AddDate(0, 0, -1)}
	case strings.Contains(text, "this month"):
		start := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		return &ParsedDate{Kind: KindRelative, Start: start, End: today}
	case strings.Contains(text, "last month"):
		firstOfThis := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		start := firstOfThis.AddDate(0, -1, 0)
		return &ParsedDate{Kind: KindRelative, Start: start, End: firstOfThis.AddDate(0, 0, -1)}
	case strings.Contains(text, "this year"):
		start := time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		return &ParsedDate{Kind: KindRelative, Start: start, End: today}
	case strings.Contains(text, "last year"):
		start := time.Date(today.Year()-1, time.January, 1, 0, 0, 0, 0, time.UTC)
		return &ParsedDate{Kind: KindRelative, Start: start, End: time.Date(today.Year()-1, time.December, 31, 0, 0, 0, 0, time.UTC)}
	}
	return nil
}

// parseMonth handles a month name with an optional day and/or year.
// "January 15, 2025" is one day; "January 2024" is the whole month. The
// single-day vs whole-month distinction decides whether downstream SQL
// filters one day or aggregates a month.
func parseMonth(text string, now time.Time) *ParsedDate {
	if m := monthDayYearPattern.FindStringSubmatch(text); m != nil {
		month := monthsByName[m[1]]
		day, _ := strconv.Atoi(m[2])
		year := now.Year()
		if m[3] != "" {
			if y, _ := strconv.Atoi(m[3]); y >= minYear && y <= maxYear {
				year = y
			}
		}
		// A "day" of 13..31 could actually be a year fragment typo; a day
		// past 12 with no year and value > 31 never matches the regex, so
		// only real day numbers land here.
		if d := makeDay(year, int(month), day); d != nil {
			return d
		}
	}
	if m := dayMonthYearPattern.FindStringSubmatch(text); m != nil {
		day, _ := strconv.Atoi(m[1])
		month := monthsByName[m[2]]
		year := now.Year()
		if m[3] != "" {
			if y, _ := strconv.Atoi(m[3]); y >= minYear && y <= maxYear {
				year = y
			}
		}
		if d := makeDay(year, int(month), day); d != nil {
			return d
		}
	}
	if m := monthYearPattern.FindStringSubmatch(text); m != nil {
		month := monthsByName[m[1]]
		year := now.Year()
		if m[2] != "" {
			y, _ := strconv.Atoi(m[2])
			if y < minYear || y > maxYear {
				return nil
			}
			year = y
		} else {
			year = findYear(text, now.Year())
		}
		start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
		return &ParsedDate{Kind: KindMonth, Start: start, End: start.AddDate(0, 1, -1)}
	}
	return nil
}

func parseBareYear(text string) *ParsedDate {
	for _, m := range yearPattern.FindAllStringSubmatch(text, -1) {
		y, _ := strconv.Atoi(m[1])
		if y >= minYear && y <= maxYear {
			return &ParsedDate{
				Kind:  KindYear,
				Start: time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC),
				End:   time.Date(y, time.December, 31, 0, 0, 0, 0, time.UTC),
			}
		}
	}
	return nil
}

// parseRange resolves two-ended expressions. Each endpoint goes through
// the same single-expression rules; an explicit year stated on only one
// endpoint propagates to the other.
func parseRange(text string, now time.Time) *ParsedDate {
	m := rangePattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	left, right := m[1], m[2]

	// Year propagation: a year found in either endpoint applies to both
	// when the other endpoint doesn't state its own.
	sharedYear := 0
	if y := extractYear(left); y != 0 {
		sharedYear = y
	} else if y := extractYear(right); y != 0 {
		sharedYear = y
	}
	ref := now
	if sharedYear != 0 {
		ref = time.Date(sharedYear, now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}

	start := parseSingle(left, ref)
	end := parseSingle(right, ref)
	if start == nil || end == nil {
		return nil
	}
	if end.End.Before(start.Start) {
		// Keep the range well-ordered even if the question states it
		// backwards ("compare March to January").
		return &ParsedDate{Kind: KindRange, Start: end.Start, End: start.End}
	}
	return &ParsedDate{Kind: KindRange, Start: start.Start, End: end.End}
}

// findYear looks for an explicit in-bounds year anywhere in the text,
// defaulting when none is present.
func findYear(text string, fallback int) int {
	if y := extractYear(text); y != 0 {
		return y
	}
	return fallback
}

func extractYear(text string) int {
	for _, m := range yearPattern.FindAllStringSubmatch(text, -1) {
		y, _ := strconv.Atoi(m[1])
		if y >= minYear && y <= maxYear {
			return y
		}
	}
	return 0
}
