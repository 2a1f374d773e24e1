package sql

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	identPattern    = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)
	funcCallPattern = regexp.MustCompile(`(?i)\b([a-z_][a-z0-9_]*)\s*\(`)
	asAliasPattern  = regexp.MustCompile(`(?i)\bAS\s+[a-z_]`)
	declaredAliasRe = regexp.MustCompile(`(?i)\bAS\s+([a-z_][a-z0-9_]*)`)
	groupByPattern  = regexp.MustCompile(`(?i)\bGROUP\s+BY\b`)
	orderByPattern  = regexp.MustCompile(`(?i)\bORDER\s+BY\b`)
	joinPattern     = regexp.MustCompile(`(?i)\bJOIN\b`)

	// Call-position words that are syntax, not functions.
	notFunctions = map[string]bool{
		"in": true, "and": true, "or": true, "not": true, "exists": true,
		"values": true, "any": true, "some": true, "on": true, "where": true,
	}
)

// ValidationReport is the outcome of checking a statement's column
// references against the dictionary.
type ValidationReport struct {
	Table          string              // canonical table resolved from the FROM clause
	InvalidTable   string              // set when the FROM table itself is unknown
	InvalidColumns []string            // identifiers with no known correction
	Suggestions    map[string][]string // invalid identifier → valid candidate columns
	Corrections    map[string]string   // lower-cased invalid identifier → canonical column
}

// HasFindings reports whether anything failed validation.
func (r *ValidationReport) HasFindings() bool {
	return r.InvalidTable != "" || len(r.InvalidColumns) > 0 || len(r.Corrections) > 0
}

// AutoFixChange records one applied correction.
type AutoFixChange struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Count int    `json:"count"`
}

// AutoFixResult is the outcome of a bounded auto-fix pass.
type AutoFixResult struct {
	SQL     string
	Fixed   bool
	Changes []AutoFixChange
}

// ValidateColumns tokenizes the statement, resolves its table from the
// FROM clause, and flags bare identifiers that are neither SQL
// vocabulary, a known table, nor a column of the resolved table.
// Identifiers found in the common-mistake map (with a correction that
// exists on the table) land in Corrections; everything else is reported
// with the table's valid column list and never guessed at.
func (d *Dictionary) ValidateColumns(sqlText string) *ValidationReport {
	report := &ValidationReport{
		Suggestions: map[string][]string{},
		Corrections: map[string]string{},
	}

	table := d.ResolveFromTable(sqlText)
	if table == "" {
		return report
	}
	report.Table = table
	if !d.HasTable(table) {
		report.InvalidTable = table
		return report
	}

	scrubbed := stripStringLiterals(sqlText)
	declared := declaredAliases(scrubbed)
	seen := map[string]bool{}
	for _, loc := range identPattern.FindAllStringIndex(scrubbed, -1) {
		ident := scrubbed[loc[0]:loc[1]]
		lower := strings.ToLower(ident)
		if seen[lower] {
			continue
		}
		if isBareKeyword(lower) || d.HasTable(lower) || isAliasName(d, lower) || declared[lower] {
			continue
		}
		if isFunctionCall(scrubbed, loc[1]) {
			continue
		}
		if isQualified(scrubbed, loc[0], loc[1]) {
			// Qualified references belong to multi-table statements,
			// which the disambiguation pass owns.
			continue
		}
		if d.HasColumn(table, lower) {
			continue
		}
		seen[lower] = true
		if canonical, ok := d.Correction(table, lower); ok {
			report.Corrections[lower] = canonical
			continue
		}
		report.InvalidColumns = append(report.InvalidColumns, ident)
		report.Suggestions[ident] = d.Columns(table)
	}
	return report
}

// AutoFix applies the report's corrections only when the statement is
// judged unambiguous. Any explicit AS alias, GROUP BY, ORDER BY,
// function call, or JOIN makes blind text substitution unsafe, and the
// statement comes back untouched with Fixed=false so the caller can
// surface the finding as a warning instead. This trades recall for
// precision on purpose.
func (d *Dictionary) AutoFix(sqlText string, corrections map[string]string) AutoFixResult {
	result := AutoFixResult{SQL: sqlText}
	if len(corrections) == 0 {
		return result
	}
	if !isUnambiguous(sqlText) {
		return result
	}

	fixed := sqlText
	for wrong, right := range corrections {
		pattern := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(wrong) + `\b`)
		count := len(pattern.FindAllString(fixed, -1))
		if count == 0 {
			continue
		}
		fixed = pattern.ReplaceAllString(fixed, right)
		result.Changes = append(result.Changes, AutoFixChange{From: wrong, To: right, Count: count})
	}
	if len(result.Changes) > 0 {
		result.SQL = fixed
		result.Fixed = true
	}
	return result
}

// isUnambiguous reports whether blind token substitution is safe.
func isUnambiguous(sqlText string) bool {
	scrubbed := stripStringLiterals(sqlText)
	if asAliasPattern.MatchString(scrubbed) ||
		groupByPattern.MatchString(scrubbed) ||
		orderByPattern.MatchString(scrubbed) ||
		joinPattern.MatchString(scrubbed) {
		return false
	}
	for _, m := range funcCallPattern.FindAllStringSubmatch(scrubbed, -1) {
		if !notFunctions[strings.ToLower(m[1])] {
			return false
		}
	}
	return true
}

// FormatMismatch renders the user-facing message for an unfixable
// finding, naming the identifier and the valid candidates.
func FormatMismatch(report *ValidationReport) string {
	if report.InvalidTable != "" {
		return fmt.Sprintf("unknown table %q", report.InvalidTable)
	}
	var parts []string
	for _, col := range report.InvalidColumns {
		candidates := strings.Join(report.Suggestions[col], ", ")
		parts = append(parts, fmt.Sprintf("unknown column %q on table %q (valid columns: %s)", col, report.Table, candidates))
	}
	return strings.Join(parts, "; ")
}

func stripStringLiterals(sqlText string) string {
	var b strings.Builder
	b.Grow(len(sqlText))
	inString := false
	for i := 0; i < len(sqlText); i++ {
		ch := sqlText[i]
		if ch == '\'' {
			inString = !inString
			b.WriteByte(ch)
			continue
		}
		if inString {
			b.WriteByte(' ')
		} else {
			b.WriteByte(ch)
		}
	}
	return b.String()
}

func isFunctionCall(text string, end int) bool {
	for i := end; i < len(text); i++ {
		switch text[i] {
		case ' ', '\t', '\n', '\r':
			continue
		case '(':
			return true
		default:
			return false
		}
	}
	return false
}

func isQualified(text string, start, end int) bool {
	if start > 0 && text[start-1] == '.' {
		return true
	}
	if end < len(text) && text[end] == '.' {
		return true
	}
	return false
}

// isAliasName reports whether ident maps through the alias table; alias
// words in a statement name tables, not columns.
func isAliasName(d *Dictionary, ident string) bool {
	_, ok := d.aliases[ident]
	return ok
}

// declaredAliases collects every "AS name" declared in the statement;
// those names are the statement's own vocabulary (select-list or table
// aliases) and are never column findings, including in later GROUP BY or
// ORDER BY references.
func declaredAliases(scrubbed string) map[string]bool {
	out := map[string]bool{}
	for _, m := range declaredAliasRe.FindAllStringSubmatch(scrubbed, -1) {
		out[strings.ToLower(m[1])] = true
	}
	return out
}
