package sql

import (
	"regexp"
	"strings"
)

// aggStartPattern finds candidate aggregate calls; the matching close
// paren is located by depth counting, not by regex.
var aggStartPattern = regexp.MustCompile(`(?i)\b(ROUND|SUM|AVG|COUNT|MAX|MIN)\s*\(`)

var innerAggPattern = regexp.MustCompile(`(?i)^\s*(SUM|AVG|COUNT|MAX|MIN)\s*\(`)

var explicitAliasPattern = regexp.MustCompile(`(?i)^\s+AS\s+[a-z_]`)

var overClausePattern = regexp.MustCompile(`(?i)^\s*OVER\s*\(`)

type aggregateSpan struct {
	start int    // offset of the function name
	end   int    // offset just past the closing paren
	alias string // generated alias
}

// CompleteAggregateAliases gives every unaliased aggregate in the
// statement's select list a descriptive alias derived from the function
// and its inner column: total_<col> for SUM, avg_<col>, count_<col>
// (unique_<col> for COUNT DISTINCT), max_<col>, min_<col>, with a
// _rounded suffix when ROUND wraps the aggregate. Only top-level select
// items are touched: aggregates in WHERE/HAVING/ORDER BY, in
// subqueries, or nested inside another function call (COALESCE and the
// like) stay as written, since an AS there is a syntax error.
// Aggregates already aliased or feeding a window OVER (...) clause are
// also left untouched. Insertions are applied in reverse source order
// so earlier offsets stay valid.
func CompleteAggregateAliases(sqlText string) string {
	spans := collectAggregateSpans(sqlText)
	if len(spans) == 0 {
		return sqlText
	}
	out := sqlText
	for i := len(spans) - 1; i >= 0; i-- {
		s := spans[i]
		out = out[:s.end] + " AS " + s.alias + out[s.end:]
	}
	return out
}

func collectAggregateSpans(sqlText string) []aggregateSpan {
	scrubbed := stripStringLiterals(sqlText)
	listStart, listEnd := selectListBounds(scrubbed)
	if listStart == -1 {
		return nil
	}

	var spans []aggregateSpan
	consumedTo := -1 // aggregates nested inside a ROUND(...) span are its own

	for _, loc := range aggStartPattern.FindAllStringSubmatchIndex(scrubbed, -1) {
		nameStart, nameEnd := loc[2], loc[3]
		if nameStart < listStart || nameStart >= listEnd {
			continue
		}
		if parenDepth(scrubbed, listStart, nameStart) != 0 {
			continue // inside a subquery or another function's argument list
		}
		if nameStart < consumedTo {
			continue
		}
		fn := strings.ToUpper(scrubbed[nameStart:nameEnd])
		openParen := loc[1] - 1
		closeParen := matchParen(scrubbed, openParen)
		if closeParen == -1 {
			continue
		}
		inner := scrubbed[openParen+1 : closeParen]
		rest := scrubbed[closeParen+1:]

		rounded := false
		if fn == "ROUND" {
			m := innerAggPattern.FindStringSubmatch(inner)
			if m == nil {
				continue // ROUND over a plain expression is not an aggregate
			}
			fn = strings.ToUpper(m[1])
			rounded = true
			consumedTo = closeParen + 1
			idx := strings.Index(inner, "(")
			innerClose := matchParen(inner, idx)
			if innerClose == -1 {
				continue
			}
			inner = inner[idx+1 : innerClose]
		}

		if explicitAliasPattern.MatchString(rest) || overClausePattern.MatchString(rest) {
			continue
		}

		alias := aliasFor(fn, inner, rounded)
		spans = append(spans, aggregateSpan{start: nameStart, end: closeParen + 1, alias: alias})
	}
	return spans
}

// aliasFor derives the generated alias from the function and the
// cleaned inner column name.
func aliasFor(fn, inner string, rounded bool) string {
	distinct := false
	trimmed := strings.TrimSpace(inner)
	if m := regexp.MustCompile(`(?i)^DISTINCT\s+`).FindString(trimmed); m != "" {
		distinct = true
		trimmed = trimmed[len(m):]
	}
	col := cleanInnerColumn(trimmed)

	var alias string
	switch fn {
	case "SUM":
		alias = "total_" + col
	case "AVG":
		alias = "avg_" + col
	case "COUNT":
		if distinct {
			alias = "unique_" + col
		} else {
			alias = "count_" + col
		}
	case "MAX":
		alias = "max_" + col
	case "MIN":
		alias = "min_" + col
	}
	if rounded {
		alias += "_rounded"
	}
	return alias
}

// cleanInnerColumn reduces an aggregate argument to a name fragment:
// strips table qualifiers and non-word characters; "*" becomes "all".
func cleanInnerColumn(expr string) string {
	expr = strings.TrimSpace(expr)
	if expr == "*" || expr == "" {
		return "all"
	}
	if idx := strings.LastIndex(expr, "."); idx != -1 {
		expr = expr[idx+1:]
	}
	if m := identPattern.FindString(expr); m != "" {
		return strings.ToLower(m)
	}
	return "value"
}

// selectListBounds locates the span between the statement's top-level
// SELECT keyword and its FROM. CTE bodies and subqueries sit inside
// parens and never match. Returns (-1, -1) when there is no top-level
// SELECT; end runs to the end of the text for a FROM-less statement.
func selectListBounds(text string) (int, int) {
	depth := 0
	start := -1
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '(':
			depth++
		case ')':
			depth--
		}
		if depth != 0 {
			continue
		}
		if start == -1 {
			if keywordAt(text, i, "SELECT") {
				start = i + len("SELECT")
				i = start - 1
			}
			continue
		}
		if keywordAt(text, i, "FROM") {
			return start, i
		}
	}
	if start == -1 {
		return -1, -1
	}
	return start, len(text)
}

// keywordAt reports whether the word starting at i equals the keyword,
// case-insensitively and on word boundaries.
func keywordAt(text string, i int, keyword string) bool {
	if i+len(keyword) > len(text) {
		return false
	}
	if !strings.EqualFold(text[i:i+len(keyword)], keyword) {
		return false
	}
	if i > 0 && isWordByte(text[i-1]) {
		return false
	}
	if i+len(keyword) < len(text) && isWordByte(text[i+len(keyword)]) {
		return false
	}
	return true
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// parenDepth counts net paren nesting over text[from:to].
func parenDepth(text string, from, to int) int {
	depth := 0
	for i := from; i < to; i++ {
		switch text[i] {
		case '(':
			depth++
		case ')':
			depth--
		}
	}
	return depth
}

// matchParen returns the index of the close paren matching the open
// paren at openIdx, or -1.
func matchParen(text string, openIdx int) int {
	depth := 0
	for i := openIdx; i < len(text); i++ {
		switch text[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
