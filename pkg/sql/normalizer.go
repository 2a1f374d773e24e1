package sql

import (
	"regexp"
	"strings"

	"github.com/jinzhu/inflection"
)

// tableClausePattern locates every clause that names a table: FROM, any
// JOIN kind, UPDATE, INSERT INTO, DELETE FROM. Captures the keyword, the
// table token, and an optional trailing alias (with or without AS).
var tableClausePattern = regexp.MustCompile(
	`(?i)\b(DELETE\s+FROM|INSERT\s+INTO|FROM|JOIN|UPDATE)\s+([A-Za-z_][A-Za-z0-9_.]*)(\s+(AS\s+)?([A-Za-z_][A-Za-z0-9_]*))?`)

// NormalizeTableName maps one table reference to its canonical name:
// lower-case, whitespace collapsed to underscores, then direct
// membership, then the alias dictionary, then a singular/plural fold.
// An unknown name falls back to the cleaned form, which still fixes
// casing for genuinely unknown tables.
func (d *Dictionary) NormalizeTableName(name string) string {
	cleaned := normalizeIdent(name)
	if canonical, ok := d.resolveTable(cleaned); ok {
		return canonical
	}
	return cleaned
}

// resolveTable is NormalizeTableName without the unknown-name fallback:
// ok reports whether the cleaned name actually maps to a known table.
func (d *Dictionary) resolveTable(cleaned string) (string, bool) {
	if _, ok := d.tables[cleaned]; ok {
		return cleaned, true
	}
	if canonical, ok := d.aliases[cleaned]; ok {
		return canonical, true
	}
	// Plural/singular folding catches "machines" vs "machine" style
	// variants not spelled out in the alias table.
	singular := inflection.Singular(cleaned)
	if _, ok := d.tables[singular]; ok {
		return singular, true
	}
	if canonical, ok := d.aliases[singular]; ok {
		return canonical, true
	}
	plural := inflection.Plural(cleaned)
	if _, ok := d.tables[plural]; ok {
		return plural, true
	}
	return "", false
}

// findTableClauses scans for table-naming clauses. When the word after a
// table turns out to be SQL vocabulary rather than an alias (WHERE, JOIN,
// GROUP, ...), the match is trimmed back to the table token so the next
// scan can pick that word up as its own clause keyword.
func findTableClauses(sqlText string) [][]int {
	var matches [][]int
	offset := 0
	for offset < len(sqlText) {
		m := tableClausePattern.FindStringSubmatchIndex(sqlText[offset:])
		if m == nil {
			break
		}
		for i := range m {
			if m[i] != -1 {
				m[i] += offset
			}
		}
		if m[10] != -1 && isBareKeyword(strings.ToLower(sqlText[m[10]:m[11]])) {
			m[1] = m[5]
			m[6], m[7], m[8], m[9], m[10], m[11] = -1, -1, -1, -1, -1, -1
		}
		matches = append(matches, m)
		offset = m[1]
	}
	return matches
}

// NormalizeTableReferences rewrites every table-naming clause in the
// statement to use canonical table names, preserving an existing alias
// and making it AS-explicit. Idempotent: normalizing twice equals
// normalizing once, and an already-canonical statement comes back
// unchanged.
func (d *Dictionary) NormalizeTableReferences(sqlText string) string {
	matches := findTableClauses(sqlText)
	if len(matches) == 0 {
		return sqlText
	}

	// Inserting text shifts offsets, so rewrites apply back-to-front.
	out := sqlText
	for i := len(matches) - 1; i >= 0; i-- {
		m := matches[i]
		keyword := sqlText[m[2]:m[3]]
		table := sqlText[m[4]:m[5]]

		canonical := normalizeQualified(d, table)

		replacement := keyword + " " + canonical
		end := m[5]
		if m[10] != -1 {
			alias := sqlText[m[10]:m[11]]
			if m[8] == -1 {
				// A bare trailing word may be the second half of a
				// split table name ("PRODUCTION SUMMARY") rather than
				// an alias; resolve the joined pair first.
				joined := normalizeIdent(table + "_" + alias)
				if combined, ok := d.resolveTable(joined); ok {
					replacement = keyword + " " + combined
					end = m[1]
					if sqlText[m[0]:end] == replacement {
						continue
					}
					out = out[:m[0]] + replacement + out[end:]
					continue
				}
			}
			replacement += " AS " + alias
			end = m[1]
		}
		if sqlText[m[0]:end] == replacement {
			continue
		}
		out = out[:m[0]] + replacement + out[end:]
	}
	return out
}

// normalizeQualified normalizes a possibly schema-qualified table token,
// keeping the qualifier intact.
func normalizeQualified(d *Dictionary, table string) string {
	if idx := strings.LastIndex(table, "."); idx != -1 {
		return table[:idx+1] + d.NormalizeTableName(table[idx+1:])
	}
	return d.NormalizeTableName(table)
}

// ResolveFromTable returns the canonical name of the table referenced by
// the statement's FROM (or UPDATE / INSERT INTO / DELETE FROM) clause,
// or "" when none is found.
func (d *Dictionary) ResolveFromTable(sqlText string) string {
	m := tableClausePattern.FindStringSubmatch(sqlText)
	if m == nil {
		return ""
	}
	return normalizeQualified(d, m[2])
}
