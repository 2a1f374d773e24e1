package sql

import (
	"strings"
)

// referencedTable is one table named by a FROM or JOIN clause, with the
// alias it is known by in the statement.
type referencedTable struct {
	name  string // canonical table name
	alias string // alias if declared, else the table name
}

// QualifyAmbiguousColumns qualifies bare column references that exist on
// more than one table referenced by a multi-table statement, prefixing
// them with the first referencing table's alias. Single-table statements
// and already-qualified references are untouched. Rewrites are applied
// in reverse source order.
func (d *Dictionary) QualifyAmbiguousColumns(sqlText string) string {
	tables := d.referencedTables(sqlText)
	if len(tables) < 2 {
		return sqlText
	}

	scrubbed := stripStringLiterals(sqlText)
	declared := declaredAliases(scrubbed)
	type rewrite struct {
		start, end int
		text       string
	}
	var rewrites []rewrite

	for _, loc := range identPattern.FindAllStringIndex(scrubbed, -1) {
		ident := scrubbed[loc[0]:loc[1]]
		lower := strings.ToLower(ident)
		if isBareKeyword(lower) || d.HasTable(lower) || isAliasName(d, lower) || declared[lower] {
			continue
		}
		if isFunctionCall(scrubbed, loc[1]) || isQualified(scrubbed, loc[0], loc[1]) {
			continue
		}
		if isStatementAlias(tables, lower) {
			continue
		}
		owners := 0
		first := ""
		for _, t := range tables {
			if d.HasColumn(t.name, lower) {
				owners++
				if first == "" {
					first = t.alias
				}
			}
		}
		if owners >= 2 {
			rewrites = append(rewrites, rewrite{loc[0], loc[1], first + "." + ident})
		}
	}

	out := sqlText
	for i := len(rewrites) - 1; i >= 0; i-- {
		r := rewrites[i]
		out = out[:r.start] + r.text + out[r.end:]
	}
	return out
}

// referencedTables collects every table the statement names, in source
// order, resolving each through the alias dictionary.
func (d *Dictionary) referencedTables(sqlText string) []referencedTable {
	var tables []referencedTable
	for _, m := range findTableClauses(sqlText) {
		name := normalizeQualified(d, sqlText[m[4]:m[5]])
		alias := name
		if m[10] != -1 {
			alias = sqlText[m[10]:m[11]]
		}
		tables = append(tables, referencedTable{name: name, alias: alias})
	}
	return tables
}

func isStatementAlias(tables []referencedTable, ident string) bool {
	for _, t := range tables {
		if strings.EqualFold(t.alias, ident) {
			return true
		}
	}
	return false
}
