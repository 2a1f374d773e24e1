package llm

import (
	"fmt"
	"sort"
	"strings"
)

// BuildSystemPrompt renders the schema descriptor into the system
// message both providers share. The model only ever sees canonical
// table and column names.
func BuildSystemPrompt(schema map[string][]string) string {
	var b strings.Builder
	b.WriteString("You translate mining-operations questions into a single PostgreSQL SELECT statement.\n")
	b.WriteString("Rules: one statement, SELECT only, no comments, use only the tables and columns below.\n\n")

	tables := make([]string, 0, len(schema))
	for t := range schema {
		tables = append(tables, t)
	}
	sort.Strings(tables)
	for _, t := range tables {
		fmt.Fprintf(&b, "table %s (%s)\n", t, strings.Join(schema[t], ", "))
	}
	return b.String()
}

// buildUserPrompt attaches the deterministic pipeline's hints so the
// model doesn't re-derive what was already extracted.
func buildUserPrompt(question, hints string) string {
	if hints == "" {
		return question
	}
	return question + "\n\nExtracted context: " + hints
}
