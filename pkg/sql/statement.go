package sql

import (
	"errors"
	"regexp"
	"strings"
)

// modifyingCTEPattern matches CTEs that contain data-modifying
// operations, e.g. WITH d AS (DELETE FROM ...) SELECT * FROM d.
var modifyingCTEPattern = regexp.MustCompile(`(?i)\bAS\s*\(\s*(INSERT|UPDATE|DELETE)\b`)

var (
	// ErrMultipleStatements indicates the text contains more than one
	// SQL statement; only single statements reach the executor.
	ErrMultipleStatements = errors.New("multiple SQL statements not allowed; only single statements are permitted")

	// ErrNotSelect indicates LLM-produced SQL was something other than a
	// read query. The fallback path only ever executes SELECTs.
	ErrNotSelect = errors.New("only SELECT statements are permitted from the language-model path")
)

// StatementType classifies a statement by its leading keyword.
type StatementType string

const (
	StatementSelect  StatementType = "SELECT"
	StatementInsert  StatementType = "INSERT"
	StatementUpdate  StatementType = "UPDATE"
	StatementDelete  StatementType = "DELETE"
	StatementDDL     StatementType = "DDL"
	StatementUnknown StatementType = "UNKNOWN"
)

// NormalizeStatement strips a trailing semicolon and rejects text that
// still contains a semicolon outside string literals, which means a
// second statement is riding along.
func NormalizeStatement(sqlText string) (string, error) {
	sqlText = strings.TrimSpace(sqlText)
	if sqlText == "" {
		return "", nil
	}
	normalized := strings.TrimRight(sqlText, " \t\n\r")
	if strings.HasSuffix(normalized, ";") {
		normalized = strings.TrimRight(strings.TrimSuffix(normalized, ";"), " \t\n\r")
	}
	if semicolonOutsideStrings(normalized) {
		return "", ErrMultipleStatements
	}
	return normalized, nil
}

// DetectStatementType classifies by leading keyword. A WITH chain counts
// as a SELECT unless one of its CTEs modifies data.
func DetectStatementType(sqlText string) StatementType {
	normalized := strings.ToUpper(strings.TrimSpace(sqlText))
	switch {
	case strings.HasPrefix(normalized, "SELECT"):
		return StatementSelect
	case strings.HasPrefix(normalized, "WITH"):
		if modifyingCTEPattern.MatchString(sqlText) {
			return StatementUnknown
		}
		return StatementSelect
	case strings.HasPrefix(normalized, "INSERT"):
		return StatementInsert
	case strings.HasPrefix(normalized, "UPDATE"):
		return StatementUpdate
	case strings.HasPrefix(normalized, "DELETE"):
		return StatementDelete
	case strings.HasPrefix(normalized, "CREATE"),
		strings.HasPrefix(normalized, "ALTER"),
		strings.HasPrefix(normalized, "DROP"),
		strings.HasPrefix(normalized, "TRUNCATE"):
		return StatementDDL
	default:
		return StatementUnknown
	}
}

// GuardLLMStatement normalizes LLM-produced SQL and enforces the
// SELECT-only policy for that path.
func GuardLLMStatement(sqlText string) (string, error) {
	normalized, err := NormalizeStatement(sqlText)
	if err != nil {
		return "", err
	}
	if DetectStatementType(normalized) != StatementSelect {
		return "", ErrNotSelect
	}
	return normalized, nil
}

// semicolonOutsideStrings scans with a tiny quote-state machine so
// semicolons inside literals ('a;b') or quoted identifiers don't count.
func semicolonOutsideStrings(sqlText string) bool {
	const (
		stateNormal = iota
		stateSingle
		stateDouble
	)
	state := stateNormal
	var prev rune
	for _, ch := range sqlText {
		switch state {
		case stateNormal:
			switch ch {
			case ';':
				return true
			case '\'':
				state = stateSingle
			case '"':
				state = stateDouble
			}
		case stateSingle:
			if ch == '\'' && prev != '\\' {
				state = stateNormal
			}
		case stateDouble:
			if ch == '"' && prev != '\\' {
				state = stateNormal
			}
		}
		prev = ch
	}
	return false
}
