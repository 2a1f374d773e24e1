package database

import (
	"context"
	"fmt"

	"github.com/oreline/oreline-engine/pkg/apperrors"
	enginesql "github.com/oreline/oreline-engine/pkg/sql"
)

// QueryResult holds the rows of an executed statement in column order.
type QueryResult struct {
	Columns []string         `json:"columns"`
	Rows    [][]any          `json:"rows"`
	Meta    map[string]int64 `json:"meta,omitempty"`
}

// ExecuteSelect runs a read-only statement and collects its rows. The
// statement is guarded again at the boundary and string parameters are
// screened for injection fingerprints, so a caller that skipped the
// validation chain still cannot reach the database with anything but a
// clean single SELECT.
func (db *DB) ExecuteSelect(ctx context.Context, statement string, params map[string]any) (*QueryResult, error) {
	statement, err := enginesql.GuardLLMStatement(statement)
	if err != nil {
		return nil, err
	}
	if findings := enginesql.ScreenParameters(params); len(findings) > 0 {
		return nil, fmt.Errorf("%w: parameter %q", apperrors.ErrInjectionDetected, findings[0].ParamName)
	}

	rows, err := db.Query(ctx, statement)
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	columns := make([]string, len(fields))
	for i, f := range fields {
		columns[i] = f.Name
	}

	result := &QueryResult{Columns: columns, Rows: [][]any{}}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		result.Rows = append(result.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return result, nil
}
