// Package apperrors defines the error taxonomy of the question pipeline.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrNoTemplate is the template builder's explicit null: no
	// deterministic template applies and the LLM fallback takes over.
	// Expected, not a fault.
	ErrNoTemplate = errors.New("no SQL template matches")

	// ErrLLMUnavailable means the fallback path was needed but no
	// language-model client is configured. The deterministic path never
	// depends on one.
	ErrLLMUnavailable = errors.New("language model not configured")

	// ErrInjectionDetected means a parameter value carried a SQL
	// injection fingerprint and the statement was never executed.
	ErrInjectionDetected = errors.New("injection pattern detected in parameter value")
)

// SchemaMismatchError is an unfixable schema finding: a column or table
// reference that failed validation with no safe correction. It names the
// offending identifier and the valid candidates so the caller can render
// an actionable message; it is never silently dropped.
type SchemaMismatchError struct {
	Identifier    string
	Table         string
	Candidates    []string
	CorrelationID string
}

func (e *SchemaMismatchError) Error() string {
	if len(e.Candidates) == 0 {
		return fmt.Sprintf("unknown reference %q (correlation %s)", e.Identifier, e.CorrelationID)
	}
	return fmt.Sprintf("unknown column %q on table %q (correlation %s)", e.Identifier, e.Table, e.CorrelationID)
}

// Wrap attaches a correlation id to an execution-boundary failure before
// it is re-raised to the caller.
func Wrap(correlationID string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("correlation %s: %w", correlationID, err)
}
