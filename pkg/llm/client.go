// Package llm is the fallback SQL generator: when no deterministic
// template applies, the router hands the question, the extracted hints,
// and the schema to a language model and treats the returned text as
// untrusted input for the SQL safety layer.
package llm

import (
	"context"
	"regexp"
	"strings"
)

// Client generates SQL for questions the deterministic pipeline could
// not synthesize. Implementations must respect the context deadline;
// the router bounds every call with the configured timeout.
type Client interface {
	// GenerateSQL produces a single SELECT statement for the question.
	// The hints string carries the classified intent and extracted
	// parameters so the model doesn't re-derive them.
	GenerateSQL(ctx context.Context, question, hints string) (string, error)

	// Model returns the configured model name, for logging.
	Model() string
}

var codeFencePattern = regexp.MustCompile("(?s)```(?:sql)?\\s*(.*?)```")

// ExtractSQL pulls the statement out of a model response that may wrap
// it in markdown fences or prose.
func ExtractSQL(response string) string {
	if m := codeFencePattern.FindStringSubmatch(response); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(response)
}
