package llm

import (
	"context"
)

// Mock is a test double for the Client interface.
type Mock struct {
	// Response is returned by GenerateSQL when Err is nil.
	Response string
	// Err, when set, is returned by every call.
	Err error

	// Calls records every (question, hints) pair, in order.
	Calls []MockCall
}

// MockCall is one recorded GenerateSQL invocation.
type MockCall struct {
	Question string
	Hints    string
}

var _ Client = (*Mock)(nil)

// GenerateSQL records the call and returns the configured response.
func (m *Mock) GenerateSQL(_ context.Context, question, hints string) (string, error) {
	m.Calls = append(m.Calls, MockCall{Question: question, Hints: hints})
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}

// Model returns a stable fake model name.
func (m *Mock) Model() string { return "mock-model" }
