package models

import "time"

// TaskType identifies which downstream collaborator a decision is routed to.
type TaskType string

const (
	TaskSQL      TaskType = "sql"      // relational query over the operations schema
	TaskRAG      TaskType = "rag"      // document retrieval
	TaskOptimize TaskType = "optimize" // equipment optimization heuristics
)

// RouteSource records whether the SQL text came from the deterministic
// pipeline or from the LLM fallback.
type RouteSource string

const (
	RouteDeterministic RouteSource = "deterministic"
	RouteLLM           RouteSource = "llm"
)

// IntentResult is the output of intent classification for one question.
// Confidence is a normalized score relative to a fixed threshold table,
// not a calibrated probability.
type IntentResult struct {
	Intent          string         `json:"intent"`
	Confidence      float64        `json:"confidence"`
	MatchedKeywords []string       `json:"matched_keywords,omitempty"`
	Parameters      map[string]any `json:"parameters,omitempty"`
}

// RouterDecision is the terminal output of the question pipeline, consumed
// by the SQL executor, the LLM caller, or the RAG/optimize collaborators.
// Immutable once returned.
type RouterDecision struct {
	Task          TaskType       `json:"task"`
	Confidence    float64        `json:"confidence"`
	Intent        string         `json:"intent,omitempty"`
	Parameters    map[string]any `json:"parameters,omitempty"`
	SQLText       string         `json:"sql_text,omitempty"`
	RouteSource   RouteSource    `json:"route_source"`
	CorrelationID string         `json:"correlation_id"`
}

// TurnRecord is one entry of the prior-turn history handed to the follow-up
// detector. The transport layer owns the history; the core only reads it.
type TurnRecord struct {
	Question   string         `json:"question"`
	Answer     string         `json:"answer,omitempty"`
	Intent     string         `json:"intent,omitempty"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

// QuickContext is the per-user cached record of the last completed turn.
// One record per user, last-write-wins; expiry is checked on read.
type QuickContext struct {
	UserID         string         `json:"user_id"`
	LastIntent     string         `json:"last_intent"`
	LastQuestion   string         `json:"last_question"`
	LastAnswer     string         `json:"last_answer,omitempty"`
	LastParameters map[string]any `json:"last_parameters,omitempty"`
	RouteTaken     TaskType       `json:"route_taken,omitempty"`
	Timestamp      time.Time      `json:"timestamp"`
}
