package logging

import (
	"regexp"
)

const (
	// MaxQueryLogLength caps how much of a statement lands in a log line.
	MaxQueryLogLength = 120
	// RedactedText replaces sensitive data.
	RedactedText = "[REDACTED]"
)

var (
	// password=xxx, pwd=xxx, pass=xxx in connection strings
	passwordPattern = regexp.MustCompile(`(?i)(password|pwd|pass)=[^;&\s]+`)

	// api keys passed as key=... pairs
	apiKeyPattern = regexp.MustCompile(`(?i)(api[_-]?key|apikey|key)=[A-Za-z0-9-_]{20,}`)

	// user:pass@host credentials embedded in URLs
	connStringPattern = regexp.MustCompile(`://[^:]+:[^@]+@[^/\s]+`)
)

// SanitizeError scrubs an error message that may carry datasource
// credentials before it is logged or attached to a decision.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	s := passwordPattern.ReplaceAllString(err.Error(), "${1}="+RedactedText)
	s = apiKeyPattern.ReplaceAllString(s, "${1}="+RedactedText)
	s = connStringPattern.ReplaceAllString(s, "://"+RedactedText+"@"+RedactedText)
	return s
}

// SanitizeQuery truncates a SQL statement for logging and scrubs
// anything credential-shaped that found its way into it.
func SanitizeQuery(query string) string {
	if query == "" {
		return ""
	}
	s := query
	if len(s) > MaxQueryLogLength {
		s = s[:MaxQueryLogLength] + "..."
	}
	s = passwordPattern.ReplaceAllString(s, "${1}="+RedactedText)
	s = apiKeyPattern.ReplaceAllString(s, "${1}="+RedactedText)
	return s
}
