package followup

import (
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/oreline/oreline-engine/pkg/models"
)

// Threshold is the confidence a question must clear to be treated as a
// follow-up; below it the turn is classified fresh.
const Threshold = 0.5

// FollowUpType classifies what kind of continuation the question is.
type FollowUpType string

const (
	TypeModification  FollowUpType = "modification"
	TypeClarification FollowUpType = "clarification"
	TypeConstraint    FollowUpType = "constraint"
	TypeAlternative   FollowUpType = "alternative"
)

// Result is the detector's verdict for one question.
type Result struct {
	IsFollowUp         bool
	Confidence         float64
	PreviousIntent     string
	PreviousParameters map[string]any
	FollowUpType       FollowUpType
}

var (
	leadInPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^\s*(and|but|also|plus)\b`),
		regexp.MustCompile(`(?i)^\s*(what if|suppose|supposing)\b`),
		regexp.MustCompile(`(?i)^\s*(what about|how about)\b`),
		regexp.MustCompile(`(?i)\b(with only|using only|at least|without)\b`),
	}

	conjunctionPrefix = regexp.MustCompile(`(?i)^\s*(and|but)\s`)

	// Standalone signals override any lead-in wording and force a fresh
	// classification. The precedence (override beats lead-in) is checked
	// first on purpose; see DESIGN.md.
	standalonePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b\d{4}-\d{1,2}-\d{1,2}\b`),
		regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{4}\b`),
		regexp.MustCompile(`(?i)\b[a-z]{2,4}-?\d{1,4}\b`),
		regexp.MustCompile(`(?i)^\s*(show me all|list all|give me a full)\b`),
	}

	onlyNPattern    = regexp.MustCompile(`(?i)\bonly\s+(\d+)\s+([a-z]+)\b`)
	atLeastNPattern = regexp.MustCompile(`(?i)\bat least\s+(\d+)\s+([a-z]+)\b`)
	withoutPattern  = regexp.MustCompile(`(?i)\bwithout\s+([a-z0-9_-]+)`)

	constraintWords  = []string{"only", "at least", "at most", "without", "using", "limit to"}
	alternativeWords = []string{"instead", "what about", "how about", "or rather"}
	clarifyWords     = []string{"what do you mean", "which one", "clarify", "explain that"}
)

// Detector flags continuation questions. Stateless; the cache supplies
// prior-turn context.
type Detector struct {
	logger *zap.Logger
}

// NewDetector builds a detector.
func NewDetector(logger *zap.Logger) *Detector {
	return &Detector{logger: logger.Named("followup")}
}

// Detect scores the question against the previous turns. With empty
// history the confidence is always 0. Confidence accumulates from
// independent signals and must clear Threshold to accept; a standalone
// signal (explicit date, equipment code, fresh-question lead) overrides
// every lead-in and forces a fresh classification.
func (d *Detector) Detect(question string, history []models.TurnRecord) Result {
	if len(history) == 0 {
		return Result{}
	}

	for _, p := range standalonePatterns {
		if p.MatchString(question) {
			return Result{}
		}
	}

	matched := false
	for _, p := range leadInPatterns {
		if p.MatchString(question) {
			matched = true
			break
		}
	}
	if !matched {
		return Result{}
	}

	confidence := 0.4
	words := len(strings.Fields(question))
	if words <= 6 {
		confidence += 0.2
	}
	if !strings.Contains(question, "?") {
		confidence += 0.1
	}
	if conjunctionPrefix.MatchString(question) {
		confidence += 0.2
	}

	if confidence < Threshold {
		d.logger.Debug("follow-up below threshold",
			zap.Float64("confidence", confidence),
			zap.Int("words", words))
		return Result{Confidence: confidence}
	}

	last := history[len(history)-1]
	return Result{
		IsFollowUp:         true,
		Confidence:         confidence,
		PreviousIntent:     last.Intent,
		PreviousParameters: last.Parameters,
		FollowUpType:       classifyType(question),
	}
}

// classifyType picks the follow-up flavor by keyword precedence:
// constraint > alternative > clarification > modification as default.
func classifyType(question string) FollowUpType {
	lower := strings.ToLower(question)
	for _, w := range constraintWords {
		if strings.Contains(lower, w) {
			return TypeConstraint
		}
	}
	for _, w := range alternativeWords {
		if strings.Contains(lower, w) {
			return TypeAlternative
		}
	}
	for _, w := range clarifyWords {
		if strings.Contains(lower, w) {
			return TypeClarification
		}
	}
	return TypeModification
}

// ExtractConstraints parses the small structured delta a constraint
// follow-up carries: "only N <unit>", "at least N <unit>", "without X".
func ExtractConstraints(question string) map[string]any {
	delta := map[string]any{}
	if m := onlyNPattern.FindStringSubmatch(question); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			delta["limit"] = n
			delta["unit"] = strings.ToLower(m[2])
		}
	}
	if m := atLeastNPattern.FindStringSubmatch(question); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			delta["min"] = n
			if _, ok := delta["unit"]; !ok {
				delta["unit"] = strings.ToLower(m[2])
			}
		}
	}
	if m := withoutPattern.FindStringSubmatch(question); m != nil {
		delta["exclude"] = strings.ToUpper(m[1])
	}
	return delta
}

// Merge lays the new turn's delta over the previous turn's full
// parameter set. Previous values survive unless the delta names the same
// key; the isFollowUp marker is always set so downstream consumers can
// special-case inherited context.
func Merge(previous, delta map[string]any) map[string]any {
	merged := make(map[string]any, len(previous)+len(delta)+1)
	for k, v := range previous {
		merged[k] = v
	}
	for k, v := range delta {
		merged[k] = v
	}
	merged["isFollowUp"] = true
	return merged
}
