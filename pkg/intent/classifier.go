// Package intent classifies free-text mining-operations questions into a
// single intent using tiered keyword scoring with deterministic
// tie-breaking. Rules are data (rules.go); this file is the one scorer
// that consumes them.
package intent

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/oreline/oreline-engine/pkg/models"
)

// phraseMultiplier rewards multi-word phrase hits over single keywords.
const phraseMultiplier = 3.0

// Classifier scores questions against the intent vocabulary. Safe for
// concurrent use; the rule tables are read-only.
type Classifier struct {
	rules      []Rule
	exclusions [][2]string
	logger     *zap.Logger
}

// New builds a classifier over the default rule tables.
func New(logger *zap.Logger) *Classifier {
	return &Classifier{
		rules:      defaultRules,
		exclusions: exclusionPairs,
		logger:     logger.Named("intent"),
	}
}

type candidate struct {
	rule      Rule
	score     float64
	matched   []string // in rule order, for observability
	matchedCh int      // total matched-keyword character length
}

// Classify chooses exactly one intent for the question. The same input
// always produces the same result: candidates are filtered by the
// mutual-exclusion pass, then by tier suppression, then ranked by the
// five-stage tie-break (score, tier, match count, matched character
// length, intent name).
func (c *Classifier) Classify(text string) models.IntentResult {
	lower := strings.ToLower(text)

	var candidates []candidate
	for _, rule := range c.rules {
		cand := candidate{rule: rule}
		for _, phrase := range rule.Phrases {
			if strings.Contains(lower, phrase) {
				weight := 1.0
				if strings.Contains(phrase, " ") {
					weight = phraseMultiplier
				}
				cand.score += weight
				cand.matched = append(cand.matched, phrase)
				cand.matchedCh += len(phrase)
			}
		}
		if cand.score > 0 {
			candidates = append(candidates, cand)
		}
	}

	if len(candidates) == 0 {
		return models.IntentResult{Intent: IntentUnknown, Confidence: 0}
	}

	candidates = c.applyExclusions(candidates)
	candidates = applyTierSuppression(candidates)

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if a.rule.Tier != b.rule.Tier {
			return a.rule.Tier < b.rule.Tier
		}
		if len(a.matched) != len(b.matched) {
			return len(a.matched) > len(b.matched)
		}
		if a.matchedCh != b.matchedCh {
			return a.matchedCh > b.matchedCh
		}
		return a.rule.Name < b.rule.Name
	})

	winner := candidates[0]
	result := models.IntentResult{
		Intent:          winner.rule.Name,
		Confidence:      confidence(winner.score),
		MatchedKeywords: winner.matched,
	}

	c.logger.Debug("classified question",
		zap.String("intent", result.Intent),
		zap.Float64("score", winner.score),
		zap.Int("tier", winner.rule.Tier),
		zap.Strings("matched", winner.matched))

	return result
}

// TaskFor maps an intent to the downstream task it routes to. Unknown
// intents default to the SQL path, where the LLM fallback takes over.
func (c *Classifier) TaskFor(intentName string) models.TaskType {
	for _, rule := range c.rules {
		if rule.Name == intentName {
			return rule.Task
		}
	}
	return models.TaskSQL
}

// applyExclusions runs the hard mutual-exclusion pass: for each pair,
// if the winner-side intent matched at all, the loser-side intent is
// dropped even when it scored points on overlapping vocabulary.
func (c *Classifier) applyExclusions(candidates []candidate) []candidate {
	present := map[string]bool{}
	for _, cand := range candidates {
		present[cand.rule.Name] = true
	}
	drop := map[string]bool{}
	for _, pair := range c.exclusions {
		if present[pair[0]] {
			drop[pair[1]] = true
		}
	}
	if len(drop) == 0 {
		return candidates
	}
	out := candidates[:0]
	for _, cand := range candidates {
		if !drop[cand.rule.Name] {
			out = append(out, cand)
		}
	}
	return out
}

// applyTierSuppression removes Tier-3 candidates whenever a Tier-1
// candidate is present. Tier-2 candidates are never suppressed.
func applyTierSuppression(candidates []candidate) []candidate {
	tier1 := false
	for _, cand := range candidates {
		if cand.rule.Tier == 1 {
			tier1 = true
			break
		}
	}
	if !tier1 {
		return candidates
	}
	out := candidates[:0]
	for _, cand := range candidates {
		if cand.rule.Tier != 3 {
			out = append(out, cand)
		}
	}
	return out
}

// confidence normalizes a raw score into [0, 1). It is a ranking signal
// relative to the threshold table, not a probability.
func confidence(score float64) float64 {
	return score / (score + 3.0)
}
