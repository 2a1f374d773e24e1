// Package router sequences the question pipeline: follow-up resolution,
// intent classification, parameter extraction, deterministic SQL
// synthesis, and the LLM fallback, producing one RouterDecision per
// question.
package router

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/oreline/oreline-engine/pkg/apperrors"
	"github.com/oreline/oreline-engine/pkg/extract"
	"github.com/oreline/oreline-engine/pkg/followup"
	"github.com/oreline/oreline-engine/pkg/intent"
	"github.com/oreline/oreline-engine/pkg/llm"
	"github.com/oreline/oreline-engine/pkg/logging"
	"github.com/oreline/oreline-engine/pkg/models"
	sqlsafe "github.com/oreline/oreline-engine/pkg/sql"
	"github.com/oreline/oreline-engine/pkg/sqlbuild"
)

const defaultLLMTimeout = 30 * time.Second

// Router is the pipeline orchestrator. All components are pure except
// the context cache; Router is safe for concurrent use across users.
type Router struct {
	classifier *intent.Classifier
	detector   *followup.Detector
	cache      *followup.ContextCache
	dict       *sqlsafe.Dictionary
	llmClient  llm.Client // nil disables the fallback path
	llmTimeout time.Duration
	logger     *zap.Logger
}

// Config wires a Router.
type Config struct {
	Classifier *intent.Classifier
	Detector   *followup.Detector
	Cache      *followup.ContextCache
	Dictionary *sqlsafe.Dictionary
	LLMClient  llm.Client // optional
	LLMTimeout time.Duration
	Logger     *zap.Logger
}

// New builds a Router.
func New(cfg Config) *Router {
	timeout := cfg.LLMTimeout
	if timeout <= 0 {
		timeout = defaultLLMTimeout
	}
	return &Router{
		classifier: cfg.Classifier,
		detector:   cfg.Detector,
		cache:      cfg.Cache,
		dict:       cfg.Dictionary,
		llmClient:  cfg.LLMClient,
		llmTimeout: timeout,
		logger:     cfg.Logger.Named("router"),
	}
}

// Route turns one question into a RouterDecision. The flow is: consult
// the follow-up detector (inheriting and merging context when it fires),
// classify and extract otherwise, detect a query type, attempt template
// synthesis, and fall back to the LLM when no template applies. Whatever
// SQL is chosen passes through the normalization/validation/auto-fix
// chain before it can reach an executor.
func (r *Router) Route(ctx context.Context, userID, question string, history []models.TurnRecord) (*models.RouterDecision, error) {
	correlationID := uuid.NewString()
	log := r.logger.With(zap.String("correlation_id", correlationID))

	history = r.withCachedContext(userID, history)
	fu := r.detector.Detect(question, history)

	var intentName string
	var confidence float64
	var params map[string]any

	if fu.IsFollowUp {
		intentName = fu.PreviousIntent
		confidence = fu.Confidence
		delta := extract.Extract(question)
		for k, v := range followup.ExtractConstraints(question) {
			delta[k] = v
		}
		params = followup.Merge(fu.PreviousParameters, delta)
		log.Debug("follow-up inherited",
			zap.String("intent", intentName),
			zap.String("type", string(fu.FollowUpType)))
	} else {
		result := r.classifier.Classify(question)
		intentName = result.Intent
		confidence = result.Confidence
		params = extract.Extract(question)
	}

	task := r.classifier.TaskFor(intentName)
	decision := &models.RouterDecision{
		Task:          task,
		Confidence:    confidence,
		Intent:        intentName,
		Parameters:    params,
		RouteSource:   models.RouteDeterministic,
		CorrelationID: correlationID,
	}

	if task != models.TaskSQL {
		r.remember(userID, question, decision)
		return decision, nil
	}

	if built := sqlbuild.Build(intentName, params, question); built != nil {
		finished, err := r.finishSQL(built.SQL, correlationID, log, false)
		if err != nil {
			return nil, err
		}
		decision.SQLText = finished
		log.Info("deterministic synthesis",
			zap.String("intent", intentName),
			zap.String("query_type", string(built.QueryType)),
			zap.String("sql", logging.SanitizeQuery(finished)))
		r.remember(userID, question, decision)
		return decision, nil
	}

	// NoTemplateMatch: the explicit, expected deferral to the LLM.
	decision.RouteSource = models.RouteLLM
	if r.llmClient == nil {
		log.Info("no template and no LLM configured; returning hints only")
		r.remember(userID, question, decision)
		return decision, nil
	}

	generated, err := r.generateWithLLM(ctx, question, intentName, params)
	if err != nil {
		// Timeout or provider failure: fall back to the best decision
		// already computed rather than hang or crash.
		log.Warn("LLM fallback failed; returning deterministic hints",
			zap.String("error", logging.SanitizeError(err)))
		r.remember(userID, question, decision)
		return decision, nil
	}

	finished, err := r.finishSQL(generated, correlationID, log, true)
	if err != nil {
		return nil, err
	}
	decision.SQLText = finished
	log.Info("LLM synthesis",
		zap.String("intent", intentName),
		zap.String("sql", logging.SanitizeQuery(finished)))
	r.remember(userID, question, decision)
	return decision, nil
}

// finishSQL runs the safety chain: single-statement guard (SELECT-only
// for LLM text), table normalization, schema validation with bounded
// auto-fix, ambiguous-column qualification, and aggregate alias
// completion. Auto-fixed findings are logged, never surfaced; unfixable
// ones become a SchemaMismatchError carrying the correlation id.
func (r *Router) finishSQL(sqlText, correlationID string, log *zap.Logger, fromLLM bool) (string, error) {
	var err error
	if fromLLM {
		sqlText, err = sqlsafe.GuardLLMStatement(sqlText)
	} else {
		sqlText, err = sqlsafe.NormalizeStatement(sqlText)
	}
	if err != nil {
		return "", apperrors.Wrap(correlationID, err)
	}

	sqlText = r.dict.NormalizeTableReferences(sqlText)

	report := r.dict.ValidateColumns(sqlText)
	if report.InvalidTable != "" {
		return "", &apperrors.SchemaMismatchError{
			Identifier:    report.InvalidTable,
			CorrelationID: correlationID,
		}
	}
	if len(report.Corrections) > 0 {
		fix := r.dict.AutoFix(sqlText, report.Corrections)
		if fix.Fixed {
			sqlText = fix.SQL
			for _, ch := range fix.Changes {
				log.Info("auto-fixed column reference",
					zap.String("from", ch.From),
					zap.String("to", ch.To),
					zap.Int("count", ch.Count))
			}
		} else {
			// Context made substitution unsafe; warn and leave the
			// statement alone. Not a user-facing error.
			for wrong, right := range report.Corrections {
				log.Warn("auto-fix skipped in ambiguous context",
					zap.String("identifier", wrong),
					zap.String("suggestion", right))
			}
		}
	}
	if len(report.InvalidColumns) > 0 {
		ident := report.InvalidColumns[0]
		return "", &apperrors.SchemaMismatchError{
			Identifier:    ident,
			Table:         report.Table,
			Candidates:    report.Suggestions[ident],
			CorrelationID: correlationID,
		}
	}

	sqlText = r.dict.QualifyAmbiguousColumns(sqlText)
	sqlText = sqlsafe.CompleteAggregateAliases(sqlText)
	return sqlText, nil
}

func (r *Router) generateWithLLM(ctx context.Context, question, intentName string, params map[string]any) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.llmTimeout)
	defer cancel()
	return r.llmClient.GenerateSQL(ctx, question, renderHints(intentName, params))
}

// withCachedContext synthesizes a one-turn history from the context
// cache when the transport supplied none. An expired or missing entry is
// the same as no prior context.
func (r *Router) withCachedContext(userID string, history []models.TurnRecord) []models.TurnRecord {
	if len(history) > 0 || userID == "" {
		return history
	}
	qc, ok := r.cache.Get(userID)
	if !ok {
		return history
	}
	return []models.TurnRecord{{
		Question:   qc.LastQuestion,
		Answer:     qc.LastAnswer,
		Intent:     qc.LastIntent,
		Parameters: qc.LastParameters,
	}}
}

// remember writes the completed turn back to the context cache. The
// orchestrator is the only writer; core components never touch it.
func (r *Router) remember(userID, question string, decision *models.RouterDecision) {
	if userID == "" {
		return
	}
	r.cache.Set(models.QuickContext{
		UserID:         userID,
		LastIntent:     decision.Intent,
		LastQuestion:   question,
		LastParameters: decision.Parameters,
		RouteTaken:     decision.Task,
		Timestamp:      time.Now(),
	})
}

// renderHints flattens the intent and parameters into a deterministic
// hint string for the LLM prompt.
func renderHints(intentName string, params map[string]any) string {
	parts := []string{"intent=" + intentName}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, params[k]))
	}
	return strings.Join(parts, "; ")
}
