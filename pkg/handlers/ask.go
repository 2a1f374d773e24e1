package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/oreline/oreline-engine/pkg/apperrors"
	"github.com/oreline/oreline-engine/pkg/database"
	"github.com/oreline/oreline-engine/pkg/followup"
	"github.com/oreline/oreline-engine/pkg/models"
	"github.com/oreline/oreline-engine/pkg/router"
)

// AskRequest is the POST body for a routed question. History is the
// caller's view of the conversation; the engine merges it with its own
// per-user cached context.
type AskRequest struct {
	UserID   string              `json:"user_id"`
	Question string              `json:"question"`
	History  []models.TurnRecord `json:"history,omitempty"`
	Execute  bool                `json:"execute,omitempty"`
}

// AskResponse carries the routing decision and, when execution was
// requested and a database is configured, the query result.
type AskResponse struct {
	Decision *models.RouterDecision `json:"decision"`
	Result   *database.QueryResult  `json:"result,omitempty"`
}

// AskHandler handles question routing requests.
type AskHandler struct {
	router *router.Router
	cache  *followup.ContextCache
	db     *database.DB // nil when no operations database is configured
	logger *zap.Logger
}

// NewAskHandler creates a new AskHandler. db may be nil; execution
// requests are then rejected while routing still works.
func NewAskHandler(r *router.Router, cache *followup.ContextCache, db *database.DB, logger *zap.Logger) *AskHandler {
	return &AskHandler{router: r, cache: cache, db: db, logger: logger}
}

// RegisterRoutes registers the ask handler's routes on the given mux.
func (h *AskHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/ask", h.Ask)
	mux.HandleFunc("DELETE /v1/context/{uid}", h.ClearContext)
}

// Ask handles POST /v1/ask.
func (h *AskHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if req.Question == "" {
		if err := ErrorResponse(w, http.StatusBadRequest, "missing_question", "Question is required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if req.UserID == "" {
		req.UserID = "anonymous"
	}

	decision, err := h.router.Route(r.Context(), req.UserID, req.Question, req.History)
	if err != nil {
		h.writeRouteError(w, req.UserID, err)
		return
	}

	data := AskResponse{Decision: decision}

	if req.Execute && decision.Task == models.TaskSQL && decision.SQLText != "" {
		if h.db == nil {
			if err := ErrorResponse(w, http.StatusServiceUnavailable, "no_database", "No operations database is configured"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		result, err := h.db.ExecuteSelect(r.Context(), decision.SQLText, decision.Parameters)
		if err != nil {
			h.logger.Error("Query execution failed",
				zap.String("correlation_id", decision.CorrelationID),
				zap.Error(err))
			if err := ErrorResponse(w, http.StatusBadGateway, "execution_failed", "Query execution failed"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		data.Result = result
	}

	response := ApiResponse{Success: true, Data: data}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ClearContext handles DELETE /v1/context/{uid}. Dropping a user's cached
// turn makes the next question stand alone regardless of phrasing.
func (h *AskHandler) ClearContext(w http.ResponseWriter, r *http.Request) {
	uid := r.PathValue("uid")
	if uid == "" {
		if err := ErrorResponse(w, http.StatusBadRequest, "missing_user", "User id is required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	h.cache.Clear(uid)
	response := ApiResponse{Success: true, Data: map[string]string{"user_id": uid}}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

func (h *AskHandler) writeRouteError(w http.ResponseWriter, userID string, err error) {
	var mismatch *apperrors.SchemaMismatchError
	switch {
	case errors.As(err, &mismatch):
		h.logger.Warn("Schema mismatch",
			zap.String("user_id", userID),
			zap.String("identifier", mismatch.Identifier),
			zap.String("correlation_id", mismatch.CorrelationID))
		if err := ErrorResponse(w, http.StatusUnprocessableEntity, "schema_mismatch", mismatch.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
	case errors.Is(err, apperrors.ErrInjectionDetected):
		h.logger.Warn("Injection attempt rejected", zap.String("user_id", userID))
		if err := ErrorResponse(w, http.StatusBadRequest, "injection_detected", "Parameter value rejected"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
	default:
		h.logger.Error("Routing failed", zap.String("user_id", userID), zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "routing_failed", "Failed to route question"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
	}
}
