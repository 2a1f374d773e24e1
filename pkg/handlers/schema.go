package handlers

import (
	"net/http"

	"go.uber.org/zap"

	enginesql "github.com/oreline/oreline-engine/pkg/sql"
)

// TableSchema describes one table visible to the validator.
type TableSchema struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
}

// SchemaResponse lists the schema the engine validates against.
type SchemaResponse struct {
	Tables []TableSchema `json:"tables"`
}

// SchemaHandler exposes the active schema dictionary, mainly so operators
// can confirm what a live introspection or an overrides file produced.
type SchemaHandler struct {
	dict   *enginesql.Dictionary
	logger *zap.Logger
}

// NewSchemaHandler creates a new SchemaHandler.
func NewSchemaHandler(dict *enginesql.Dictionary, logger *zap.Logger) *SchemaHandler {
	return &SchemaHandler{dict: dict, logger: logger}
}

// RegisterRoutes registers the schema handler's routes on the given mux.
func (h *SchemaHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /v1/schema", h.Get)
}

// Get handles GET /v1/schema.
func (h *SchemaHandler) Get(w http.ResponseWriter, r *http.Request) {
	names := h.dict.Tables()
	data := SchemaResponse{Tables: make([]TableSchema, len(names))}
	for i, name := range names {
		data.Tables[i] = TableSchema{Name: name, Columns: h.dict.Columns(name)}
	}

	response := ApiResponse{Success: true, Data: data}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
