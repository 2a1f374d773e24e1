package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	enginesql "github.com/oreline/oreline-engine/pkg/sql"
)

func TestSchemaHandler_Get(t *testing.T) {
	handler := NewSchemaHandler(enginesql.DefaultDictionary(), zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/v1/schema", nil)
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var envelope struct {
		Success bool           `json:"success"`
		Data    SchemaResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(envelope.Data.Tables) != 3 {
		t.Fatalf("tables = %d, want 3", len(envelope.Data.Tables))
	}
	// Sorted by name: equipment_master first.
	if envelope.Data.Tables[0].Name != "equipment_master" {
		t.Errorf("first table = %s", envelope.Data.Tables[0].Name)
	}
	if len(envelope.Data.Tables[0].Columns) == 0 {
		t.Error("no columns listed")
	}
}
