package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestLoggerEmitsOneEntry(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)

	RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/v1/ask", nil))

	if logs.Len() != 1 {
		t.Fatalf("expected 1 log entry, got %d", logs.Len())
	}
	entry := logs.All()[0]
	if entry.Message != "HTTP request" {
		t.Errorf("message = %q, want %q", entry.Message, "HTTP request")
	}
	fields := entry.ContextMap()
	if fields["method"] != http.MethodPost || fields["path"] != "/v1/ask" {
		t.Errorf("unexpected request fields: %v", fields)
	}
}

func TestRequestLoggerNilLoggerPassesThrough(t *testing.T) {
	called := false
	rec := httptest.NewRecorder()
	RequestLogger(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusNoContent)
	})).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if !called {
		t.Fatal("wrapped handler was not called")
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
}

func TestRequestLoggerRecordsFirstStatus(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)

	// A handler that writes headers twice; the second call must be
	// dropped and the first status is what gets logged.
	RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.WriteHeader(http.StatusInternalServerError)
	})).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/schema", nil))

	if got := logs.All()[0].ContextMap()["status"]; got != int64(http.StatusUnprocessableEntity) {
		t.Errorf("logged status = %v, want %d", got, http.StatusUnprocessableEntity)
	}
}

func TestResponseWriterStatusCapture(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: rec, statusCode: http.StatusOK}

	rw.WriteHeader(http.StatusCreated)
	rw.WriteHeader(http.StatusInternalServerError) // ignored
	if rw.statusCode != http.StatusCreated || rec.Code != http.StatusCreated {
		t.Errorf("statusCode = %d, recorded = %d, want both %d", rw.statusCode, rec.Code, http.StatusCreated)
	}
}

func TestResponseWriterImplicitHeader(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: rec, statusCode: http.StatusOK}

	if _, err := rw.Write([]byte(`{"success":true}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rw.headerWritten {
		t.Error("Write should mark the header as written")
	}
	if rw.statusCode != http.StatusOK {
		t.Errorf("implicit status = %d, want %d", rw.statusCode, http.StatusOK)
	}
}
