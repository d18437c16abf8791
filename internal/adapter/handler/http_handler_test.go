package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/sam-reclaim/internal/adapter/storage"
	"github.com/rl1809/sam-reclaim/internal/core/service"
)

func startReclamation(t *testing.T) *service.ReclamationService {
	t.Helper()
	svc, err := service.NewReclamationService(context.Background(), storage.FixtureCatalog(), service.Options{
		ThresholdDays: service.DefaultInactivityThresholdDays,
		Idempotency:   storage.NewMemoryIdempotency(time.Hour),
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		svc.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return svc
}

func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()
	mux := http.NewServeMux()
	NewHTTPHandler(startReclamation(t), service.DefaultInactivityThresholdDays, nil).Register(mux)
	return mux
}

func do(t *testing.T, mux *http.ServeMux, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeSnapshot(t *testing.T, rec *httptest.ResponseRecorder) service.Snapshot {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var snap service.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	return snap
}

func TestHTTPHandler_HealthCheck(t *testing.T) {
	mux := newTestMux(t)

	rec := do(t, mux, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestHTTPHandler_Snapshot(t *testing.T) {
	mux := newTestMux(t)

	snap := decodeSnapshot(t, do(t, mux, http.MethodGet, "/api/reclamation", nil))
	assert.Len(t, snap.Candidates, 15)
	assert.Equal(t, 60, snap.ThresholdDays)
	assert.Equal(t, "application/json", do(t, mux, http.MethodGet, "/api/reclamation", nil).Header().Get("Content-Type"))

	rec := do(t, mux, http.MethodGet, "/api/reclamation", nil)
	assert.Contains(t, rec.Body.String(), `"severity":"critical"`)

	rec = do(t, mux, http.MethodPost, "/api/reclamation", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHTTPHandler_ExecuteCommands(t *testing.T) {
	mux := newTestMux(t)

	do(t, mux, http.MethodPost, "/api/reclamation/commands", CommandRequest{Command: "toggle_select", UserID: "u-004"})
	snap := decodeSnapshot(t, do(t, mux, http.MethodPost, "/api/reclamation/commands", CommandRequest{Command: "reclaim_selected"}))

	assert.Equal(t, 1, snap.Metrics.StatusCounts.Reclaimed)
	assert.Equal(t, "432", snap.Metrics.ReclaimedAnnualSavings.String())
	assert.Empty(t, snap.Selection)
}

func TestHTTPHandler_ExecuteErrors(t *testing.T) {
	mux := newTestMux(t)

	tests := []struct {
		name   string
		method string
		body   any
		want   int
	}{
		{"wrong method", http.MethodGet, nil, http.StatusMethodNotAllowed},
		{"malformed body", http.MethodPost, "not an object", http.StatusBadRequest},
		{"unknown command", http.MethodPost, CommandRequest{Command: "archive"}, http.StatusBadRequest},
		{"missing user", http.MethodPost, CommandRequest{Command: "notify"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, mux, tt.method, "/api/reclamation/commands", tt.body)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestHTTPHandler_DuplicateRequest(t *testing.T) {
	mux := newTestMux(t)
	req := CommandRequest{RequestID: "req-42", Command: "toggle_select", UserID: "u-005"}

	decodeSnapshot(t, do(t, mux, http.MethodPost, "/api/reclamation/commands", req))

	rec := do(t, mux, http.MethodPost, "/api/reclamation/commands", req)
	assert.Equal(t, http.StatusConflict, rec.Code)

	var body ErrorHTTPResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "duplicate request", body.Message)
}

func TestHTTPHandler_Reset(t *testing.T) {
	mux := newTestMux(t)

	days := 90
	snap := decodeSnapshot(t, do(t, mux, http.MethodPost, "/api/reclamation/reset", ResetRequest{ThresholdDays: &days}))
	assert.Equal(t, 90, snap.ThresholdDays)
	assert.Len(t, snap.Candidates, 7)

	// empty body falls back to the configured threshold
	snap = decodeSnapshot(t, do(t, mux, http.MethodPost, "/api/reclamation/reset", nil))
	assert.Equal(t, 60, snap.ThresholdDays)
	assert.Len(t, snap.Candidates, 15)

	negative := -1
	rec := do(t, mux, http.MethodPost, "/api/reclamation/reset", ResetRequest{ThresholdDays: &negative})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHTTPStatusFor(t *testing.T) {
	code, _ := httpStatusFor(service.ErrServiceClosed)
	assert.Equal(t, http.StatusServiceUnavailable, code)

	code, msg := httpStatusFor(assert.AnError)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "internal error", msg)
}
