package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/rl1809/sam-reclaim/internal/core/service"
)

type HTTPHandler struct {
	reclamation      *service.ReclamationService
	defaultThreshold int
	logger           *slog.Logger
}

type ErrorHTTPResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func NewHTTPHandler(reclamation *service.ReclamationService, defaultThreshold int, logger *slog.Logger) *HTTPHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPHandler{
		reclamation:      reclamation,
		defaultThreshold: defaultThreshold,
		logger:           logger,
	}
}

// Register mounts the reclamation routes on mux.
func (h *HTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/health", h.HealthCheck)
	mux.HandleFunc("/api/reclamation", h.Snapshot)
	mux.HandleFunc("/api/reclamation/commands", h.Execute)
	mux.HandleFunc("/api/reclamation/reset", h.Reset)
}

func (h *HTTPHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snap, err := h.reclamation.Snapshot(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *HTTPHandler) Execute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req CommandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorHTTPResponse{
			Success: false,
			Message: "invalid request body",
		})
		return
	}

	snap, err := h.reclamation.Execute(r.Context(), req.toCommand())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *HTTPHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// An empty body resets with the configured threshold.
	var req ResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, ErrorHTTPResponse{
			Success: false,
			Message: "invalid request body",
		})
		return
	}

	snap, err := h.reclamation.Reset(r.Context(), req.threshold(h.defaultThreshold))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := httpStatusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("reclamation request failed", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, ErrorHTTPResponse{
		Success: false,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
