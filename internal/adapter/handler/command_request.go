package handler

import (
	"errors"
	"net/http"

	"github.com/rl1809/sam-reclaim/internal/core/service"
)

// CommandRequest is the wire form of a reclamation command, shared by the
// HTTP and gRPC transports.
type CommandRequest struct {
	RequestID  string `json:"request_id"`
	Command    string `json:"command"`
	UserID     string `json:"user_id"`
	SoftwareID string `json:"software_id"`
	Status     string `json:"status"`
}

func (r CommandRequest) toCommand() service.Command {
	return service.Command{
		Kind:       service.CommandKind(r.Command),
		RequestID:  r.RequestID,
		UserID:     r.UserID,
		SoftwareID: r.SoftwareID,
		Status:     r.Status,
	}
}

type ResetRequest struct {
	ThresholdDays *int `json:"threshold_days"`
}

func (r ResetRequest) threshold(fallback int) int {
	if r.ThresholdDays == nil {
		return fallback
	}
	return *r.ThresholdDays
}

func httpStatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrInvalidCommand):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrDuplicateRequest):
		return http.StatusConflict, "duplicate request"
	case errors.Is(err, service.ErrServiceClosed):
		return http.StatusServiceUnavailable, "service unavailable"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}
