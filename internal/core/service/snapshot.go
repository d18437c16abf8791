package service

import (
	"github.com/shopspring/decimal"

	"github.com/rl1809/sam-reclaim/internal/core/domain"
)

type Metrics struct {
	StatusCounts           domain.StatusCounts `json:"status_counts"`
	ReclaimedAnnualSavings decimal.Decimal     `json:"reclaimed_annual_savings"`
	AnnualSavingsGoal      decimal.Decimal     `json:"annual_savings_goal"`
	RemainingAnnualSavings decimal.Decimal     `json:"remaining_annual_savings"`
	ProgressFraction       float64             `json:"progress_fraction"`
	ProgressPercent        int                 `json:"progress_percent"`
}

// Snapshot is a read-only copy of the session state after a command.
type Snapshot struct {
	SessionID     string                 `json:"session_id"`
	Revision      uint64                 `json:"revision"`
	ThresholdDays int                    `json:"threshold_days"`
	Filter        domain.StatusFilter    `json:"filter"`
	View          ViewContext            `json:"view"`
	Candidates    []domain.Candidate     `json:"candidates"`
	Visible       []domain.Candidate     `json:"visible"`
	Selection     []string               `json:"selection"`
	Groups        []domain.SoftwareGroup `json:"groups"`
	ActiveGroup   *domain.SoftwareGroup  `json:"active_group,omitempty"`
	Metrics       Metrics                `json:"metrics"`
}

func (e *Engine) Metrics() Metrics {
	return Metrics{
		StatusCounts:           e.StatusCounts(),
		ReclaimedAnnualSavings: e.ReclaimedAnnualSavings(),
		AnnualSavingsGoal:      e.AnnualSavingsGoal(),
		RemainingAnnualSavings: e.RemainingAnnualSavings(),
		ProgressFraction:       e.ProgressFraction(),
		ProgressPercent:        e.ProgressPercent(),
	}
}

func (e *Engine) Snapshot(sessionID string, thresholdDays int) Snapshot {
	snap := Snapshot{
		SessionID:     sessionID,
		Revision:      e.Revision(),
		ThresholdDays: thresholdDays,
		Filter:        e.Filter(),
		View:          e.View(),
		Candidates:    e.Candidates(),
		Visible:       e.Visible(),
		Selection:     e.Selection(),
		Groups:        e.Groups(),
		Metrics:       e.Metrics(),
	}
	if g, ok := e.ActiveGroup(); ok {
		snap.ActiveGroup = &g
	}
	return snap
}
