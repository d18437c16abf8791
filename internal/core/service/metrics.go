package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/rl1809/sam-reclaim/internal/core/domain"
)

const (
	resultApplied   = "applied"
	resultNoop      = "noop"
	resultDuplicate = "duplicate"
	resultError     = "error"
)

var (
	commandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sam_reclamation_commands_total",
		Help: "Reclamation commands by kind and result",
	}, []string{"command", "result"})

	candidatesByStatus = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "sam_reclamation_candidates",
		Help: "Reclamation candidates in the current session by status",
	}, []string{"status"})

	reclaimedAnnualSavings = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sam_reclamation_reclaimed_annual_savings",
		Help: "Annualized cost of reclaimed licenses in the current session",
	})
)

func observeEngine(e *Engine) {
	counts := e.StatusCounts()
	for _, s := range domain.Statuses {
		candidatesByStatus.WithLabelValues(string(s)).Set(float64(counts.Of(s)))
	}
	savings, _ := e.ReclaimedAnnualSavings().Float64()
	reclaimedAnnualSavings.Set(savings)
}
