package domain

import (
	"math"

	"github.com/shopspring/decimal"
)

const monthsPerYear = 12

var twelve = decimal.NewFromInt(monthsPerYear)

// StatusCounts holds a count for every status; absent statuses stay zero.
type StatusCounts struct {
	Pending   int `json:"pending"`
	Notified  int `json:"notified"`
	Reclaimed int `json:"reclaimed"`
	Retained  int `json:"retained"`
}

func (sc *StatusCounts) add(s Status) {
	switch s {
	case StatusPending:
		sc.Pending++
	case StatusNotified:
		sc.Notified++
	case StatusReclaimed:
		sc.Reclaimed++
	case StatusRetained:
		sc.Retained++
	}
}

func (sc StatusCounts) Of(s Status) int {
	switch s {
	case StatusPending:
		return sc.Pending
	case StatusNotified:
		return sc.Notified
	case StatusReclaimed:
		return sc.Reclaimed
	case StatusRetained:
		return sc.Retained
	}
	return 0
}

func (sc StatusCounts) Total() int {
	return sc.Pending + sc.Notified + sc.Reclaimed + sc.Retained
}

func CountStatuses(candidates []Candidate) StatusCounts {
	var sc StatusCounts
	for _, c := range candidates {
		sc.add(c.Status)
	}
	return sc
}

// SoftwareGroup is the derived per-title view of a candidate subset.
type SoftwareGroup struct {
	SoftwareID          string          `json:"software_id"`
	SoftwareName        string          `json:"software_name"`
	Candidates          []Candidate     `json:"candidates"`
	TotalMonthlyCost    decimal.Decimal `json:"total_monthly_cost"`
	AnnualSavings       decimal.Decimal `json:"annual_savings"`
	StatusCounts        StatusCounts    `json:"status_counts"`
	AverageDaysInactive int             `json:"average_days_inactive"`
	ReclamationProgress float64         `json:"reclamation_progress"`
}

// GroupBySoftware partitions candidates by software id. Groups are
// returned in order of first appearance.
func GroupBySoftware(candidates []Candidate) []SoftwareGroup {
	groups := make([]SoftwareGroup, 0)
	index := make(map[string]int)
	daysTotal := make(map[string]int)

	for _, c := range candidates {
		i, ok := index[c.SoftwareID]
		if !ok {
			i = len(groups)
			index[c.SoftwareID] = i
			groups = append(groups, SoftwareGroup{
				SoftwareID:       c.SoftwareID,
				SoftwareName:     c.SoftwareName,
				TotalMonthlyCost: decimal.Zero,
			})
		}
		g := &groups[i]
		g.Candidates = append(g.Candidates, c)
		g.TotalMonthlyCost = g.TotalMonthlyCost.Add(c.MonthlyCost)
		g.StatusCounts.add(c.Status)
		daysTotal[c.SoftwareID] += c.DaysInactive
	}

	for i := range groups {
		g := &groups[i]
		n := len(g.Candidates)
		g.AnnualSavings = g.TotalMonthlyCost.Mul(twelve)
		g.AverageDaysInactive = int(math.Round(float64(daysTotal[g.SoftwareID]) / float64(n)))
		g.ReclamationProgress = float64(g.StatusCounts.Reclaimed) / float64(n)
	}
	return groups
}

// FindGroup returns the group for softwareID, if any.
func FindGroup(groups []SoftwareGroup, softwareID string) (SoftwareGroup, bool) {
	for _, g := range groups {
		if g.SoftwareID == softwareID {
			return g, true
		}
	}
	return SoftwareGroup{}, false
}

// ReclaimedAnnualSavings sums twelve months of cost over reclaimed candidates.
func ReclaimedAnnualSavings(candidates []Candidate) decimal.Decimal {
	sum := decimal.Zero
	for _, c := range candidates {
		if c.Status == StatusReclaimed {
			sum = sum.Add(c.MonthlyCost)
		}
	}
	return sum.Mul(twelve)
}

// AnnualSavingsGoal annualizes the monthly cost of every candidate,
// regardless of status.
func AnnualSavingsGoal(candidates []Candidate) decimal.Decimal {
	sum := decimal.Zero
	for _, c := range candidates {
		sum = sum.Add(c.MonthlyCost)
	}
	return sum.Mul(twelve)
}

// ProgressFraction is reclaimed/goal, or 0 when goal is not positive.
func ProgressFraction(reclaimed, goal decimal.Decimal) float64 {
	if !goal.IsPositive() {
		return 0
	}
	f, _ := reclaimed.Div(goal).Float64()
	return f
}
