package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rl1809/sam-reclaim/internal/core/domain"
	"github.com/rl1809/sam-reclaim/internal/port"
)

const (
	DefaultInactivityThresholdDays = 60
	unknownSoftwareName            = "Unknown"
)

// BuildCandidates derives one pending candidate per usage record inactive
// for at least thresholdDays, in inventory order. A record whose title is
// missing from the inventory still yields a candidate, named "Unknown" and
// costing nothing.
func BuildCandidates(ctx context.Context, inventory port.InventorySource, thresholdDays int) ([]domain.Candidate, error) {
	records, err := inventory.ListUsageRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("list usage records: %w", err)
	}

	titles := make(map[string]*domain.SoftwareTitle)
	candidates := make([]domain.Candidate, 0, len(records))

	for _, r := range records {
		if r.DaysInactive < thresholdDays {
			continue
		}

		title, seen := titles[r.SoftwareID]
		if !seen {
			title, err = inventory.FindSoftwareByID(ctx, r.SoftwareID)
			if err != nil {
				return nil, fmt.Errorf("find software %s: %w", r.SoftwareID, err)
			}
			titles[r.SoftwareID] = title
		}

		name, cost := unknownSoftwareName, decimal.Zero
		if title != nil {
			name, cost = title.Name, title.CostPerLicense
		}

		candidates = append(candidates, domain.Candidate{
			UserID:       r.UserID,
			UserName:     r.UserName,
			Department:   r.Department,
			SoftwareID:   r.SoftwareID,
			SoftwareName: name,
			DaysInactive: r.DaysInactive,
			LastAccess:   r.LastAccess,
			MonthlyCost:  cost,
			DeviceName:   r.DeviceName,
			Status:       domain.StatusPending,
		})
	}

	return candidates, nil
}
