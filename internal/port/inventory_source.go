package port

import (
	"context"

	"github.com/rl1809/sam-reclaim/internal/core/domain"
)

// InventorySource is the read-only catalog of titles and usage.
type InventorySource interface {
	// ListUsageRecords returns every usage record in catalog order
	ListUsageRecords(ctx context.Context) ([]domain.UsageRecord, error)

	// FindSoftwareByID returns nil without error when the title is absent
	FindSoftwareByID(ctx context.Context, id string) (*domain.SoftwareTitle, error)

	// ListSoftware returns every software title
	ListSoftware(ctx context.Context) ([]domain.SoftwareTitle, error)
}
