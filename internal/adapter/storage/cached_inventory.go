package storage

import (
	"context"
	"log/slog"

	"github.com/rl1809/sam-reclaim/internal/core/domain"
	"github.com/rl1809/sam-reclaim/internal/port"
)

// CachedInventory puts a read-through software cache in front of an
// inventory source. Cache failures degrade to the source.
type CachedInventory struct {
	source port.InventorySource
	cache  port.SoftwareCache
	logger *slog.Logger
}

func NewCachedInventory(source port.InventorySource, cache port.SoftwareCache, logger *slog.Logger) *CachedInventory {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedInventory{source: source, cache: cache, logger: logger}
}

func (c *CachedInventory) ListUsageRecords(ctx context.Context) ([]domain.UsageRecord, error) {
	return c.source.ListUsageRecords(ctx)
}

func (c *CachedInventory) ListSoftware(ctx context.Context) ([]domain.SoftwareTitle, error) {
	return c.source.ListSoftware(ctx)
}

func (c *CachedInventory) FindSoftwareByID(ctx context.Context, id string) (*domain.SoftwareTitle, error) {
	title, found, err := c.cache.GetSoftware(ctx, id)
	if err != nil {
		c.logger.Warn("software cache read failed", "software_id", id, "error", err)
	} else if found {
		return title, nil
	}

	title, err = c.source.FindSoftwareByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := c.cache.SetSoftware(ctx, id, title); err != nil {
		c.logger.Warn("software cache write failed", "software_id", id, "error", err)
	}
	return title, nil
}
