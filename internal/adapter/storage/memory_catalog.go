package storage

import (
	"context"
	"slices"

	"github.com/rl1809/sam-reclaim/internal/core/domain"
)

// MemoryCatalog serves a fixed inventory held in memory.
type MemoryCatalog struct {
	software []domain.SoftwareTitle
	usage    []domain.UsageRecord
}

func NewMemoryCatalog(software []domain.SoftwareTitle, usage []domain.UsageRecord) *MemoryCatalog {
	return &MemoryCatalog{
		software: slices.Clone(software),
		usage:    slices.Clone(usage),
	}
}

func (m *MemoryCatalog) ListUsageRecords(ctx context.Context) ([]domain.UsageRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return slices.Clone(m.usage), nil
}

func (m *MemoryCatalog) FindSoftwareByID(ctx context.Context, id string) (*domain.SoftwareTitle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, s := range m.software {
		if s.ID == id {
			title := s
			return &title, nil
		}
	}
	return nil, nil
}

func (m *MemoryCatalog) ListSoftware(ctx context.Context) ([]domain.SoftwareTitle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return slices.Clone(m.software), nil
}
