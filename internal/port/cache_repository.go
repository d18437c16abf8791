package port

import (
	"context"

	"github.com/rl1809/sam-reclaim/internal/core/domain"
)

type IdempotencyStore interface {
	// SetIdempotency sets a key for idempotency check, returns false if already exists
	SetIdempotency(ctx context.Context, key string) (bool, error)
}

type SoftwareCache interface {
	// GetSoftware reports found=false on a cache miss. A cached absence is
	// found=true with a nil title.
	GetSoftware(ctx context.Context, id string) (title *domain.SoftwareTitle, found bool, err error)

	// SetSoftware caches a title, or its absence when title is nil
	SetSoftware(ctx context.Context, id string, title *domain.SoftwareTitle) error
}
