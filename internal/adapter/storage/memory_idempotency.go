package storage

import (
	"context"
	"sync"
	"time"
)

// MemoryIdempotency is the in-process idempotency store used when Redis
// is not configured.
type MemoryIdempotency struct {
	mu   sync.Mutex
	ttl  time.Duration
	now  func() time.Time
	keys map[string]time.Time
}

func NewMemoryIdempotency(ttl time.Duration) *MemoryIdempotency {
	return &MemoryIdempotency{
		ttl:  ttl,
		now:  time.Now,
		keys: make(map[string]time.Time),
	}
}

func (m *MemoryIdempotency) SetIdempotency(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for k, expires := range m.keys {
		if !now.Before(expires) {
			delete(m.keys, k)
		}
	}

	if _, ok := m.keys[key]; ok {
		return false, nil
	}
	m.keys[key] = now.Add(m.ttl)
	return true, nil
}
