package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rl1809/sam-reclaim/internal/core/domain"
)

const (
	softwareKeyPrefix    = "software:"
	idempotencyKeyPrefix = "idempotency:"
	absentMarker         = "-"
)

type RedisAdapter struct {
	client         *redis.Client
	softwareTTL    time.Duration
	idempotencyTTL time.Duration
}

func NewRedisAdapter(client *redis.Client, softwareTTL, idempotencyTTL time.Duration) *RedisAdapter {
	return &RedisAdapter{
		client:         client,
		softwareTTL:    softwareTTL,
		idempotencyTTL: idempotencyTTL,
	}
}

func (r *RedisAdapter) SetIdempotency(ctx context.Context, key string) (bool, error) {
	ok, err := r.client.SetNX(ctx, idempotencyKeyPrefix+key, 1, r.idempotencyTTL).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

func (r *RedisAdapter) GetSoftware(ctx context.Context, id string) (*domain.SoftwareTitle, bool, error) {
	raw, err := r.client.Get(ctx, softwareKeyPrefix+id).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if raw == absentMarker {
		return nil, true, nil
	}

	var title domain.SoftwareTitle
	if err := json.Unmarshal([]byte(raw), &title); err != nil {
		return nil, false, fmt.Errorf("decode cached software %s: %w", id, err)
	}
	return &title, true, nil
}

func (r *RedisAdapter) SetSoftware(ctx context.Context, id string, title *domain.SoftwareTitle) error {
	value := absentMarker
	if title != nil {
		b, err := json.Marshal(title)
		if err != nil {
			return fmt.Errorf("encode software %s: %w", id, err)
		}
		value = string(b)
	}
	return r.client.Set(ctx, softwareKeyPrefix+id, value, r.softwareTTL).Err()
}
