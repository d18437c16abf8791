package storage

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/sam-reclaim/internal/core/domain"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *RedisAdapter) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, NewRedisAdapter(client, time.Minute, time.Hour)
}

func TestSetIdempotency_Success(t *testing.T) {
	_, adapter := newTestRedis(t)
	ctx := context.Background()

	ok, err := adapter.SetIdempotency(ctx, "req-1")
	require.NoError(t, err)
	assert.True(t, ok, "first call should succeed")

	ok, err = adapter.SetIdempotency(ctx, "req-1")
	require.NoError(t, err)
	assert.False(t, ok, "second call should report the key exists")
}

func TestSetIdempotency_Expires(t *testing.T) {
	mr, adapter := newTestRedis(t)
	ctx := context.Background()

	ok, err := adapter.SetIdempotency(ctx, "req-ttl")
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(2 * time.Hour)

	ok, err = adapter.SetIdempotency(ctx, "req-ttl")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSetIdempotency_Concurrent(t *testing.T) {
	_, adapter := newTestRedis(t)
	ctx := context.Background()

	var successCount atomic.Int32
	var wg sync.WaitGroup
	concurrency := 50

	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := adapter.SetIdempotency(ctx, "concurrent-idem-key")
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if ok {
				successCount.Add(1)
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, int32(1), successCount.Load())
}

func TestSoftwareCache_RoundTrip(t *testing.T) {
	mr, adapter := newTestRedis(t)
	ctx := context.Background()

	_, found, err := adapter.GetSoftware(ctx, "sw-007")
	require.NoError(t, err)
	assert.False(t, found)

	title := &domain.SoftwareTitle{ID: "sw-007", Name: "Tableau Desktop", CostPerLicense: decimal.NewFromInt(70)}
	require.NoError(t, adapter.SetSoftware(ctx, "sw-007", title))

	got, found, err := adapter.GetSoftware(ctx, "sw-007")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Tableau Desktop", got.Name)
	assert.True(t, got.CostPerLicense.Equal(decimal.NewFromInt(70)))

	assert.Equal(t, time.Minute, mr.TTL(softwareKeyPrefix+"sw-007"))
}

func TestSoftwareCache_Absent(t *testing.T) {
	_, adapter := newTestRedis(t)
	ctx := context.Background()

	require.NoError(t, adapter.SetSoftware(ctx, "sw-404", nil))

	got, found, err := adapter.GetSoftware(ctx, "sw-404")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Nil(t, got)
}

func TestSoftwareCache_Corrupt(t *testing.T) {
	mr, adapter := newTestRedis(t)
	require.NoError(t, mr.Set(softwareKeyPrefix+"sw-bad", "{not json"))

	_, _, err := adapter.GetSoftware(context.Background(), "sw-bad")
	assert.Error(t, err)
}
