package storage_test

import (
	"context"
	"database/sql"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/sam-reclaim/internal/adapter/storage"
	"github.com/rl1809/sam-reclaim/internal/core/service"
)

type testEnv struct {
	redis *redis.Client
	mysql *sql.DB
	cache *storage.RedisAdapter
	db    *storage.MySQLAdapter
}

// setupTestEnv connects to the databases named by SAM_TEST_MYSQL_DSN and
// SAM_TEST_REDIS_ADDR. The MySQL tables are dropped and reseeded with the
// fixture inventory.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	mysqlDSN := os.Getenv("SAM_TEST_MYSQL_DSN")
	redisAddr := os.Getenv("SAM_TEST_REDIS_ADDR")
	if mysqlDSN == "" || redisAddr == "" {
		t.Skip("SAM_TEST_MYSQL_DSN and SAM_TEST_REDIS_ADDR must be set")
	}
	ctx := context.Background()

	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	t.Cleanup(func() { rdb.Close() })

	db, err := sql.Open("mysql", mysqlDSN)
	require.NoError(t, err)
	if err := db.PingContext(ctx); err != nil {
		t.Skipf("MySQL not available: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	seedFixture(t, db)

	return &testEnv{
		redis: rdb,
		mysql: db,
		cache: storage.NewRedisAdapter(rdb, time.Minute, time.Minute),
		db:    storage.NewMySQLAdapter(db),
	}
}

func seedFixture(t *testing.T, db *sql.DB) {
	t.Helper()
	ctx := context.Background()

	for _, stmt := range []string{"DROP TABLE IF EXISTS usage_records", "DROP TABLE IF EXISTS software_titles"} {
		_, err := db.ExecContext(ctx, stmt)
		require.NoError(t, err)
	}
	for _, stmt := range strings.Split(storage.Schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		_, err := db.ExecContext(ctx, stmt)
		require.NoError(t, err)
	}

	fixture := storage.FixtureCatalog()
	titles, err := fixture.ListSoftware(ctx)
	require.NoError(t, err)
	for _, s := range titles {
		_, err := db.ExecContext(ctx, `
			INSERT INTO software_titles (id, name, vendor, version, category, cost_per_license, license_type)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			s.ID, s.Name, s.Vendor, s.Version, s.Category, s.CostPerLicense.String(), string(s.LicenseType))
		require.NoError(t, err)
	}

	records, err := fixture.ListUsageRecords(ctx)
	require.NoError(t, err)
	for _, r := range records {
		_, err := db.ExecContext(ctx, `
			INSERT INTO usage_records (software_id, user_id, user_name, department, last_access, total_hours_used, days_inactive, device_name)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			r.SoftwareID, r.UserID, r.UserName, r.Department, r.LastAccess, r.TotalHoursUsed, r.DaysInactive, r.DeviceName)
		require.NoError(t, err)
	}
}

func TestIntegration_MySQLMatchesFixture(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	want, err := service.BuildCandidates(ctx, storage.FixtureCatalog(), service.DefaultInactivityThresholdDays)
	require.NoError(t, err)
	got, err := service.BuildCandidates(ctx, env.db, service.DefaultInactivityThresholdDays)
	require.NoError(t, err)

	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].UserID, got[i].UserID)
		assert.Equal(t, want[i].SoftwareName, got[i].SoftwareName)
		assert.True(t, want[i].MonthlyCost.Equal(got[i].MonthlyCost), want[i].UserID)
	}
}

func TestIntegration_CachedReclamationFlow(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	env.redis.Del(ctx, "software:sw-004")
	inventory := storage.NewCachedInventory(env.db, env.cache, nil)

	svc, err := service.NewReclamationService(ctx, inventory, service.Options{
		ThresholdDays: service.DefaultInactivityThresholdDays,
		Idempotency:   env.cache,
	})
	require.NoError(t, err)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go svc.Run(runCtx)

	cached, found, err := env.cache.GetSoftware(ctx, "sw-004")
	require.NoError(t, err)
	require.True(t, found, "candidate build should populate the software cache")
	assert.Equal(t, "AutoCAD", cached.Name)

	_, err = svc.Execute(ctx, service.Command{Kind: service.CommandSelectSoftwareGroup, SoftwareID: "sw-004"})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for _, userID := range []string{"u-011", "u-012", "u-013", "u-014"} {
		wg.Add(1)
		go func(userID string) {
			defer wg.Done()
			_, err := svc.Execute(ctx, service.Command{
				Kind:      service.CommandToggleSelect,
				UserID:    userID,
				RequestID: uuid.NewString(),
			})
			assert.NoError(t, err)
		}(userID)
	}
	wg.Wait()

	requestID := uuid.NewString()
	snap, err := svc.Execute(ctx, service.Command{Kind: service.CommandReclaimSelected, RequestID: requestID})
	require.NoError(t, err)
	assert.Equal(t, 4, snap.Metrics.StatusCounts.Reclaimed)
	assert.Equal(t, "10560", snap.Metrics.ReclaimedAnnualSavings.String())

	_, err = svc.Execute(ctx, service.Command{Kind: service.CommandReclaimSelected, RequestID: requestID})
	assert.ErrorIs(t, err, service.ErrDuplicateRequest)
}
