package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	"github.com/rl1809/sam-reclaim/internal/core/domain"
)

// Schema creates the inventory tables read by MySQLAdapter.
//
//go:embed schema.sql
var Schema string

// MySQLAdapter reads the inventory from MySQL. It never writes.
type MySQLAdapter struct {
	db *sql.DB
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

func (m *MySQLAdapter) ListUsageRecords(ctx context.Context) ([]domain.UsageRecord, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT software_id, user_id, user_name, department, last_access,
		       total_hours_used, days_inactive, device_name
		FROM usage_records ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query usage records: %w", err)
	}
	defer rows.Close()

	var records []domain.UsageRecord
	for rows.Next() {
		var r domain.UsageRecord
		if err := rows.Scan(&r.SoftwareID, &r.UserID, &r.UserName, &r.Department, &r.LastAccess,
			&r.TotalHoursUsed, &r.DaysInactive, &r.DeviceName); err != nil {
			return nil, fmt.Errorf("scan usage record: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate usage records: %w", err)
	}
	return records, nil
}

func (m *MySQLAdapter) FindSoftwareByID(ctx context.Context, id string) (*domain.SoftwareTitle, error) {
	var s domain.SoftwareTitle
	err := m.db.QueryRowContext(ctx, `
		SELECT id, name, vendor, version, category, cost_per_license, license_type
		FROM software_titles WHERE id = ?`, id,
	).Scan(&s.ID, &s.Name, &s.Vendor, &s.Version, &s.Category, &s.CostPerLicense, &s.LicenseType)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query software: %w", err)
	}
	return &s, nil
}

func (m *MySQLAdapter) ListSoftware(ctx context.Context) ([]domain.SoftwareTitle, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, name, vendor, version, category, cost_per_license, license_type
		FROM software_titles ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query software: %w", err)
	}
	defer rows.Close()

	var titles []domain.SoftwareTitle
	for rows.Next() {
		var s domain.SoftwareTitle
		if err := rows.Scan(&s.ID, &s.Name, &s.Vendor, &s.Version, &s.Category, &s.CostPerLicense, &s.LicenseType); err != nil {
			return nil, fmt.Errorf("scan software: %w", err)
		}
		titles = append(titles, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate software: %w", err)
	}
	return titles, nil
}
