package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type LicenseType string

const (
	LicenseTypePerpetual    LicenseType = "perpetual"
	LicenseTypeSubscription LicenseType = "subscription"
	LicenseTypeConcurrent   LicenseType = "concurrent"
)

// SoftwareTitle is a licensed product as seen by the inventory.
type SoftwareTitle struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Vendor         string          `json:"vendor"`
	Version        string          `json:"version"`
	Category       string          `json:"category"`
	CostPerLicense decimal.Decimal `json:"cost_per_license"` // monthly
	LicenseType    LicenseType     `json:"license_type"`
}

// UsageRecord is one (software, user) pairing with its activity.
type UsageRecord struct {
	SoftwareID     string    `json:"software_id"`
	UserID         string    `json:"user_id"`
	UserName       string    `json:"user_name"`
	Department     string    `json:"department"`
	LastAccess     time.Time `json:"last_access"`
	TotalHoursUsed int       `json:"total_hours_used"`
	DaysInactive   int       `json:"days_inactive"`
	DeviceName     string    `json:"device_name"`
}
