package storage

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rl1809/sam-reclaim/internal/core/domain"
)

// FixtureCatalog returns the demo inventory: twelve titles and the usage
// records observed for them.
func FixtureCatalog() *MemoryCatalog {
	return NewMemoryCatalog(fixtureSoftware(), fixtureUsage())
}

func fixtureSoftware() []domain.SoftwareTitle {
	return []domain.SoftwareTitle{
		{ID: "sw-001", Name: "Microsoft 365 E3", Vendor: "Microsoft", Version: "2024", Category: "Productivity", CostPerLicense: decimal.NewFromInt(36), LicenseType: domain.LicenseTypeSubscription},
		{ID: "sw-002", Name: "Adobe Creative Cloud", Vendor: "Adobe", Version: "2025", Category: "Design", CostPerLicense: decimal.NewFromInt(82), LicenseType: domain.LicenseTypeSubscription},
		{ID: "sw-003", Name: "Slack Business+", Vendor: "Salesforce", Version: "2025", Category: "Communication", CostPerLicense: decimal.NewFromInt(15), LicenseType: domain.LicenseTypeSubscription},
		{ID: "sw-004", Name: "AutoCAD", Vendor: "Autodesk", Version: "2025", Category: "Engineering", CostPerLicense: decimal.NewFromInt(220), LicenseType: domain.LicenseTypeSubscription},
		{ID: "sw-005", Name: "Salesforce CRM", Vendor: "Salesforce", Version: "Enterprise", Category: "CRM", CostPerLicense: decimal.NewFromInt(165), LicenseType: domain.LicenseTypeSubscription},
		{ID: "sw-006", Name: "Zoom Business", Vendor: "Zoom", Version: "2025", Category: "Communication", CostPerLicense: decimal.NewFromInt(20), LicenseType: domain.LicenseTypeSubscription},
		{ID: "sw-007", Name: "Tableau Desktop", Vendor: "Salesforce", Version: "2024.4", Category: "Analytics", CostPerLicense: decimal.NewFromInt(70), LicenseType: domain.LicenseTypeSubscription},
		{ID: "sw-008", Name: "JetBrains IntelliJ IDEA", Vendor: "JetBrains", Version: "2025.1", Category: "Development", CostPerLicense: decimal.NewFromInt(60), LicenseType: domain.LicenseTypeSubscription},
		{ID: "sw-009", Name: "SAP S/4HANA", Vendor: "SAP", Version: "2024", Category: "ERP", CostPerLicense: decimal.NewFromInt(350), LicenseType: domain.LicenseTypeSubscription},
		{ID: "sw-010", Name: "Visio Professional", Vendor: "Microsoft", Version: "2024", Category: "Productivity", CostPerLicense: decimal.NewFromInt(15), LicenseType: domain.LicenseTypeSubscription},
		{ID: "sw-011", Name: "Figma Enterprise", Vendor: "Figma", Version: "2025", Category: "Design", CostPerLicense: decimal.NewFromInt(75), LicenseType: domain.LicenseTypeSubscription},
		{ID: "sw-012", Name: "Jira Software", Vendor: "Atlassian", Version: "Cloud", Category: "Project Management", CostPerLicense: decimal.NewFromInt(14), LicenseType: domain.LicenseTypeSubscription},
	}
}

func fixtureUsage() []domain.UsageRecord {
	return []domain.UsageRecord{
		usage("sw-001", "u-001", "John Smith", "Sales", "2026-02-19", 245, 0, "LAPTOP-JS001"),
		usage("sw-001", "u-002", "Sarah Johnson", "Marketing", "2026-02-19", 312, 0, "LAPTOP-SJ002"),
		usage("sw-001", "u-003", "Mike Chen", "Engineering", "2026-02-18", 180, 1, "LAPTOP-MC003"),
		usage("sw-001", "u-004", "Emily Davis", "HR", "2025-12-15", 45, 66, "LAPTOP-ED004"),
		usage("sw-001", "u-005", "Robert Wilson", "Finance", "2025-11-28", 22, 83, "LAPTOP-RW005"),
		usage("sw-002", "u-006", "Lisa Anderson", "Design", "2026-02-18", 520, 1, "WORKSTATION-LA006"),
		usage("sw-002", "u-007", "David Martinez", "Marketing", "2026-02-19", 380, 0, "LAPTOP-DM007"),
		usage("sw-002", "u-008", "Jennifer Brown", "Sales", "2025-12-01", 15, 80, "LAPTOP-JB008"),
		usage("sw-002", "u-009", "Chris Taylor", "HR", "2025-11-15", 8, 96, "LAPTOP-CT009"),
		usage("sw-004", "u-010", "Tom Harris", "Engineering", "2026-02-17", 680, 2, "WORKSTATION-TH010"),
		usage("sw-004", "u-011", "Amanda White", "Engineering", "2025-12-20", 120, 61, "WORKSTATION-AW011"),
		usage("sw-004", "u-012", "Kevin Lee", "Engineering", "2025-11-30", 45, 81, "WORKSTATION-KL012"),
		usage("sw-004", "u-013", "Rachel Green", "Facilities", "2025-10-15", 12, 127, "LAPTOP-RG013"),
		usage("sw-004", "u-014", "Steve Rogers", "Operations", "2025-09-20", 5, 152, "LAPTOP-SR014"),
		usage("sw-007", "u-015", "Nancy Drew", "Analytics", "2026-02-15", 420, 4, "LAPTOP-ND015"),
		usage("sw-007", "u-016", "Peter Parker", "Finance", "2025-12-10", 85, 71, "LAPTOP-PP016"),
		usage("sw-007", "u-017", "Mary Jane", "Marketing", "2025-11-25", 30, 86, "LAPTOP-MJ017"),
		usage("sw-007", "u-018", "Bruce Wayne", "Executive", "2025-10-30", 18, 112, "LAPTOP-BW018"),
		usage("sw-010", "u-019", "Clark Kent", "IT", "2026-02-10", 150, 9, "LAPTOP-CK019"),
		usage("sw-010", "u-020", "Diana Prince", "Operations", "2025-11-20", 25, 91, "LAPTOP-DP020"),
		usage("sw-010", "u-021", "Barry Allen", "Engineering", "2025-10-05", 10, 137, "LAPTOP-BA021"),
		usage("sw-010", "u-022", "Hal Jordan", "Sales", "2025-09-15", 3, 157, "LAPTOP-HJ022"),
		usage("sw-005", "u-023", "Tony Stark", "Sales", "2026-02-19", 890, 0, "LAPTOP-TS023"),
		usage("sw-005", "u-024", "Natasha Romanoff", "Sales", "2026-02-19", 720, 0, "LAPTOP-NR024"),
		usage("sw-005", "u-025", "Clint Barton", "Support", "2025-12-18", 40, 63, "LAPTOP-CB025"),
	}
}

func usage(softwareID, userID, userName, department, lastAccess string, hours, daysInactive int, device string) domain.UsageRecord {
	at, err := time.Parse(time.DateOnly, lastAccess)
	if err != nil {
		panic(err)
	}
	return domain.UsageRecord{
		SoftwareID:     softwareID,
		UserID:         userID,
		UserName:       userName,
		Department:     department,
		LastAccess:     at,
		TotalHoursUsed: hours,
		DaysInactive:   daysInactive,
		DeviceName:     device,
	}
}
