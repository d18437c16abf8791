package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusNotified  Status = "notified"
	StatusReclaimed Status = "reclaimed"
	StatusRetained  Status = "retained"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusPending, StatusNotified, StatusReclaimed, StatusRetained}

func ParseStatus(s string) (Status, bool) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// Terminal reports whether no action can move a candidate out of s.
func (s Status) Terminal() bool {
	return s == StatusReclaimed || s == StatusRetained
}

type Action string

const (
	ActionNotify  Action = "notify"
	ActionReclaim Action = "reclaim"
	ActionRetain  Action = "retain"
)

type edge struct {
	from   Status
	action Action
}

var transitions = map[edge]Status{
	{StatusPending, ActionNotify}:   StatusNotified,
	{StatusPending, ActionReclaim}:  StatusReclaimed,
	{StatusNotified, ActionReclaim}: StatusReclaimed,
	{StatusNotified, ActionRetain}:  StatusRetained,
}

// Transition returns the status reached by applying action to from.
// ok is false when from is not an eligible source state for action.
func Transition(from Status, action Action) (to Status, ok bool) {
	to, ok = transitions[edge{from, action}]
	return to, ok
}

// StatusFilter narrows candidates to one status, or FilterAll.
type StatusFilter string

const FilterAll StatusFilter = "all"

func ParseStatusFilter(s string) (StatusFilter, bool) {
	if s == "" || s == string(FilterAll) {
		return FilterAll, true
	}
	st, ok := ParseStatus(s)
	if !ok {
		return "", false
	}
	return StatusFilter(st), true
}

func (f StatusFilter) Matches(s Status) bool {
	return f == FilterAll || Status(f) == s
}

// Candidate is an underutilized license flagged for reclamation.
type Candidate struct {
	UserID       string          `json:"user_id"`
	UserName     string          `json:"user_name"`
	Department   string          `json:"department"`
	SoftwareID   string          `json:"software_id"`
	SoftwareName string          `json:"software_name"`
	DaysInactive int             `json:"days_inactive"`
	LastAccess   time.Time       `json:"last_access"`
	MonthlyCost  decimal.Decimal `json:"monthly_cost"`
	DeviceName   string          `json:"device_name"`
	Status       Status          `json:"status"`
}

func (c Candidate) Severity() InactivitySeverity {
	return SeverityFor(c.DaysInactive)
}

// MarshalJSON adds the derived severity to the wire form.
func (c Candidate) MarshalJSON() ([]byte, error) {
	type plain Candidate
	return json.Marshal(struct {
		plain
		Severity InactivitySeverity `json:"severity"`
	}{plain(c), c.Severity()})
}

type InactivitySeverity string

const (
	SeverityModerate InactivitySeverity = "moderate"
	SeverityElevated InactivitySeverity = "elevated"
	SeverityCritical InactivitySeverity = "critical"
)

func SeverityFor(daysInactive int) InactivitySeverity {
	switch {
	case daysInactive >= 120:
		return SeverityCritical
	case daysInactive >= 90:
		return SeverityElevated
	default:
		return SeverityModerate
	}
}
