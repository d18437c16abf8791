package service

import (
	"math"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/rl1809/sam-reclaim/internal/core/domain"
)

type ViewMode string

const (
	ViewOverview ViewMode = "overview"
	ViewDetail   ViewMode = "detail"
)

// ViewContext is the grouped overview, or the detail view of one software
// group.
type ViewContext struct {
	Mode       ViewMode `json:"mode"`
	SoftwareID string   `json:"software_id,omitempty"`
}

// Engine holds the reclamation workflow state for one view session.
// It is not safe for concurrent use; ReclamationService serializes access.
//
// Every command is a no-op when its target is unknown or ineligible.
type Engine struct {
	candidates []domain.Candidate
	selection  map[string]struct{}
	filter     domain.StatusFilter
	view       ViewContext
	revision   uint64
}

func NewEngine(candidates []domain.Candidate) *Engine {
	return &Engine{
		candidates: slices.Clone(candidates),
		selection:  make(map[string]struct{}),
		filter:     domain.FilterAll,
		view:       ViewContext{Mode: ViewOverview},
	}
}

// Revision increases on every observable state change.
func (e *Engine) Revision() uint64 { return e.revision }

func (e *Engine) Filter() domain.StatusFilter { return e.filter }

func (e *Engine) View() ViewContext { return e.view }

func (e *Engine) Candidates() []domain.Candidate {
	return slices.Clone(e.candidates)
}

func (e *Engine) filtered() []domain.Candidate {
	out := make([]domain.Candidate, 0, len(e.candidates))
	for _, c := range e.candidates {
		if e.filter.Matches(c.Status) {
			out = append(out, c)
		}
	}
	return out
}

// inScope reports whether c belongs to the active software group, if any.
func (e *Engine) inScope(c domain.Candidate) bool {
	return e.view.Mode != ViewDetail || c.SoftwareID == e.view.SoftwareID
}

// Visible returns the filtered candidates, narrowed to the active group in
// detail context.
func (e *Engine) Visible() []domain.Candidate {
	out := make([]domain.Candidate, 0, len(e.candidates))
	for _, c := range e.filtered() {
		if e.inScope(c) {
			out = append(out, c)
		}
	}
	return out
}

func (e *Engine) Groups() []domain.SoftwareGroup {
	return domain.GroupBySoftware(e.filtered())
}

// ActiveGroup returns the group shown in detail context. It reports false
// in overview, or when the filter leaves the group empty.
func (e *Engine) ActiveGroup() (domain.SoftwareGroup, bool) {
	if e.view.Mode != ViewDetail {
		return domain.SoftwareGroup{}, false
	}
	return domain.FindGroup(e.Groups(), e.view.SoftwareID)
}

// Selection returns the selected user ids in sorted order.
func (e *Engine) Selection() []string {
	ids := make([]string, 0, len(e.selection))
	for id := range e.selection {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (e *Engine) IsSelected(userID string) bool {
	_, ok := e.selection[userID]
	return ok
}

// ToggleSelect flips userID in the selection. Only visible, non-terminal
// candidates can be added.
func (e *Engine) ToggleSelect(userID string) {
	if _, ok := e.selection[userID]; ok {
		delete(e.selection, userID)
		e.revision++
		return
	}

	for _, c := range e.Visible() {
		if c.UserID == userID && !c.Status.Terminal() {
			e.selection[userID] = struct{}{}
			e.revision++
			return
		}
	}
}

// SelectAllVisible selects every visible candidate, or clears the
// selection when all of them are already selected.
func (e *Engine) SelectAllVisible() {
	// A user holding several visible titles is one selection entry.
	next := make(map[string]struct{})
	for _, c := range e.Visible() {
		next[c.UserID] = struct{}{}
	}

	allSelected := len(e.selection) == len(next)
	for id := range next {
		if !e.IsSelected(id) {
			allSelected = false
			break
		}
	}

	if allSelected {
		e.ClearSelection()
		return
	}

	e.selection = next
	e.revision++
}

func (e *Engine) ClearSelection() {
	if len(e.selection) == 0 {
		return
	}
	e.selection = make(map[string]struct{})
	e.revision++
}

// NotifySelected moves selected pending candidates to notified and clears
// the selection.
func (e *Engine) NotifySelected() int {
	return e.applySelected(domain.ActionNotify)
}

// ReclaimSelected moves selected pending or notified candidates to
// reclaimed and clears the selection.
func (e *Engine) ReclaimSelected() int {
	return e.applySelected(domain.ActionReclaim)
}

func (e *Engine) Notify(userID string) int {
	return e.applyOne(domain.ActionNotify, userID)
}

func (e *Engine) Reclaim(userID string) int {
	return e.applyOne(domain.ActionReclaim, userID)
}

// Retain is only reachable from notified.
func (e *Engine) Retain(userID string) int {
	return e.applyOne(domain.ActionRetain, userID)
}

func (e *Engine) applySelected(action domain.Action) int {
	changed := e.apply(action, func(c domain.Candidate) bool {
		return e.IsSelected(c.UserID) && e.inScope(c)
	})
	e.ClearSelection()
	return changed
}

func (e *Engine) applyOne(action domain.Action, userID string) int {
	return e.apply(action, func(c domain.Candidate) bool {
		return c.UserID == userID && e.inScope(c)
	})
}

// apply replaces the candidate list with one where every matching,
// eligible candidate has taken action. It returns how many changed.
func (e *Engine) apply(action domain.Action, match func(domain.Candidate) bool) int {
	next := make([]domain.Candidate, len(e.candidates))
	changed := 0
	for i, c := range e.candidates {
		if match(c) {
			if to, ok := domain.Transition(c.Status, action); ok {
				c.Status = to
				changed++
			}
		}
		next[i] = c
	}

	if changed > 0 {
		e.candidates = next
		e.revision++
	}
	return changed
}

func (e *Engine) FilterByStatus(filter domain.StatusFilter) {
	if filter == e.filter {
		return
	}
	e.filter = filter
	e.revision++
}

// SelectSoftwareGroup switches to the detail view of softwareID. Unknown
// ids, including groups emptied by the filter, are ignored.
func (e *Engine) SelectSoftwareGroup(softwareID string) {
	if _, ok := domain.FindGroup(e.Groups(), softwareID); !ok {
		return
	}
	e.view = ViewContext{Mode: ViewDetail, SoftwareID: softwareID}
	e.selection = make(map[string]struct{})
	e.revision++
}

func (e *Engine) ReturnToOverview() {
	if e.view.Mode == ViewOverview && len(e.selection) == 0 {
		return
	}
	e.view = ViewContext{Mode: ViewOverview}
	e.selection = make(map[string]struct{})
	e.revision++
}

// StatusCounts covers the full candidate set, ignoring filter and view.
func (e *Engine) StatusCounts() domain.StatusCounts {
	return domain.CountStatuses(e.candidates)
}

func (e *Engine) ReclaimedAnnualSavings() decimal.Decimal {
	return domain.ReclaimedAnnualSavings(e.candidates)
}

// AnnualSavingsGoal annualizes the cost of the whole underutilized set as
// derived at session start. Only statuses change afterwards, so the goal
// is stable.
func (e *Engine) AnnualSavingsGoal() decimal.Decimal {
	return domain.AnnualSavingsGoal(e.candidates)
}

func (e *Engine) RemainingAnnualSavings() decimal.Decimal {
	return e.AnnualSavingsGoal().Sub(e.ReclaimedAnnualSavings())
}

func (e *Engine) ProgressFraction() float64 {
	return domain.ProgressFraction(e.ReclaimedAnnualSavings(), e.AnnualSavingsGoal())
}

func (e *Engine) ProgressPercent() int {
	return int(math.Round(e.ProgressFraction() * 100))
}
