package service

import (
	"fmt"

	"github.com/rl1809/sam-reclaim/internal/core/domain"
)

type CommandKind string

const (
	CommandToggleSelect        CommandKind = "toggle_select"
	CommandSelectAllVisible    CommandKind = "select_all_visible"
	CommandClearSelection      CommandKind = "clear_selection"
	CommandNotifySelected      CommandKind = "notify_selected"
	CommandReclaimSelected     CommandKind = "reclaim_selected"
	CommandNotify              CommandKind = "notify"
	CommandReclaim             CommandKind = "reclaim"
	CommandRetain              CommandKind = "retain"
	CommandFilterByStatus      CommandKind = "filter_by_status"
	CommandSelectSoftwareGroup CommandKind = "select_software_group"
	CommandReturnToOverview    CommandKind = "return_to_overview"
)

// Command is one user-initiated action relayed by the presentation layer.
// RequestID is optional; when set, a repeated id is rejected.
type Command struct {
	Kind       CommandKind
	RequestID  string
	UserID     string
	SoftwareID string
	Status     string
}

// Validate checks that the command is well formed. It does not check that
// its target exists; unknown targets are no-ops.
func (c Command) Validate() error {
	switch c.Kind {
	case CommandToggleSelect, CommandNotify, CommandReclaim, CommandRetain:
		if c.UserID == "" {
			return fmt.Errorf("%w: %s requires user_id", ErrInvalidCommand, c.Kind)
		}
	case CommandSelectSoftwareGroup:
		if c.SoftwareID == "" {
			return fmt.Errorf("%w: %s requires software_id", ErrInvalidCommand, c.Kind)
		}
	case CommandFilterByStatus:
		if _, ok := domain.ParseStatusFilter(c.Status); !ok {
			return fmt.Errorf("%w: unknown status %q", ErrInvalidCommand, c.Status)
		}
	case CommandSelectAllVisible, CommandClearSelection, CommandNotifySelected,
		CommandReclaimSelected, CommandReturnToOverview:
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidCommand, c.Kind)
	}
	return nil
}

// apply runs a validated command against the engine.
func (c Command) apply(e *Engine) {
	switch c.Kind {
	case CommandToggleSelect:
		e.ToggleSelect(c.UserID)
	case CommandSelectAllVisible:
		e.SelectAllVisible()
	case CommandClearSelection:
		e.ClearSelection()
	case CommandNotifySelected:
		e.NotifySelected()
	case CommandReclaimSelected:
		e.ReclaimSelected()
	case CommandNotify:
		e.Notify(c.UserID)
	case CommandReclaim:
		e.Reclaim(c.UserID)
	case CommandRetain:
		e.Retain(c.UserID)
	case CommandFilterByStatus:
		f, _ := domain.ParseStatusFilter(c.Status)
		e.FilterByStatus(f)
	case CommandSelectSoftwareGroup:
		e.SelectSoftwareGroup(c.SoftwareID)
	case CommandReturnToOverview:
		e.ReturnToOverview()
	}
}
