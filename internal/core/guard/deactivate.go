package guard

import "github.com/rs/zerolog"

// LeaveQuerier is the capability a view must expose to be gated by the
// UnsavedChangesGuard.
type LeaveQuerier interface {
	HasUnsavedChanges() bool
}

// Confirmer resolves the blocking "discard your changes?" question. The
// returned bool is the user's single choice: true leaves (discarding edits),
// false stays.
type Confirmer func(prompt string) bool

const leavePrompt = "You have unsaved changes. Are you sure you want to leave this page? Your changes will be lost."

// UnsavedChangesGuard gates navigation away from a view holding unsaved
// edits. A clean view is always allowed to deactivate; a dirty view requires
// confirmation. Declining keeps the view dirty and the route active.
type UnsavedChangesGuard struct {
	confirm Confirmer
	log     zerolog.Logger
}

func NewUnsavedChangesGuard(confirm Confirmer, log zerolog.Logger) *UnsavedChangesGuard {
	return &UnsavedChangesGuard{confirm: confirm, log: log}
}

// CanDeactivate reports whether navigation away from view may proceed.
func (g *UnsavedChangesGuard) CanDeactivate(view LeaveQuerier) bool {
	if !view.HasUnsavedChanges() {
		return true
	}

	ok := g.confirm(leavePrompt)
	if ok {
		g.log.Debug().Msg("leaving with unsaved changes confirmed")
	} else {
		g.log.Debug().Msg("navigation cancelled to preserve changes")
	}
	return ok
}
