package handler

import (
	"sync"

	"github.com/lrms/access-portal/internal/core/domain"
)

// ProfileEditor is the portal's one deactivation-guarded view: an editable
// name/email form over the session user. It is a two-state machine, Clean
// and Dirty — editing a field away from the saved snapshot makes it Dirty,
// saving or discarding returns it to Clean.
type ProfileEditor struct {
	mu sync.Mutex

	userID  int
	hasUser bool

	savedName  string
	savedEmail string
	draftName  string
	draftEmail string
}

func NewProfileEditor() *ProfileEditor {
	return &ProfileEditor{}
}

// Reset re-binds the editor to a new session user, dropping any pending
// edits. Wired to the store's session stream so a login or logout always
// starts from a clean form.
func (e *ProfileEditor) Reset(u *domain.User) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if u == nil {
		e.userID = 0
		e.hasUser = false
		e.savedName, e.savedEmail = "", ""
		e.draftName, e.draftEmail = "", ""
		return
	}
	e.userID = u.ID
	e.hasUser = true
	e.savedName, e.savedEmail = u.Name, u.Email
	e.draftName, e.draftEmail = u.Name, u.Email
}

// Edit updates the draft fields; nil leaves a field untouched.
func (e *ProfileEditor) Edit(name, email *string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if name != nil {
		e.draftName = *name
	}
	if email != nil {
		e.draftEmail = *email
	}
}

// Discard abandons the draft, returning to Clean.
func (e *ProfileEditor) Discard() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.draftName, e.draftEmail = e.savedName, e.savedEmail
}

// HasUnsavedChanges reports whether the draft diverges from the saved
// snapshot. This is the capability the UnsavedChangesGuard queries.
func (e *ProfileEditor) HasUnsavedChanges() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hasUser && (e.draftName != e.savedName || e.draftEmail != e.savedEmail)
}

// PendingCommit returns the target user id and draft fields for a save.
// ok=false when no session user is bound.
func (e *ProfileEditor) PendingCommit() (id int, name, email string, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.userID, e.draftName, e.draftEmail, e.hasUser
}

// MarkSaved records a successful commit, returning to Clean.
func (e *ProfileEditor) MarkSaved(u domain.User) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.savedName, e.savedEmail = u.Name, u.Email
	e.draftName, e.draftEmail = u.Name, u.Email
}

// State is a snapshot of the editor for rendering.
type ProfileState struct {
	UserID     int    `json:"user_id"`
	SavedName  string `json:"saved_name"`
	SavedEmail string `json:"saved_email"`
	DraftName  string `json:"draft_name"`
	DraftEmail string `json:"draft_email"`
	Dirty      bool   `json:"dirty"`
}

func (e *ProfileEditor) State() (ProfileState, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.hasUser {
		return ProfileState{}, false
	}
	return ProfileState{
		UserID:     e.userID,
		SavedName:  e.savedName,
		SavedEmail: e.savedEmail,
		DraftName:  e.draftName,
		DraftEmail: e.draftEmail,
		Dirty:      e.draftName != e.savedName || e.draftEmail != e.savedEmail,
	}, true
}
