// Package store holds the in-memory user store and session slot. It is the
// only writer of session state; guards and handlers reach it through the
// interfaces in ports.
package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/lrms/access-portal/internal/core/domain"
	"github.com/lrms/access-portal/internal/core/ports"
	"github.com/lrms/access-portal/internal/core/stream"
)

// UserStore keeps the user list and the current-user slot in process memory.
//
// All mutations notify subscribers synchronously after the change is applied,
// in the order mutations were applied. Reads return snapshot copies.
//
// Subscriber callbacks run while the store's lock is held and must not call
// back into the store.
type UserStore struct {
	mu      sync.RWMutex
	users   []domain.User
	current *domain.User

	userChanges    *stream.Subject[[]domain.User]
	sessionChanges *stream.Subject[*domain.User]

	log zerolog.Logger
}

var _ ports.UserStore = (*UserStore)(nil)

// New returns an empty store with no session.
func New(log zerolog.Logger) *UserStore {
	return &UserStore{
		userChanges:    stream.NewWithInitial([]domain.User{}),
		sessionChanges: stream.NewWithInitial[*domain.User](nil),
		log:            log,
	}
}

// NewSeeded returns a store pre-loaded with the demo users. When autoLogin
// is true the first seed user is placed in the session slot, matching the
// portal's "already signed in" startup state.
func NewSeeded(log zerolog.Logger, autoLogin bool) *UserStore {
	s := New(log)
	s.users = seedUsers()
	s.userChanges.Next(s.snapshotLocked())
	if autoLogin {
		u := s.users[0]
		s.current = &u
		s.emitSessionLocked()
	}
	return s
}

func seedUsers() []domain.User {
	date := func(v string) time.Time {
		t, _ := time.Parse("2006-01-02", v)
		return t
	}
	return []domain.User{
		{ID: 1, Name: "John Doe", Email: "john@example.com", Role: domain.RoleAdmin, IsActive: true, CreatedAt: date("2024-01-15")},
		{ID: 2, Name: "Jane Smith", Email: "jane@example.com", Role: domain.RoleUser, IsActive: true, CreatedAt: date("2024-02-20")},
		{ID: 3, Name: "Bob Johnson", Email: "bob@example.com", Role: domain.RoleModerator, IsActive: false, CreatedAt: date("2024-03-10")},
	}
}

// ── Queries ───────────────────────────────────────────────────────────────────

func (s *UserStore) AllUsers(_ context.Context) []domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *UserStore) UserByID(_ context.Context, id int) (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.ID == id {
			return u, true
		}
	}
	return domain.User{}, false
}

func (s *UserStore) UserByEmail(_ context.Context, email string) (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, true
		}
	}
	return domain.User{}, false
}

func (s *UserStore) ActiveUsers(_ context.Context) []domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		if u.IsActive {
			out = append(out, u)
		}
	}
	return out
}

func (s *UserStore) UsersByRole(_ context.Context, role domain.Role) []domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out
}

// SearchUsers matches the query case-insensitively against name, email,
// and role.
func (s *UserStore) SearchUsers(_ context.Context, query string) []domain.User {
	q := strings.ToLower(query)

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		if strings.Contains(strings.ToLower(u.Name), q) ||
			strings.Contains(strings.ToLower(u.Email), q) ||
			strings.Contains(string(u.Role), q) {
			out = append(out, u)
		}
	}
	return out
}

func (s *UserStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

func (s *UserStore) ActiveCount(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, u := range s.users {
		if u.IsActive {
			n++
		}
	}
	return n
}

// ── Mutations ─────────────────────────────────────────────────────────────────

// CreateUser assigns the next id (max existing + 1), stamps CreatedAt, and
// appends the user. Fails with ErrEmailTaken when the email is in use.
func (s *UserStore) CreateUser(_ context.Context, in ports.CreateUserInput) (domain.User, error) {
	if !in.Role.Valid() {
		return domain.User{}, domain.ErrInvalidRole
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == in.Email {
			return domain.User{}, domain.ErrEmailTaken
		}
	}

	user := domain.User{
		ID:        s.nextIDLocked(),
		Name:      in.Name,
		Email:     in.Email,
		Role:      in.Role,
		IsActive:  in.IsActive,
		CreatedAt: time.Now().UTC(),
	}
	s.users = append(s.users, user)
	s.userChanges.Next(s.snapshotLocked())

	s.log.Debug().Int("id", user.ID).Str("email", user.Email).Msg("user created")
	return user, nil
}

// UpdateUser merges the non-nil fields of in into the stored user. Email
// uniqueness is re-validated against all other users when the email changes.
func (s *UserStore) UpdateUser(_ context.Context, id int, in ports.UpdateUserInput) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOfLocked(id)
	if idx < 0 {
		return domain.User{}, domain.ErrUserNotFound
	}

	if in.Email != nil && *in.Email != s.users[idx].Email {
		for _, u := range s.users {
			if u.ID != id && u.Email == *in.Email {
				return domain.User{}, domain.ErrEmailTaken
			}
		}
	}
	if in.Role != nil && !in.Role.Valid() {
		return domain.User{}, domain.ErrInvalidRole
	}

	u := &s.users[idx]
	if in.Name != nil {
		u.Name = *in.Name
	}
	if in.Email != nil {
		u.Email = *in.Email
	}
	if in.Role != nil {
		u.Role = *in.Role
	}
	if in.IsActive != nil {
		u.IsActive = *in.IsActive
	}

	updated := *u
	s.userChanges.Next(s.snapshotLocked())

	s.log.Debug().Int("id", id).Msg("user updated")
	return updated, nil
}

// DeleteUser removes the user. If the deleted user occupies the session
// slot, the slot is left as-is; the stale snapshot stays valid until the
// next login or logout.
func (s *UserStore) DeleteUser(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOfLocked(id)
	if idx < 0 {
		return domain.ErrUserNotFound
	}

	s.users = append(s.users[:idx], s.users[idx+1:]...)
	s.userChanges.Next(s.snapshotLocked())

	s.log.Debug().Int("id", id).Msg("user deleted")
	return nil
}

// ToggleUserStatus flips IsActive.
func (s *UserStore) ToggleUserStatus(_ context.Context, id int) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOfLocked(id)
	if idx < 0 {
		return domain.User{}, domain.ErrUserNotFound
	}

	s.users[idx].IsActive = !s.users[idx].IsActive
	updated := s.users[idx]
	s.userChanges.Next(s.snapshotLocked())

	s.log.Debug().Int("id", id).Bool("is_active", updated.IsActive).Msg("user status toggled")
	return updated, nil
}

// ── Session ───────────────────────────────────────────────────────────────────

// Login authenticates by email and active status. The password is accepted
// but not verified against any stored secret: this is the portal's demo
// contract, kept intact so callers observe identical behavior.
func (s *UserStore) Login(_ context.Context, email, _ string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email && u.IsActive {
			user := u
			s.current = &user
			s.emitSessionLocked()
			s.log.Info().Str("email", email).Msg("login")
			return user, nil
		}
	}
	return domain.User{}, domain.ErrInvalidCredentials
}

// Logout clears the session slot. Calling it with no session is a no-op
// that still notifies subscribers.
func (s *UserStore) Logout(_ context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
	s.emitSessionLocked()
	s.log.Info().Msg("logout")
}

// SetCurrentUser places a snapshot of u in the session slot (nil clears it).
func (s *UserStore) SetCurrentUser(u *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u == nil {
		s.current = nil
	} else {
		cp := *u
		s.current = &cp
	}
	s.emitSessionLocked()
}

// CurrentUser returns a copy of the session user, ok=false when logged out.
func (s *UserStore) CurrentUser() (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return domain.User{}, false
	}
	return *s.current, true
}

func (s *UserStore) IsLoggedIn() bool {
	_, ok := s.CurrentUser()
	return ok
}

func (s *UserStore) HasRole(role domain.Role) bool {
	u, ok := s.CurrentUser()
	return ok && u.Role == role
}

func (s *UserStore) IsAdmin() bool {
	return s.HasRole(domain.RoleAdmin)
}

// ── Streams ───────────────────────────────────────────────────────────────────

// SubscribeUsers registers fn on the user-list stream; the current snapshot
// is replayed immediately.
func (s *UserStore) SubscribeUsers(fn func([]domain.User)) (cancel func()) {
	return s.userChanges.Subscribe(fn)
}

// SubscribeSession registers fn on the current-user stream; the latest
// session value (nil when logged out) is replayed immediately.
func (s *UserStore) SubscribeSession(fn func(*domain.User)) (cancel func()) {
	return s.sessionChanges.Subscribe(fn)
}

// ── Internal ──────────────────────────────────────────────────────────────────

func (s *UserStore) snapshotLocked() []domain.User {
	out := make([]domain.User, len(s.users))
	copy(out, s.users)
	return out
}

func (s *UserStore) indexOfLocked(id int) int {
	for i, u := range s.users {
		if u.ID == id {
			return i
		}
	}
	return -1
}

func (s *UserStore) nextIDLocked() int {
	max := 0
	for _, u := range s.users {
		if u.ID > max {
			max = u.ID
		}
	}
	return max + 1
}

// emitSessionLocked publishes a snapshot of the session slot so subscribers
// never share the store's own pointer.
func (s *UserStore) emitSessionLocked() {
	if s.current == nil {
		s.sessionChanges.Next(nil)
		return
	}
	cp := *s.current
	s.sessionChanges.Next(&cp)
}
