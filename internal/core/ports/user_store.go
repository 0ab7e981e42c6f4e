package ports

import (
	"context"

	"github.com/lrms/access-portal/internal/core/domain"
)

// CreateUserInput carries the fields a caller may set when creating a user.
// ID and CreatedAt are assigned by the store.
type CreateUserInput struct {
	Name     string
	Email    string
	Role     domain.Role
	IsActive bool
}

// UpdateUserInput is a partial update; nil fields are left unchanged.
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Role     *domain.Role
	IsActive *bool
}

// UserReader exposes snapshot queries over the user list. Lookup misses are
// reported with ok=false rather than errors.
type UserReader interface {
	AllUsers(ctx context.Context) []domain.User
	UserByID(ctx context.Context, id int) (domain.User, bool)
	UserByEmail(ctx context.Context, email string) (domain.User, bool)
	ActiveUsers(ctx context.Context) []domain.User
	UsersByRole(ctx context.Context, role domain.Role) []domain.User
	SearchUsers(ctx context.Context, query string) []domain.User
	Count(ctx context.Context) int
	ActiveCount(ctx context.Context) int
}

// UserWriter exposes the mutating operations. Every successful mutation
// notifies user-list subscribers synchronously, in mutation order.
type UserWriter interface {
	CreateUser(ctx context.Context, in CreateUserInput) (domain.User, error)
	UpdateUser(ctx context.Context, id int, in UpdateUserInput) (domain.User, error)
	DeleteUser(ctx context.Context, id int) error
	ToggleUserStatus(ctx context.Context, id int) (domain.User, error)
}

// SessionSource is the session query surface consumed by guards: a
// synchronous snapshot read plus a replay-latest subscription.
type SessionSource interface {
	CurrentUser() (domain.User, bool)
	SubscribeSession(fn func(*domain.User)) (cancel func())
}

// Session owns the single current-user slot.
type Session interface {
	SessionSource
	Login(ctx context.Context, email, password string) (domain.User, error)
	Logout(ctx context.Context)
	SetCurrentUser(u *domain.User)
	IsLoggedIn() bool
	HasRole(role domain.Role) bool
	IsAdmin() bool
}

// UserStore is the single source of truth for users and the active session.
type UserStore interface {
	UserReader
	UserWriter
	Session
	SubscribeUsers(fn func([]domain.User)) (cancel func())
}
