// Package guard holds the navigation access-control logic: the decision
// function over (session snapshot, requested path, required roles) and the
// named guard variants the router attaches to routes.
package guard

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/lrms/access-portal/internal/core/domain"
	"github.com/lrms/access-portal/internal/core/ports"
)

// ActivationGuard gates navigation into a route. The three methods mirror
// the three call sites a router has for the same check: direct activation,
// child-route activation, and lazy-module matching.
type ActivationGuard interface {
	CanActivate(path string) domain.Decision
	CanActivateChild(path string) domain.Decision
	CanMatch(segments []string) domain.Decision
}

// Evaluator computes guard decisions from live session snapshots. It holds
// no state of its own; every call re-reads the session source.
type Evaluator struct {
	session ports.SessionSource
	log     zerolog.Logger
}

func NewEvaluator(session ports.SessionSource, log zerolog.Logger) *Evaluator {
	return &Evaluator{session: session, log: log}
}

// Evaluate is the pure decision function:
//
//  1. No user, or an inactive user, is not authenticated: deny to /login,
//     carrying the requested path for the post-login return.
//  2. An authenticated user missing a required role: deny to /unauthorized.
//  3. Otherwise allow. An empty role set means any authenticated user.
func Evaluate(required []domain.Role, path string, user *domain.User) domain.Decision {
	if user == nil || !user.IsActive {
		return domain.DenyToLogin(path)
	}
	if len(required) > 0 {
		for _, r := range required {
			if user.Role == r {
				return domain.Allow()
			}
		}
		return domain.DenyUnauthorized()
	}
	return domain.Allow()
}

// check reads the session snapshot and evaluates it against required.
func (e *Evaluator) check(required []domain.Role, path string) domain.Decision {
	var user *domain.User
	if u, ok := e.session.CurrentUser(); ok {
		user = &u
	}

	d := Evaluate(required, path, user)
	if d.Allowed {
		e.log.Debug().Str("path", path).Msg("access granted")
	} else {
		e.log.Debug().Str("path", path).Str("redirect", d.RedirectTarget).Msg("access denied")
	}
	return d
}

// joinSegments rebuilds a path from router URL segments.
func joinSegments(segments []string) string {
	return "/" + strings.Join(segments, "/")
}

// AuthGuard admits any authenticated, active user.
type AuthGuard struct {
	ev *Evaluator
}

func NewAuthGuard(ev *Evaluator) *AuthGuard { return &AuthGuard{ev: ev} }

func (g *AuthGuard) CanActivate(path string) domain.Decision {
	return g.ev.check(nil, path)
}

func (g *AuthGuard) CanActivateChild(path string) domain.Decision {
	return g.ev.check(nil, path)
}

func (g *AuthGuard) CanMatch(segments []string) domain.Decision {
	return g.ev.check(nil, joinSegments(segments))
}

// AdminGuard admits only active admins.
type AdminGuard struct {
	ev *Evaluator
}

func NewAdminGuard(ev *Evaluator) *AdminGuard { return &AdminGuard{ev: ev} }

func (g *AdminGuard) CanActivate(path string) domain.Decision {
	return g.ev.check([]domain.Role{domain.RoleAdmin}, path)
}

func (g *AdminGuard) CanActivateChild(path string) domain.Decision {
	return g.CanActivate(path)
}

func (g *AdminGuard) CanMatch(segments []string) domain.Decision {
	return g.CanActivate(joinSegments(segments))
}

// RoleGuard admits users holding any of the roles attached to the route.
// With no roles configured it degrades to AuthGuard behavior.
type RoleGuard struct {
	ev    *Evaluator
	roles []domain.Role
}

func NewRoleGuard(ev *Evaluator, roles ...domain.Role) *RoleGuard {
	return &RoleGuard{ev: ev, roles: roles}
}

func (g *RoleGuard) CanActivate(path string) domain.Decision {
	return g.ev.check(g.roles, path)
}

func (g *RoleGuard) CanActivateChild(path string) domain.Decision {
	return g.CanActivate(path)
}

func (g *RoleGuard) CanMatch(segments []string) domain.Decision {
	return g.CanActivate(joinSegments(segments))
}
