package domain

// Route targets guards redirect to on denial.
const (
	LoginPath        = "/login"
	UnauthorizedPath = "/unauthorized"
)

// Decision is the outcome of a guard evaluation for one navigation attempt.
// It is ephemeral: computed from a single session snapshot and never stored.
type Decision struct {
	Allowed bool
	// RedirectTarget is where the caller should send the user on denial.
	RedirectTarget string
	// ReturnPath carries the originally requested path so the user can be
	// sent back there after authenticating. Empty for role denials.
	ReturnPath string
}

// Allow permits the navigation.
func Allow() Decision {
	return Decision{Allowed: true}
}

// DenyToLogin denies with a redirect to the login page, remembering the
// path the user was trying to reach.
func DenyToLogin(returnPath string) Decision {
	return Decision{RedirectTarget: LoginPath, ReturnPath: returnPath}
}

// DenyUnauthorized denies an authenticated user that lacks the required role.
func DenyUnauthorized() Decision {
	return Decision{RedirectTarget: UnauthorizedPath}
}
