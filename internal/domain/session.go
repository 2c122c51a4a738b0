package domain

import "context"

// SessionEvent signals a committed session transition to registered hooks.
type SessionEvent int

const (
	SessionLogin SessionEvent = iota + 1
	SessionLogout
)

func (e SessionEvent) String() string {
	switch e {
	case SessionLogin:
		return "login"
	case SessionLogout:
		return "logout"
	default:
		return "unknown"
	}
}

// SessionStore owns the authentication token and the resolved user profile.
// Invariant: a non-nil profile implies a non-empty token; an invalid or
// stale token forces both back to their zero values.
type SessionStore interface {
	// Hydrate restores a persisted token at process start and resolves the
	// profile against the server. Resolution failure forces a silent logout.
	Hydrate(ctx context.Context)
	// Login authenticates, persists the returned token and resolves the
	// profile. On failure the prior session is left untouched.
	Login(ctx context.Context, email, password string) bool
	// Register creates an account without authenticating.
	Register(ctx context.Context, email, password, fullName string) bool
	// Logout clears the token (including persisted storage) and profile
	// unconditionally. Idempotent.
	Logout()
	// Token returns the latest committed token, or "" when logged out.
	Token() string
	// CurrentUser returns the resolved profile, or nil when absent.
	CurrentUser() *UserProfile
	// OnChange registers a hook fired after every committed login or logout.
	OnChange(fn func(SessionEvent))
}
