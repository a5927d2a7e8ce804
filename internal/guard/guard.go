// Package guard decides, per navigation attempt, whether a requested view
// may render. The decision is a pure function of the session state and the
// route's admin requirement, recomputed fresh on every request.
package guard

import "github.com/libstack-dev/libstack/internal/session"

// Navigation targets for denied attempts
const (
	LoginRoute = "/login"
	HomeRoute  = "/dashboard"
)

// Decision is the outcome of one navigation attempt
type Decision int

const (
	// Pending means the initial session resolution has not completed;
	// nothing but a loading indicator may render.
	Pending Decision = iota
	// Grant renders the requested view
	Grant
	// RedirectLogin sends an unauthenticated visitor to the login view,
	// replacing history.
	RedirectLogin
	// RedirectHome sends an authenticated non-admin away from an
	// admin-only view, replacing history.
	RedirectHome
)

func (d Decision) String() string {
	switch d {
	case Pending:
		return "pending"
	case Grant:
		return "grant"
	case RedirectLogin:
		return "redirect-login"
	case RedirectHome:
		return "redirect-home"
	default:
		return "unknown"
	}
}

// Decide evaluates the four-branch authorization table. The branches are
// mutually exclusive and checked in order: loading, unauthenticated,
// forbidden, granted.
func Decide(state session.State, adminRequired bool) Decision {
	switch {
	case state.Loading:
		return Pending
	case state.User == nil:
		return RedirectLogin
	case adminRequired && !state.User.IsAdmin():
		return RedirectHome
	default:
		return Grant
	}
}
