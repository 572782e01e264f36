// Package guard decides whether a visitor may enter a route group.
// The decision is advisory; the backend enforces authorization on every call.
package guard

import (
	"sitesafety/internal/domain/auth"
)

// Outcome is the result of a route decision
type Outcome int

const (
	// Pending means the session is still being restored and nothing may be decided yet
	Pending Outcome = iota
	Allow
	RedirectToLogin
	DenyInPlace
)

func (o Outcome) String() string {
	switch o {
	case Pending:
		return "pending"
	case Allow:
		return "allow"
	case RedirectToLogin:
		return "redirect_to_login"
	case DenyInPlace:
		return "deny_in_place"
	default:
		return "unknown"
	}
}

// Decision carries the outcome plus what the presentation layer needs.
// From is set for RedirectToLogin, Role for DenyInPlace.
type Decision struct {
	Outcome Outcome
	From    string
	Role    auth.Role
}

// Decide evaluates snapshot against the allow-list for the requested location
func Decide(snapshot auth.Snapshot, requiredRoles []auth.Role, location string) Decision {
	if snapshot.Initializing {
		return Decision{Outcome: Pending}
	}
	if snapshot.Identity == nil {
		return Decision{Outcome: RedirectToLogin, From: location}
	}
	if len(requiredRoles) > 0 && !hasRole(requiredRoles, snapshot.Identity.Role) {
		return Decision{Outcome: DenyInPlace, Role: snapshot.Identity.Role}
	}
	return Decision{Outcome: Allow}
}

func hasRole(roles []auth.Role, role auth.Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
