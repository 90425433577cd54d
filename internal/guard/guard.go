// ABOUTME: Pure authentication and role guards producing routing decisions
// ABOUTME: AuthGuard checks for a token, RoleGuard checks the session role

package guard

import (
	"github.com/openhealth/carebridge/internal/session"
)

// Well-known routes
const (
	LoginPath             = "/login"
	PatientDashboardPath  = "/patient/dashboard"
	ProviderDashboardPath = "/provider/dashboard"
)

// Decision is the outcome of evaluating a guard. When Allow is false,
// RedirectTo names the route the user should land on instead.
type Decision struct {
	Allow      bool
	RedirectTo string
}

// allow is the affirmative decision.
var allow = Decision{Allow: true}

// DashboardPath returns the dashboard route for a known role,
// or the login route when the role is absent or unknown.
func DashboardPath(role session.Role) string {
	switch role {
	case session.RolePatient:
		return PatientDashboardPath
	case session.RoleProvider:
		return ProviderDashboardPath
	default:
		return LoginPath
	}
}

// Auth allows any session holding a token. Unauthenticated sessions are
// redirected to the login route regardless of the requested route.
func Auth(s session.Session) Decision {
	if !s.Authenticated() {
		return Decision{RedirectTo: LoginPath}
	}
	return allow
}

// Role allows a session whose role matches the required role. It assumes Auth
// already passed. A mismatched known role is redirected to that role's own
// dashboard; an unknown role falls back to login.
func Role(s session.Session, required session.Role) Decision {
	if s.Role == required {
		return allow
	}
	return Decision{RedirectTo: DashboardPath(s.Role)}
}

// Chain evaluates Auth first and consults Role only when Auth allowed.
// A denial at either stage short-circuits.
func Chain(s session.Session, required session.Role) Decision {
	if d := Auth(s); !d.Allow {
		return d
	}
	return Role(s, required)
}
