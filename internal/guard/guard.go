// Package guard decides, for a requested location and a session snapshot,
// whether to render, wait, or redirect. Guards never fail; denial is a redirect.
package guard

import (
	"github.com/and161185/assetdesk/internal/rbac"
	"github.com/and161185/assetdesk/internal/session"
)

// Outcome is what the shell should do with a navigation.
type Outcome int

const (
	Render Outcome = iota
	Loading
	RedirectLogin
	RedirectUnauthorized
	NotFound
)

func (o Outcome) String() string {
	switch o {
	case Render:
		return "render"
	case Loading:
		return "loading"
	case RedirectLogin:
		return "redirect_login"
	case RedirectUnauthorized:
		return "redirect_unauthorized"
	case NotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Decision is the result of guarding one navigation.
// For redirects, Location is the target and From the originally requested path.
type Decision struct {
	Outcome  Outcome
	Location string
	From     string
	Params   map[string]string
}

// Page decides how to handle a navigation to requested.
type Page interface {
	Decide(s session.Snapshot, requested string) Decision
}

// PageFunc adapts a function to Page.
type PageFunc func(s session.Snapshot, requested string) Decision

func (f PageFunc) Decide(s session.Snapshot, requested string) Decision { return f(s, requested) }

// RenderPage always renders.
var RenderPage Page = PageFunc(func(_ session.Snapshot, requested string) Decision {
	return Decision{Outcome: Render, Location: requested}
})

// Guards carries the redirect targets.
type Guards struct {
	LoginPath        string
	UnauthorizedPath string
}

// Default uses /login and /unauthorized.
var Default = Guards{LoginPath: "/login", UnauthorizedPath: "/unauthorized"}

// Authenticated waits while the session is loading and sends anonymous
// sessions to the login path, carrying the requested location.
func (g Guards) Authenticated(next Page) Page {
	return PageFunc(func(s session.Snapshot, requested string) Decision {
		switch {
		case s.IsLoading:
			return Decision{Outcome: Loading, Location: requested}
		case !s.IsAuthenticated:
			return Decision{Outcome: RedirectLogin, Location: g.LoginPath, From: requested}
		default:
			return next.Decide(s, requested)
		}
	})
}

// RoleGated is Authenticated plus the shared role predicate. A session whose
// profile is still pending waits rather than being judged on empty roles.
func (g Guards) RoleGated(required []string, next Page) Page {
	required = rbac.Normalize(required)
	return g.Authenticated(PageFunc(func(s session.Snapshot, requested string) Decision {
		if s.State == session.Pending {
			return Decision{Outcome: Loading, Location: requested}
		}
		if !rbac.HasAnyRole(required, s.Roles) {
			return Decision{Outcome: RedirectUnauthorized, Location: g.UnauthorizedPath, From: requested}
		}
		return next.Decide(s, requested)
	}))
}

// Authenticated wraps next with the default guards.
func Authenticated(next Page) Page { return Default.Authenticated(next) }

// RoleGated wraps next with the default guards.
func RoleGated(required []string, next Page) Page { return Default.RoleGated(required, next) }
