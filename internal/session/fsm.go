// Package session owns the authentication token and the resolved user profile.
package session

// State is the authentication state of a session.
type State int

const (
	// Anonymous: no token.
	Anonymous State = iota
	// Pending: token present, profile not yet resolved.
	Pending
	// Authenticated: token present and profile resolved.
	Authenticated
)

func (s State) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case Pending:
		return "pending"
	case Authenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Event drives Transition.
type Event int

const (
	EventLoginSucceeded Event = iota
	EventTokenRestored
	EventProfileLoaded
	EventFailed
	EventLogout
)

func (e Event) String() string {
	switch e {
	case EventLoginSucceeded:
		return "login_succeeded"
	case EventTokenRestored:
		return "token_restored"
	case EventProfileLoaded:
		return "profile_loaded"
	case EventFailed:
		return "failed"
	case EventLogout:
		return "logout"
	default:
		return "unknown"
	}
}

// Transition is the pure state function of the session.
// Any failure or logout returns to Anonymous. A profile arriving for an
// anonymous session is stale and ignored.
func Transition(s State, e Event) State {
	switch e {
	case EventLoginSucceeded, EventTokenRestored:
		return Pending
	case EventProfileLoaded:
		if s == Anonymous {
			return Anonymous
		}
		return Authenticated
	case EventFailed, EventLogout:
		return Anonymous
	default:
		return s
	}
}
