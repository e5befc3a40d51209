// Package guard decides whether a location may be entered given the
// current session. Decisions are pure functions of session state at the time
// of the call; nothing is cached.
package guard

const (
	LoginPath = "/login"
	HomePath  = "/"
)

// Session reports whether a token is present
type Session interface {
	Authenticated() bool
}

// Location is the place the user asked for
type Location struct {
	Path string
	// From is where the user came from, carried through redirects
	From string
}

// Redirect sends the user elsewhere
type Redirect struct {
	To string
	// Replace means the redirect replaces the current history entry
	// instead of pushing a new one
	Replace bool
	// From is the originating location, used to return after login
	From string
}

// Decision is the outcome of a guard
type Decision struct {
	Allow    bool
	Redirect *Redirect
}

func allow() Decision {
	return Decision{Allow: true}
}

// RequireAuthenticated lets authenticated sessions through and sends
// everyone else to the login location, remembering where they were going.
func RequireAuthenticated(s Session, loc Location) Decision {
	if !s.Authenticated() {
		return Decision{Redirect: &Redirect{To: LoginPath, From: loc.Path}}
	}
	return allow()
}

// RequireUnauthenticated lets logged-out sessions through and sends
// authenticated ones home, replacing the current history entry.
func RequireUnauthenticated(s Session, loc Location) Decision {
	if s.Authenticated() {
		return Decision{Redirect: &Redirect{To: HomePath, Replace: true, From: loc.Path}}
	}
	return allow()
}

// Policy selects which guard applies to a route
type Policy int

const (
	Public Policy = iota
	Protected
	GuestOnly
)

func (p Policy) String() string {
	switch p {
	case Protected:
		return "protected"
	case GuestOnly:
		return "guest"
	default:
		return "public"
	}
}

// ParsePolicy maps a route annotation to a Policy
func ParsePolicy(s string) Policy {
	switch s {
	case "protected":
		return Protected
	case "guest":
		return GuestOnly
	default:
		return Public
	}
}

// Check applies the policy's guard
func Check(p Policy, s Session, loc Location) Decision {
	switch p {
	case Protected:
		return RequireAuthenticated(s, loc)
	case GuestOnly:
		return RequireUnauthenticated(s, loc)
	default:
		return allow()
	}
}
