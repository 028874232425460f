package client

// DefaultRedirect is where unauthenticated visitors are sent.
const DefaultRedirect = "/"

// Decision is the outcome of a guard check.
type Decision struct {
	// Allowed is true when the protected view may render.
	Allowed bool

	// Redirect is the path to send the visitor to when not allowed.
	// Empty while the session is still rehydrating: the guard withholds
	// judgement rather than bouncing a user whose session is about to
	// come back.
	Redirect string
}

// Guard gates access to protected views based on session state.
type Guard struct {
	session  *Session
	redirect string
}

// NewGuard creates a guard that redirects to DefaultRedirect.
func NewGuard(session *Session) *Guard {
	return &Guard{session: session, redirect: DefaultRedirect}
}

// WithRedirect overrides the redirect target.
func (g *Guard) WithRedirect(path string) *Guard {
	g.redirect = path
	return g
}

// Check evaluates the session. Before rehydration completes it neither
// allows nor redirects.
func (g *Guard) Check() Decision {
	if !g.session.Ready() {
		return Decision{}
	}
	if _, ok := g.session.Current(); ok {
		return Decision{Allowed: true}
	}
	return Decision{Redirect: g.redirect}
}
