// Package gate enforces role-based view access. Views declare the role set
// allowed to render them; anyone else is redirected: to login when
// unauthenticated (preserving the requested location for post-login return),
// or to their own home view when authenticated with the wrong role. There is
// no error page, you are sent where you belong.
package gate

import (
	"github.com/misexecutive/minda-corp/session"
)

// Navigable view paths.
const (
	PathRoot      = "/"
	PathLogin     = "/login"
	PathAdminHome = "/admin"
	PathUserHome  = "/dashboard"
)

// State is the authorization state machine over the current session.
type State int

const (
	StateUnauthenticated State = iota
	StateAuthenticatedAdmin
	StateAuthenticatedUser
)

// StateOf derives the authorization state from a session.
func StateOf(s *session.Session) State {
	if !s.IsAuthenticated() {
		return StateUnauthenticated
	}
	switch s.Role {
	case session.RoleAdmin:
		return StateAuthenticatedAdmin
	case session.RoleUser:
		return StateAuthenticatedUser
	}
	// Unknown roles never authenticate.
	return StateUnauthenticated
}

// Action is what the caller should do with a resolved path.
type Action int

const (
	ActionRender Action = iota
	ActionRedirect
)

// Decision is the outcome of resolving a path against the current session.
// From is set on redirects to login so the caller can return there afterward.
type Decision struct {
	Action Action
	To     string
	From   string
}

func render() Decision {
	return Decision{Action: ActionRender}
}

func redirect(to string) Decision {
	return Decision{Action: ActionRedirect, To: to}
}

// Gate maps view paths to the roles allowed to render them.
type Gate struct {
	views map[string][]session.Role
}

// New builds a gate with the standard view registry.
func New() *Gate {
	g := &Gate{views: make(map[string][]session.Role)}
	g.Allow(PathAdminHome, session.RoleAdmin)
	g.Allow(PathUserHome, session.RoleUser)
	return g
}

// Allow registers a view and the roles permitted to render it.
func (g *Gate) Allow(path string, roles ...session.Role) {
	g.views[path] = roles
}

// Resolve decides whether the session may render the path. Unknown paths
// redirect to root; root redirects by role; callers re-resolve redirects
// until a render decision is reached (ResolveFinal does this loop).
func (g *Gate) Resolve(path string, s *session.Session) Decision {
	state := StateOf(s)

	switch path {
	case PathRoot:
		switch state {
		case StateUnauthenticated:
			return redirect(PathLogin)
		case StateAuthenticatedAdmin:
			return redirect(PathAdminHome)
		case StateAuthenticatedUser:
			return redirect(PathUserHome)
		}
	case PathLogin:
		return render()
	}

	roles, known := g.views[path]
	if !known {
		return redirect(PathRoot)
	}

	if state == StateUnauthenticated {
		d := redirect(PathLogin)
		d.From = path
		return d
	}

	for _, role := range roles {
		if role == s.Role {
			return render()
		}
	}
	return redirect(s.Role.Home())
}

// ResolveFinal follows redirects until a renderable path is reached and
// returns it, along with the preserved origin when the path is login.
func (g *Gate) ResolveFinal(path string, s *session.Session) (string, string) {
	from := ""
	for {
		d := g.Resolve(path, s)
		if d.Action == ActionRender {
			return path, from
		}
		if d.From != "" {
			from = d.From
		}
		path = d.To
	}
}
