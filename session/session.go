// Package session holds the client's authenticated identity: created on
// login, persisted across restarts, destroyed on logout or when the remote
// endpoint signals an expired credential. Exactly one session is active per
// process; it is the single source of truth for authorization decisions.
package session

import "github.com/pkg/errors"

// Role is the closed set of roles the remote endpoint assigns.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// ParseRole maps a wire role string onto the closed enumeration.
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleUser:
		return RoleUser, nil
	}
	return "", errors.Errorf("unknown role %q", raw)
}

// Home is the landing view for the role.
func (r Role) Home() string {
	switch r {
	case RoleAdmin:
		return "/admin"
	case RoleUser:
		return "/dashboard"
	}
	return "/login"
}

// Session is the client-held authenticated identity.
type Session struct {
	Token    string `json:"token"`
	Role     Role   `json:"role"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

// IsAuthenticated reports whether the session carries a usable credential.
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.Token != ""
}
