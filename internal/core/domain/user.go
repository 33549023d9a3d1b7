package domain

import "errors"

const RoleAdmin = "admin"

var ErrUnauthorized = errors.New("user not authenticated")
var ErrForbidden = errors.New("access forbidden")
var ErrUserNotFound = errors.New("user not found")
var ErrSessionRevoked = errors.New("session revoked")
var ErrIdentityUnavailable = errors.New("identity provider unavailable")

// User is the identity returned by the external identity provider.
type User struct {
	ID      string `json:"id"`
	Email   string `json:"email,omitempty"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
}

// Actor is the caller of a workflow operation as resolved by the request guard.
type Actor struct {
	UserID  string
	IsAdmin bool
}

// Authenticated reports whether the actor carries a user id.
func (a Actor) Authenticated() bool {
	return a.UserID != ""
}

// RequireUser fails with ErrUnauthorized for anonymous actors.
func (a Actor) RequireUser() error {
	if !a.Authenticated() {
		return ErrUnauthorized
	}
	return nil
}

// RequireAdmin fails with ErrUnauthorized for anonymous actors and
// ErrForbidden for authenticated non-admins.
func (a Actor) RequireAdmin() error {
	if err := a.RequireUser(); err != nil {
		return err
	}
	if !a.IsAdmin {
		return ErrForbidden
	}
	return nil
}
