package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// Role represents a storefront account role as reported by the backend.
// Keep string form for easy persistence and cookies.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

// User is the cached profile of the signed-in administrator.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      Role   `json:"role"`
}

// DisplayName joins first and last name, falling back to the email address.
func (u User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}

// Initial returns the first letter of the display name for avatar fallbacks.
func (u User) Initial() string {
	name := u.DisplayName()
	if name == "" {
		return "?"
	}
	return strings.ToUpper(string([]rune(name)[0]))
}

// Session is the server-side record we persist for an authenticated administrator.
// ID is an opaque session identifier handed to the browser as a cookie.
// Token holds the backend credential pair; its AccessToken and User are set
// and cleared together.
type Session struct {
	ID        string       `json:"id"`
	User      User         `json:"user"`
	Token     oauth2.Token `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// ErrSessionNotFound is returned by session stores for unknown or expired IDs.
var ErrSessionNotFound = errors.New("session not found")

var (
	errMissingUser  = errors.New("session has an access token but no user")
	errMissingToken = errors.New("session has a user but no access token")
)

// Validate enforces that credentials and identity travel together.
func (s Session) Validate() error {
	hasToken := s.Token.AccessToken != ""
	hasUser := s.User.ID != ""
	switch {
	case hasToken && !hasUser:
		return errMissingUser
	case hasUser && !hasToken:
		return errMissingToken
	}
	return nil
}

// IsAuthenticated reports whether the session carries both a token and a user.
func (s Session) IsAuthenticated() bool {
	return s.Token.AccessToken != "" && s.User.ID != ""
}

// IsAdmin reports whether the cached user holds the admin role.
func (s Session) IsAdmin() bool { return s.User.Role == RoleAdmin }

// AccessToken returns the bearer credential, or "" when signed out.
func (s Session) AccessToken() string { return s.Token.AccessToken }

// RefreshToken returns the refresh credential, or "" when none is stored.
func (s Session) RefreshToken() string { return s.Token.RefreshToken }

// WithToken returns a copy of the session carrying a rotated credential pair.
func (s Session) WithToken(tok oauth2.Token) Session {
	s.Token = tok
	return s
}
