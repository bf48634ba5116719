package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"

	domainauth "github.com/target/storefront-admin/internal/domain/auth"
	"golang.org/x/oauth2"
)

// LoginInput carries the credentials submitted on the sign-in form.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult is what the backend hands back after a successful sign-in.
type LoginResult struct {
	User  domainauth.User
	Token oauth2.Token
}

// TokenRefresher exchanges a refresh token for a rotated credential pair.
// Implementations must not route through the authenticated request pipeline.
type TokenRefresher interface {
	Refresh(ctx context.Context, refreshToken string) (oauth2.Token, error)
}

// AuthBackend is the storefront backend's auth surface.
type AuthBackend interface {
	TokenRefresher

	// Login verifies credentials and returns the account and its tokens.
	Login(ctx context.Context, in LoginInput) (LoginResult, error)

	// Logout revokes the refresh token server-side. Best effort.
	Logout(ctx context.Context, accessToken, refreshToken string) error
}

// SessionStore persists and retrieves admin sessions.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}
