// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.
package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	domainauth "github.com/target/storefront-admin/internal/domain/auth"
	"github.com/target/storefront-admin/internal/ports"
	"golang.org/x/oauth2"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.AuthBackend  = (*FakeBackend)(nil)
	_ ports.SessionStore = (*MemorySessionStore)(nil)
)

// FakeBackend simulates the storefront auth endpoints with deterministic tokens.
type FakeBackend struct {
	LoginFunc   func(ctx context.Context, in ports.LoginInput) (ports.LoginResult, error)
	RefreshFunc func(ctx context.Context, refreshToken string) (oauth2.Token, error)
	LogoutFunc  func(ctx context.Context, accessToken, refreshToken string) error

	// DefaultUser is returned by Login when LoginFunc is nil.
	DefaultUser domainauth.User

	refreshCalls atomic.Int32
	logoutCalls  atomic.Int32
	rotations    atomic.Int32
}

// NewFakeBackend creates a FakeBackend that signs in an admin account.
func NewFakeBackend() *FakeBackend {
	return &FakeBackend{
		DefaultUser: domainauth.User{
			ID:        "admin-1",
			Email:     "admin@example.com",
			FirstName: "Ada",
			LastName:  "Admin",
			Role:      domainauth.RoleAdmin,
		},
	}
}

func (f *FakeBackend) Login(ctx context.Context, in ports.LoginInput) (ports.LoginResult, error) {
	if f.LoginFunc != nil {
		return f.LoginFunc(ctx, in)
	}
	return ports.LoginResult{
		User: f.DefaultUser,
		Token: oauth2.Token{
			AccessToken:  "access-0",
			RefreshToken: "refresh-0",
			TokenType:    "Bearer",
			Expiry:       time.Now().Add(15 * time.Minute),
		},
	}, nil
}

func (f *FakeBackend) Refresh(ctx context.Context, refreshToken string) (oauth2.Token, error) {
	f.refreshCalls.Add(1)
	if f.RefreshFunc != nil {
		return f.RefreshFunc(ctx, refreshToken)
	}
	if refreshToken == "" {
		return oauth2.Token{}, errors.New("no refresh token")
	}
	n := f.rotations.Add(1)
	return oauth2.Token{
		AccessToken:  fmt.Sprintf("access-%d", n),
		RefreshToken: fmt.Sprintf("refresh-%d", n),
		TokenType:    "Bearer",
		Expiry:       time.Now().Add(15 * time.Minute),
	}, nil
}

func (f *FakeBackend) Logout(ctx context.Context, accessToken, refreshToken string) error {
	f.logoutCalls.Add(1)
	if f.LogoutFunc != nil {
		return f.LogoutFunc(ctx, accessToken, refreshToken)
	}
	return nil
}

// RefreshCalls reports how many times Refresh was invoked.
func (f *FakeBackend) RefreshCalls() int { return int(f.refreshCalls.Load()) }

// LogoutCalls reports how many times Logout was invoked.
func (f *FakeBackend) LogoutCalls() int { return int(f.logoutCalls.Load()) }

// MemorySessionStore is an in-memory session store for unit tests.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domainauth.Session
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]domainauth.Session),
	}
}

func (m *MemorySessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.ID] = sess
	return nil
}

func (m *MemorySessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[id]
	if !ok || id == "" {
		return domainauth.Session{}, domainauth.ErrSessionNotFound
	}
	return sess, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// Len returns the number of stored sessions.
func (m *MemorySessionStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
