package config

import (
	"strings"
	"time"
)

const (
	defaultSessionTTL    = 7 * 24 * time.Hour
	defaultSessionPrefix = "admin-session:"
)

// AuthConfig groups session and login configuration.
type AuthConfig struct {
	// SessionTTL bounds a session when the refresh token carries no readable expiry.
	SessionTTL time.Duration `env:"AUTH_SESSION_TTL" envDefault:"168h"`

	// SessionPrefix namespaces session keys in Redis.
	SessionPrefix string `env:"AUTH_SESSION_PREFIX" envDefault:"admin-session:"`

	// AdminRole is the backend role allowed to sign in to the dashboard.
	AdminRole string `env:"AUTH_ADMIN_ROLE" envDefault:"admin"`
}

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize() {
	if a.SessionTTL <= 0 {
		a.SessionTTL = defaultSessionTTL
	}
	if a.SessionPrefix = strings.TrimSpace(a.SessionPrefix); a.SessionPrefix == "" {
		a.SessionPrefix = defaultSessionPrefix
	}
	if a.AdminRole = strings.ToLower(strings.TrimSpace(a.AdminRole)); a.AdminRole == "" {
		a.AdminRole = "admin"
	}
}
