// Package config declares the dashboard's environment-driven settings.
// Each concern lives in its own file and is parsed with caarlos0/env:
//   - auth.go: sessions and the admin role gate
//   - backend.go: the storefront REST API client
//   - database.go: Postgres (activity log), Redis and cache TTLs
//   - http.go: listener, cookies, compression and login throttling
//   - observability.go: metrics endpoint and log output
package config

import (
	"os"
	"strings"
)

// AppConfig is the root of the configuration tree.
type AppConfig struct {
	// IsDev serves templates and static files from disk and disables
	// caching. NODE_ENV=development also turns it on.
	IsDev bool `env:"DEV" envDefault:"false"`

	Auth    AuthConfig
	Backend BackendConfig `envPrefix:"BACKEND_"`

	Postgres DBConfig    `envPrefix:"DB_"`
	Redis    RedisConfig `envPrefix:"REDIS_"`
	Cache    CacheConfig

	HTTP          HTTPConfig
	Observability ObservabilityConfig
}

// Sanitize clamps and normalises values after parsing.
func (c *AppConfig) Sanitize() {
	c.HTTP.Sanitize()
	c.Auth.Sanitize()
	c.Backend.Sanitize()
	c.Cache.Sanitize()
	c.Observability.Sanitize()

	if !c.IsDev {
		switch strings.ToLower(os.Getenv("NODE_ENV")) {
		case "development", "dev":
			c.IsDev = true
		}
	}
}

// IsActivityLogEnabled reports whether admin mutations are recorded to Postgres.
func (c *AppConfig) IsActivityLogEnabled() bool {
	return c.Postgres.Enabled
}
