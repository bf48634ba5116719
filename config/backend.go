package config

import (
	"strings"
	"time"
)

// BackendConfig describes the storefront REST API the dashboard administers.
type BackendConfig struct {
	// BaseURL is the API root, e.g. "http://localhost:5000/api".
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:5000/api"`

	// Timeout bounds a single outbound request, including the refresh call.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"15s"`

	MaxIdleConns int `env:"MAX_IDLE_CONNS" envDefault:"32"`
}

// Sanitize applies guardrails to backend configuration values.
func (b *BackendConfig) Sanitize() {
	b.BaseURL = strings.TrimRight(strings.TrimSpace(b.BaseURL), "/")
	if b.Timeout <= 0 {
		b.Timeout = 15 * time.Second
	}
	if b.MaxIdleConns < 1 {
		b.MaxIdleConns = 1
	}
}
