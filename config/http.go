package config

// HTTPConfig covers the listener and browser-facing settings.
type HTTPConfig struct {
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	// BaseURL is the public origin of the dashboard, e.g. https://admin.example.com.
	BaseURL string `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`

	// CookieDomain scopes the session and CSRF cookies. Empty means host-only.
	CookieDomain string `env:"APP_COOKIE_DOMAIN" envDefault:""`

	// Gzip for HTML, CSS, JS and JSON responses. Level is clamped to 1..9.
	CompressionEnabled bool `env:"HTTP_COMPRESSION_ENABLED" envDefault:"false"`
	CompressionLevel   int  `env:"HTTP_COMPRESSION_LEVEL"   envDefault:"6"`

	// Token bucket per client IP for POST /auth/login.
	LoginRateBurst     int `env:"HTTP_LOGIN_RATE_BURST"      envDefault:"5"`
	LoginRatePerMinute int `env:"HTTP_LOGIN_RATE_PER_MINUTE" envDefault:"10"`
}

func (h *HTTPConfig) Sanitize() {
	h.CompressionLevel = min(max(h.CompressionLevel, 1), 9)
	h.LoginRateBurst = max(h.LoginRateBurst, 1)
	h.LoginRatePerMinute = max(h.LoginRatePerMinute, 1)
}
