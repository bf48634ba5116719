package config

import "time"

// DBConfig contains PostgreSQL database configuration.
// Postgres backs the admin activity log only; the dashboard runs without it.
type DBConfig struct {
	Enabled  bool   `env:"ENABLED"                 envDefault:"true"`
	Host     string `env:"HOST"                    envDefault:"localhost"`
	Port     int    `env:"PORT"                    envDefault:"5432"`
	User     string `env:"USER"                    envDefault:"storefront"`
	Password string `env:"PASSWORD"                envDefault:"storefront"`
	Name     string `env:"NAME"                    envDefault:"storefront_admin"`
	SSLMode  string `env:"SSL_MODE"                envDefault:"disable"` // Use 'disable' for local dev, 'require' for production
	// RunMigrationsOnStart controls whether the application automatically applies migrations during startup.
	RunMigrationsOnStart bool          `env:"RUN_MIGRATIONS_ON_START" envDefault:"true"`
	MaxOpenConns         int           `env:"MAX_OPEN_CONNS"          envDefault:"10"`
	MaxIdleConns         int           `env:"MAX_IDLE_CONNS"          envDefault:"2"`
	ConnMaxLifetime      time.Duration `env:"CONN_MAX_LIFETIME"       envDefault:"5m"`
}

// RedisConfig contains Redis configuration.
type RedisConfig struct {
	URI                string   `env:"URI"                  envDefault:"localhost:6379"`
	Password           string   `env:"PASSWORD"             envDefault:""`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
	ClusterNodes       []string `env:"CLUSTER_NODES"        envDefault:""`
	UseCluster         bool     `env:"USE_CLUSTER"          envDefault:"false"`
}

// CacheConfig contains cache configuration (Redis-based).
type CacheConfig struct {
	// CategoryTreeTTL is how long the category tree is served from cache.
	// Zero disables caching.
	CategoryTreeTTL time.Duration `env:"CACHE_CATEGORY_TREE_TTL" envDefault:"60s"`
}

// Sanitize applies guardrails to cache configuration values.
func (c *CacheConfig) Sanitize() {
	if c.CategoryTreeTTL < 0 {
		c.CategoryTreeTTL = 0
	}
}
