package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/redis/go-redis/v9"
	"github.com/target/storefront-admin/config"
	"github.com/target/storefront-admin/internal/adapters/backend"
	redisadapter "github.com/target/storefront-admin/internal/adapters/redis"
	"github.com/target/storefront-admin/internal/apiclient"
	"github.com/target/storefront-admin/internal/observability/metrics"
)

// AuthStackConfig contains what the session and request plumbing needs.
type AuthStackConfig struct {
	Backend     config.BackendConfig
	Auth        config.AuthConfig
	RedisClient redis.UniversalClient
	Metrics     *metrics.Metrics
	Logger      *slog.Logger
}

// AuthStack is the session store, the backend auth client and the
// authenticated request pipeline built on top of both.
type AuthStack struct {
	Sessions *redisadapter.SessionStore
	Client   *backend.Client
	Pipeline *apiclient.Pipeline
}

// BuildAuthStack wires the Redis session store and the backend auth client
// into the request pipeline. Redis is required: without it no session can
// survive a request.
func BuildAuthStack(cfg AuthStackConfig) (*AuthStack, error) {
	if cfg.RedisClient == nil {
		return nil, errors.New("auth stack requires a redis client")
	}

	httpClient := newBackendHTTPClient(cfg.Backend)
	client, err := backend.NewClient(backend.Config{
		BaseURL:    cfg.Backend.BaseURL,
		HTTPClient: httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("backend auth client: %w", err)
	}

	sessions := redisadapter.NewSessionStoreWithPrefix(cfg.RedisClient, cfg.Auth.SessionPrefix)
	pipeline := apiclient.New(apiclient.Options{
		BaseURL:    cfg.Backend.BaseURL,
		HTTPClient: httpClient,
		Sessions:   sessions,
		Refresher:  client,
		Metrics:    cfg.Metrics,
		Logger:     cfg.Logger,
	})

	return &AuthStack{Sessions: sessions, Client: client, Pipeline: pipeline}, nil
}

// newBackendHTTPClient shares one connection pool between the auth client
// and the pipeline.
func newBackendHTTPClient(cfg config.BackendConfig) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConns = cfg.MaxIdleConns
	transport.MaxIdleConnsPerHost = cfg.MaxIdleConns
	return &http.Client{Timeout: cfg.Timeout, Transport: transport}
}
