// Package core holds the ports the admin services depend on and small helpers built on them.
package core

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

// CacheRepository is a byte-oriented key/value cache with expiry.
type CacheRepository interface {
	// Set stores value under key. A zero ttl never expires.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Get returns nil, nil when the key is missing or expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete reports whether the key existed.
	Delete(ctx context.Context, key string) (bool, error)

	Health(ctx context.Context) error
}

// JSONCacheOptions configures a JSONCache.
type JSONCacheOptions struct {
	Cache  CacheRepository
	Key    string
	TTL    time.Duration
	Logger *slog.Logger
}

// JSONCache memoizes one JSON-encodable value under a fixed key. Cache
// failures are logged and fall through to the loader; they never fail a read.
type JSONCache[T any] struct {
	cache  CacheRepository
	key    string
	ttl    time.Duration
	logger *slog.Logger
}

// NewJSONCache returns a cache for a single value. A nil repository disables caching.
func NewJSONCache[T any](opts JSONCacheOptions) *JSONCache[T] {
	return &JSONCache[T]{
		cache:  opts.Cache,
		key:    opts.Key,
		ttl:    opts.TTL,
		logger: opts.Logger,
	}
}

func (c *JSONCache[T]) log() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return slog.Default()
}

// Load returns the cached value, or calls load and caches its result.
// Loader errors are returned as is and nothing is cached.
func (c *JSONCache[T]) Load(ctx context.Context, load func(context.Context) (T, error)) (T, error) {
	if c == nil || c.cache == nil {
		return load(ctx)
	}

	raw, err := c.cache.Get(ctx, c.key)
	if err != nil {
		c.log().WarnContext(ctx, "cache read failed", "key", c.key, "error", err)
	} else if len(raw) > 0 {
		var cached T
		if uerr := json.Unmarshal(raw, &cached); uerr == nil {
			return cached, nil
		}
		c.log().WarnContext(ctx, "discarding undecodable cache entry", "key", c.key)
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		c.log().WarnContext(ctx, "cache encode failed", "key", c.key, "error", err)
		return value, nil
	}
	if err := c.cache.Set(ctx, c.key, encoded, c.ttl); err != nil {
		c.log().WarnContext(ctx, "cache write failed", "key", c.key, "error", err)
	}
	return value, nil
}

// Invalidate drops the cached value.
func (c *JSONCache[T]) Invalidate(ctx context.Context) {
	if c == nil || c.cache == nil {
		return
	}
	if _, err := c.cache.Delete(ctx, c.key); err != nil {
		c.log().WarnContext(ctx, "cache invalidate failed", "key", c.key, "error", err)
	}
}
