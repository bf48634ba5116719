package testutil

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisDBCount = 16

// RedisAddr returns REDIS_ADDR, or the compose test profile's port.
func RedisAddr() string {
	return envOr("REDIS_ADDR", "localhost:56379")
}

// SetupTestRedis returns a client on an empty logical database. Parallel
// packages each claim their own database index through a lock key in DB 0.
func SetupTestRedis(t TB) *redis.Client {
	t.Helper()
	addr := RedisAddr()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	meta := redis.NewClient(&redis.Options{Addr: addr})
	if err := meta.Ping(ctx).Err(); err != nil {
		_ = meta.Close()
		unavailable(t, "TEST_REQUIRE_REDIS", "redis at "+addr, err)
		return nil
	}

	db := claimRedisDB(ctx, t, meta)
	client := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	t.Cleanup(func() { _ = client.Close() })

	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("flush redis db %d: %v", db, err)
	}
	return client
}

// claimRedisDB picks TEST_REDIS_DB when set, else the first free index in
// 1..15. The claim is released on cleanup.
func claimRedisDB(ctx context.Context, t TB, meta *redis.Client) int {
	if v := os.Getenv("TEST_REDIS_DB"); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i >= 0 {
			_ = meta.Close()
			return i
		}
		t.Logf("ignoring invalid TEST_REDIS_DB=%q", v)
	}

	owner := fmt.Sprintf("%d:%d", os.Getpid(), time.Now().UnixNano())
	for i := 1; i < redisDBCount; i++ {
		key := fmt.Sprintf("storefront-admin:test-db:%d", i)
		ok, err := meta.SetNX(ctx, key, owner, 30*time.Minute).Result()
		if err != nil || !ok {
			continue
		}
		t.Cleanup(func() {
			releaseCtx, releaseCancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer releaseCancel()
			_ = meta.Del(releaseCtx, key).Err()
			_ = meta.Close()
		})
		return i
	}
	_ = meta.Close()
	return 1
}
