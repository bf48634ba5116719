package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/target/storefront-admin/internal/domain/auth"
	"github.com/target/storefront-admin/internal/testutil"
	"golang.org/x/oauth2"
)

// setupTestRedis creates a Redis client for testing.
// Tests will be skipped if Redis is not available.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	return testutil.SetupTestRedis(t)
}

func adminSession(id string, ttl time.Duration) domainauth.Session {
	return domainauth.Session{
		ID: id,
		User: domainauth.User{
			ID:        "user-123",
			Email:     "admin@example.com",
			FirstName: "Ada",
			Role:      domainauth.RoleAdmin,
		},
		Token: oauth2.Token{
			AccessToken:  "access",
			RefreshToken: "refresh",
			TokenType:    "Bearer",
		},
		ExpiresAt: time.Now().Add(ttl),
	}
}

func TestSessionStore_SaveAndGet(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSessionStore(client)
	ctx := context.Background()

	session := adminSession("test-session-1", 30*time.Minute)
	require.NoError(t, store.Save(ctx, session))

	retrieved, err := store.Get(ctx, "test-session-1")
	require.NoError(t, err)
	assert.Equal(t, session.ID, retrieved.ID)
	assert.Equal(t, session.User, retrieved.User)
	assert.Equal(t, "access", retrieved.AccessToken())
	assert.Equal(t, "refresh", retrieved.RefreshToken())
	assert.WithinDuration(t, session.ExpiresAt, retrieved.ExpiresAt, time.Second)
}

func TestSessionStore_SaveRotatedToken(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSessionStore(client)
	ctx := context.Background()

	session := adminSession("test-session-rotate", 30*time.Minute)
	require.NoError(t, store.Save(ctx, session))

	rotated := session.WithToken(oauth2.Token{AccessToken: "access-2", RefreshToken: "refresh-2"})
	require.NoError(t, store.Save(ctx, rotated))

	retrieved, err := store.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, "access-2", retrieved.AccessToken())
	assert.Equal(t, "refresh-2", retrieved.RefreshToken())
}

func TestSessionStore_GetNonExistent(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSessionStore(client)

	_, err := store.Get(context.Background(), "non-existent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionStore_Delete(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSessionStore(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, adminSession("test-session-delete", 30*time.Minute)))

	_, err := store.Get(ctx, "test-session-delete")
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, "test-session-delete"))

	_, err = store.Get(ctx, "test-session-delete")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionStore_TTLExpiration(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSessionStore(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, adminSession("test-session-ttl", 100*time.Millisecond)))

	time.Sleep(200 * time.Millisecond)

	_, err := store.Get(ctx, "test-session-ttl")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionStore_CustomPrefix(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSessionStoreWithPrefix(client, "test-prefix:")
	ctx := context.Background()

	session := adminSession("prefix-test", 30*time.Minute)
	require.NoError(t, store.Save(ctx, session))

	exists := client.Exists(ctx, "test-prefix:prefix-test").Val()
	assert.Equal(t, int64(1), exists)

	retrieved, err := store.Get(ctx, "prefix-test")
	require.NoError(t, err)
	assert.Equal(t, session.ID, retrieved.ID)
}

func TestSessionStore_SaveRejectsInvalid(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSessionStore(client)
	ctx := context.Background()

	tests := []struct {
		name    string
		mutate  func(*domainauth.Session)
		wantErr string
	}{
		{"empty id", func(s *domainauth.Session) { s.ID = "" }, "session ID cannot be empty"},
		{"expired", func(s *domainauth.Session) { s.ExpiresAt = time.Now().Add(-time.Hour) }, "session is expired"},
		{"token without user", func(s *domainauth.Session) { s.User = domainauth.User{} }, "invalid session"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := adminSession("invalid-session", 30*time.Minute)
			tt.mutate(&sess)
			err := store.Save(ctx, sess)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSessionStore_GetEmptyID(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSessionStore(client)

	_, err := store.Get(context.Background(), "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionStore_IDsAndPurge(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewSessionStoreWithPrefix(client, "purge-test:")
	other := NewSessionStoreWithPrefix(client, "keep-test:")
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, adminSession("a", time.Hour)))
	require.NoError(t, store.Save(ctx, adminSession("b", time.Hour)))
	require.NoError(t, other.Save(ctx, adminSession("c", time.Hour)))

	ids, err := store.IDs(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, ids)

	n, err := store.Purge(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	ids, err = store.IDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = other.Get(ctx, "c")
	require.NoError(t, err)
}
