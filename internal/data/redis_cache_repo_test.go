package data

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/storefront-admin/internal/testutil"
)

func TestRedisCacheRepo_SetGetDelete(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	client := testutil.SetupTestRedis(t)
	repo := NewRedisCacheRepoWithNamespace(client, "test:cache:")
	ctx := context.Background()

	t.Run("set and get", func(t *testing.T) {
		require.NoError(t, repo.Set(ctx, "categories:tree", []byte(`[{"name":"Shoes"}]`), time.Minute))

		got, err := repo.Get(ctx, "categories:tree")
		require.NoError(t, err)
		assert.JSONEq(t, `[{"name":"Shoes"}]`, string(got))

		ttl := client.TTL(ctx, "test:cache:categories:tree").Val()
		assert.True(t, ttl > 0 && ttl <= time.Minute)
	})

	t.Run("missing key", func(t *testing.T) {
		got, err := repo.Get(ctx, "nope")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Set(ctx, "gone", []byte("x"), 0))

		deleted, err := repo.Delete(ctx, "gone")
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = repo.Delete(ctx, "gone")
		require.NoError(t, err)
		assert.False(t, deleted)
	})

	t.Run("namespace isolates keys", func(t *testing.T) {
		require.NoError(t, client.Set(ctx, "admin-session:abc", "session", time.Minute).Err())

		deleted, err := repo.Delete(ctx, "admin-session:abc")
		require.NoError(t, err)
		assert.False(t, deleted)
		assert.Equal(t, int64(1), client.Exists(ctx, "admin-session:abc").Val())
	})

	t.Run("health", func(t *testing.T) {
		assert.NoError(t, repo.Health(ctx))
	})
}

func TestRedisCacheRepo_EmptyKey(t *testing.T) {
	// Validation fails before any command is sent, so no server is needed.
	repo := NewRedisCacheRepo(nil)
	ctx := context.Background()

	require.ErrorIs(t, repo.Set(ctx, "", []byte("v"), time.Minute), errEmptyKey)

	_, err := repo.Get(ctx, "")
	require.ErrorIs(t, err, errEmptyKey)

	_, err = repo.Delete(ctx, "")
	require.ErrorIs(t, err, errEmptyKey)
}
