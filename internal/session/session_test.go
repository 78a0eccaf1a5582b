package session

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/damoang/caption-queue/pkg/cache"
	pkgredis "github.com/damoang/caption-queue/pkg/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	rec, err := store.Create(ctx, "admin", time.Hour)
	require.NoError(t, err)
	assert.Len(t, rec.ID, 36)
	assert.Equal(t, "admin", rec.Username)

	found, err := store.Lookup(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "admin", found.Username)

	other, err := store.Create(ctx, "admin", time.Hour)
	require.NoError(t, err)
	assert.NotEqual(t, rec.ID, other.ID)

	require.NoError(t, store.Destroy(ctx, rec.ID))
	_, err = store.Lookup(ctx, rec.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// other sessions survive a logout
	_, err = store.Lookup(ctx, other.ID)
	assert.NoError(t, err)

	_, err = store.Lookup(ctx, "unknown")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestMemoryStore_Expiry(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	rec, err := store.Create(context.Background(), "admin", time.Minute)
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = store.Lookup(context.Background(), rec.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

// TEST_REDIS_HOST=localhost go test ./internal/session/...
func TestRedisStore(t *testing.T) {
	host := os.Getenv("TEST_REDIS_HOST")
	if host == "" {
		t.Skip("TEST_REDIS_HOST not set")
	}
	port := 6379
	if p := os.Getenv("TEST_REDIS_PORT"); p != "" {
		port, _ = strconv.Atoi(p)
	}

	client, err := pkgredis.NewClient(host, port, "", 15, 2)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	exerciseStore(t, NewRedisStore(cache.NewService(client)))
}
