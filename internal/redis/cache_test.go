package redis

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"threadline/internal/domain/thread"
)

func newTestStore(t *testing.T) (*CacheStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCacheStore(client, DefaultCacheConfig()), mr
}

func TestActiveThreadCache_roundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	entry := thread.Thread{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		Title:     sql.NullString{String: "support", Valid: true},
		Status:    thread.StatusActive,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, store.SetActiveThread(ctx, &entry))

	cached, err := store.GetActiveThread(ctx, entry.UserID)
	require.NoError(t, err)
	require.NotNil(t, cached)

	assert.Equal(t, entry.ID, cached.ThreadID)
	assert.Equal(t, entry.UserID, cached.UserID)
	assert.Equal(t, "support", cached.Title)
	assert.True(t, entry.CreatedAt.Equal(cached.CreatedAt))
}

func TestActiveThreadCache_missReturnsNil(t *testing.T) {
	store, _ := newTestStore(t)

	cached, err := store.GetActiveThread(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, cached)
}

func TestActiveThreadCache_invalidate(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	entry := thread.Thread{ID: uuid.New(), UserID: uuid.New(), Status: thread.StatusActive}
	require.NoError(t, store.SetActiveThread(ctx, &entry))
	require.NoError(t, store.InvalidateActiveThread(ctx, entry.UserID))

	cached, err := store.GetActiveThread(ctx, entry.UserID)
	require.NoError(t, err)
	assert.Nil(t, cached)
}

func TestActiveThreadCache_expires(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	entry := thread.Thread{ID: uuid.New(), UserID: uuid.New(), Status: thread.StatusActive}
	require.NoError(t, store.SetActiveThread(ctx, &entry))

	mr.FastForward(DefaultCacheConfig().ActiveThreadTTL + time.Second)

	cached, err := store.GetActiveThread(ctx, entry.UserID)
	require.NoError(t, err)
	assert.Nil(t, cached)
}
