// Copyright (c) 2026 PageTalk. All rights reserved.
// Author: minh.vule.dev@gmail.com

package thread

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhvule/pagetalk/internal/platform/apperr"
)

func newTestSnapshotStore(t *testing.T) (*RedisSnapshotStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisSnapshotStore(client), mr
}

/*
TestRedisSnapshotStore_RoundTrip stores and reloads an assembled thread.
*/
func TestRedisSnapshotStore_RoundTrip(t *testing.T) {
	store, _ := newTestSnapshotStore(t)
	ctx := context.Background()

	reviews := []Review{
		{ID: 1, BookID: "OL1W", Content: "great", Likes: []string{"alice"}, Author: "bob",
			Replies: []Reply{{ID: 10, ReviewID: 1, Content: "agreed", Author: "carol"}}},
	}
	require.NoError(t, store.Store(ctx, "sess-1", "OL1W", reviews))

	loaded, err := store.Load(ctx, "sess-1", "OL1W")
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "great", loaded[0].Content)
	require.Len(t, loaded[0].Replies, 1)
	assert.Equal(t, "carol", loaded[0].Replies[0].Author)
}

/*
TestRedisSnapshotStore_ScopedKeys verifies snapshots are isolated per
session and per book.
*/
func TestRedisSnapshotStore_ScopedKeys(t *testing.T) {
	store, _ := newTestSnapshotStore(t)
	ctx := context.Background()

	require.NoError(t, store.Store(ctx, "sess-1", "OL1W", []Review{{ID: 1}}))

	_, err := store.Load(ctx, "sess-2", "OL1W")
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)

	_, err = store.Load(ctx, "sess-1", "OL2W")
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

/*
TestRedisSnapshotStore_Expiry verifies stale snapshots evaporate.
*/
func TestRedisSnapshotStore_Expiry(t *testing.T) {
	store, mr := newTestSnapshotStore(t)
	ctx := context.Background()

	require.NoError(t, store.Store(ctx, "sess-1", "OL1W", []Review{{ID: 1}}))
	mr.FastForward(16 * time.Minute)

	_, err := store.Load(ctx, "sess-1", "OL1W")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}
