// Copyright (c) 2026 PageTalk. All rights reserved.
// Author: minh.vule.dev@gmail.com

package thread

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/minhvule/pagetalk/internal/platform/apperr"
)

// snapshotTTL bounds how stale a served thread can get. A fallback older
// than this is worse than the not-found panel.
const snapshotTTL = 15 * time.Minute

// RedisSnapshotStore implements [SnapshotStore] on Redis with a short TTL.
type RedisSnapshotStore struct {
	client *redis.Client
}

// NewRedisSnapshotStore creates a Redis-backed snapshot store.
func NewRedisSnapshotStore(client *redis.Client) *RedisSnapshotStore {
	return &RedisSnapshotStore{client: client}
}

// key scopes snapshots to one session and one book.
func (store *RedisSnapshotStore) key(sessionID, bookID string) string {
	return fmt.Sprintf("thread:%s:%s", sessionID, bookID)
}

// Load returns the cached thread for a session+book pair.
func (store *RedisSnapshotStore) Load(ctx context.Context, sessionID, bookID string) ([]Review, error) {

	payload, err := store.client.Get(ctx, store.key(sessionID, bookID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperr.NotFound("Thread snapshot")
		}
		return nil, fmt.Errorf("redis_snapshot_load_failed: %w", err)
	}

	var reviews []Review
	if err := json.Unmarshal([]byte(payload), &reviews); err != nil {
		return nil, apperr.NotFound("Thread snapshot")
	}
	if reviews == nil {
		reviews = []Review{}
	}

	return reviews, nil
}

// Store replaces the cached thread for a session+book pair.
func (store *RedisSnapshotStore) Store(ctx context.Context, sessionID, bookID string, reviews []Review) error {

	payload, err := json.Marshal(reviews)
	if err != nil {
		return fmt.Errorf("redis_snapshot_marshal_failed: %w", err)
	}

	if err := store.client.Set(ctx, store.key(sessionID, bookID), payload, snapshotTTL).Err(); err != nil {
		return fmt.Errorf("redis_snapshot_store_failed: %w", err)
	}

	return nil
}
