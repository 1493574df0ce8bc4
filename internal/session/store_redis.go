// Copyright (c) 2026 PageTalk. All rights reserved.
// Author: minh.vule.dev@gmail.com

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/minhvule/pagetalk/internal/platform/apperr"
)

// RedisStore implements [Store] using Redis with a per-session TTL.
//
// # Ephemerality
//
// Redis is the only copy of session state. The TTL is refreshed on every
// Save, so an active browser keeps its session alive and an abandoned one
// evaporates on its own.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// key generates the Redis key for a session ID.
func (store *RedisStore) key(id string) string {
	return fmt.Sprintf("session:%s", id)
}

/*
Get loads a session by ID.

Returns:
  - *Session: The stored session
  - error: apperr.NotFound when absent or expired, or connectivity errors
*/
func (store *RedisStore) Get(ctx context.Context, id string) (*Session, error) {

	payload, err := store.client.Get(ctx, store.key(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperr.NotFound("Session")
		}
		return nil, fmt.Errorf("redis_session_get_failed: %w", err)
	}

	sess := &Session{}
	if err := json.Unmarshal([]byte(payload), sess); err != nil {
		// A corrupt record is as good as a missing one: the loader will
		// mint a fresh session rather than fail the request.
		return nil, apperr.NotFound("Session")
	}

	return sess, nil
}

/*
Save writes the session and refreshes its TTL.

Parameters:
  - ctx: context.Context
  - s: *Session

Returns:
  - error: Marshalling or connectivity errors
*/
func (store *RedisStore) Save(ctx context.Context, s *Session) error {

	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("redis_session_marshal_failed: %w", err)
	}

	if err := store.client.Set(ctx, store.key(s.ID), payload, store.ttl).Err(); err != nil {
		return fmt.Errorf("redis_session_save_failed: %w", err)
	}

	return nil
}

// Delete removes the session entirely.
func (store *RedisStore) Delete(ctx context.Context, id string) error {
	if err := store.client.Del(ctx, store.key(id)).Err(); err != nil {
		return fmt.Errorf("redis_session_delete_failed: %w", err)
	}
	return nil
}
