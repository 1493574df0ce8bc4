// Copyright (c) 2026 PageTalk. All rights reserved.
// Author: minh.vule.dev@gmail.com

package session

import "context"

// Store persists sessions for their ephemeral lifetime.
//
// Implementations must treat absence as a normal outcome (the browser may
// present a cookie for a session that has already expired).
type Store interface {
	// Get loads a session by ID. Returns apperr.NotFound when absent or expired.
	Get(ctx context.Context, id string) (*Session, error)

	// Save writes the session and refreshes its TTL.
	Save(ctx context.Context, s *Session) error

	// Delete removes the session entirely.
	Delete(ctx context.Context, id string) error
}
