// Copyright (c) 2026 PageTalk. All rights reserved.
// Author: minh.vule.dev@gmail.com

package thread

import "context"

// SnapshotStore caches the last successful assembly per session and book.
//
// The snapshot backs two behaviors: the stale-thread fallback when a refetch
// fails, and the like-toggle computation, which needs the review's current
// likes without forcing an extra refetch first.
type SnapshotStore interface {
	// Load returns the cached thread. Returns apperr.NotFound when absent.
	Load(ctx context.Context, sessionID, bookID string) ([]Review, error)

	// Store replaces the cached thread.
	Store(ctx context.Context, sessionID, bookID string, reviews []Review) error
}
