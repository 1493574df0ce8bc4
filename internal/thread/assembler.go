// Copyright (c) 2026 PageTalk. All rights reserved.
// Author: minh.vule.dev@gmail.com

package thread

import (
	"context"
	"log/slog"
	"sync"

	"github.com/minhvule/pagetalk/internal/backend"
	"github.com/minhvule/pagetalk/internal/session"
)

// ReadGateway is the subset of the backend contract the assembler consumes.
type ReadGateway interface {
	ReviewsByBook(ctx context.Context, bookID string) ([]backend.ReviewDoc, error)
	AllReplies(ctx context.Context) ([]backend.ReplyDoc, error)
}

// Assembler builds the nested review/reply view model for one book.
//
// # Contract
//
// Two independent fetches — the book's reviews and the ENTIRE global reply
// collection — are issued concurrently and awaited jointly; neither depends
// on the other, and partial assembly from only one completed fetch is not a
// supported state. The global fetch exists for reconciliation: downstream
// display logic depends on review.Replies being populated even when the
// reviews endpoint and the replies endpoint disagree on shape.
//
// Assembly is idempotent given unchanged server state and is re-run after
// every mutation.
type Assembler struct {
	gateway   ReadGateway
	snapshots SnapshotStore
	log       *slog.Logger
}

// NewAssembler constructs an [Assembler].
func NewAssembler(gateway ReadGateway, snapshots SnapshotStore, log *slog.Logger) *Assembler {
	return &Assembler{
		gateway:   gateway,
		snapshots: snapshots,
		log:       log.With(slog.String("component", "assembler")),
	}
}

/*
Assemble produces the normalized thread for a book.

Description: On fetch failure the previously assembled thread for this
session+book is returned instead when one exists — stale-but-present data
beats a blank screen. No automatic retry is attempted.

Parameters:
  - ctx: context.Context — cancelling it abandons both in-flight fetches
  - sess: Browser session (scopes the stale-thread fallback)
  - bookID: Routable catalog key

Returns:
  - []Review: Normalized reviews with replies populated (possibly empty, never nil)
  - error: Only when fetching failed AND no previous assembly exists
*/
func (a *Assembler) Assemble(ctx context.Context, sess *session.Session, bookID string) ([]Review, error) {

	// ── 1. Joint dispatch ─────────────────────────────────────────────────
	var (
		wg         sync.WaitGroup
		reviewDocs []backend.ReviewDoc
		replyDocs  []backend.ReplyDoc
		reviewsErr error
		repliesErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		reviewDocs, reviewsErr = a.gateway.ReviewsByBook(ctx, bookID)
	}()
	go func() {
		defer wg.Done()
		replyDocs, repliesErr = a.gateway.AllReplies(ctx)
	}()
	wg.Wait()

	// ── 2. Joint await: both or nothing ───────────────────────────────────
	if reviewsErr != nil || repliesErr != nil {
		err := reviewsErr
		if err == nil {
			err = repliesErr
		}
		a.log.ErrorContext(ctx, "thread_assembly_fetch_failed",
			slog.String("book_id", bookID),
			slog.Any("error", err),
		)

		// Stale fallback: keep showing what we had.
		if stale, snapErr := a.snapshots.Load(ctx, sess.ID, bookID); snapErr == nil {
			a.log.WarnContext(ctx, "thread_assembly_serving_stale", slog.String("book_id", bookID))
			return stale, nil
		}
		return nil, err
	}

	// ── 3. Normalize and reconcile ────────────────────────────────────────
	reviews := assemble(reviewDocs, replyDocs)

	// ── 4. Snapshot for the stale fallback and like computation ───────────
	if err := a.snapshots.Store(ctx, sess.ID, bookID, reviews); err != nil {
		// Snapshot loss only weakens the fallback; the assembly itself is fine.
		a.log.WarnContext(ctx, "thread_snapshot_store_failed", slog.Any("error", err))
	}

	return reviews, nil
}

// assemble is the pure merge of the two collections.
func assemble(reviewDocs []backend.ReviewDoc, replyDocs []backend.ReplyDoc) []Review {
	reviews := make([]Review, 0, len(reviewDocs))
	for _, doc := range reviewDocs {
		reviews = append(reviews, normalizeReview(doc))
	}

	// Group stray replies under their review. Embedded replies win; the
	// global collection only contributes replies the review document missed.
	for index := range reviews {
		review := &reviews[index]

		seen := make(map[int64]bool, len(review.Replies))
		for _, reply := range review.Replies {
			seen[reply.ID] = true
		}

		for _, doc := range replyDocs {
			if doc.ReviewID != review.ID || seen[doc.ID] {
				continue
			}
			review.Replies = append(review.Replies, normalizeReply(doc))
			seen[doc.ID] = true
		}
	}

	return reviews
}
