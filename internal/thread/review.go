// Copyright (c) 2026 PageTalk. All rights reserved.
// Author: minh.vule.dev@gmail.com

/*
Package thread assembles, projects, and mutates the per-book discussion.

It is the core of PageTalk:

  - Assembler: merges two independently-fetched collections (reviews and the
    global reply list) into one nested, normalized view model.
  - Projector: pure sorting and paging over the assembled thread.
  - Coordinator: serializes every user action into auth precheck, network
    call, full re-assembly, and view-state reset.

The assembled thread is rebuilt wholesale after every mutation; no client-side
patch of individual fields survives a refetch.
*/
package thread

import (
	"time"

	"github.com/minhvule/pagetalk/internal/backend"
	"github.com/minhvule/pagetalk/internal/platform/constants"
)

// Review is a normalized review with its replies embedded.
type Review struct {
	ID        int64    `json:"id"`
	BookID    string   `json:"bookId"`
	Content   string   `json:"content"`
	Likes     []string `json:"likes"`
	CreatedAt string   `json:"createdAt"`
	Replies   []Reply  `json:"replies"`

	// Author is the normalized display name (the original API called this
	// field userId; the JSON name is kept for the frontend).
	Author string `json:"userId"`
}

// Reply is a normalized reply.
type Reply struct {
	ID        int64  `json:"id"`
	ReviewID  int64  `json:"reviewId"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"`
	Author    string `json:"userId"`
}

// # Normalization

// The backend is inconsistent about author fields: a nested user object, a
// flat username, an authorId, or nothing. Normalization applies one priority
// order everywhere instead of special-casing call sites.

// reviewAuthor resolves a review's display name: nested user object first,
// flat username second, "Unknown" last.
func reviewAuthor(doc backend.ReviewDoc) string {
	if doc.User != nil && doc.User.Username != "" {
		return doc.User.Username
	}
	if doc.Username != "" {
		return doc.Username
	}
	return constants.UnknownAuthor
}

// replyAuthor resolves a reply's display name: nested user object, then the
// flat author fields, then "Unknown".
func replyAuthor(doc backend.ReplyDoc) string {
	if doc.User != nil && doc.User.Username != "" {
		return doc.User.Username
	}
	if doc.AuthorID != "" {
		return doc.AuthorID
	}
	if doc.UserID != "" {
		return doc.UserID
	}
	if doc.Username != "" {
		return doc.Username
	}
	return constants.UnknownAuthor
}

// normalizeReview converts a wire document into the domain shape, coercing
// absent collections to empty slices so nothing downstream sees nil.
func normalizeReview(doc backend.ReviewDoc) Review {
	likes := []string(doc.Likes)
	if likes == nil {
		likes = []string{}
	}

	replies := make([]Reply, 0, len(doc.Replies))
	for _, reply := range doc.Replies {
		replies = append(replies, normalizeReply(reply))
	}

	return Review{
		ID:        doc.ID,
		BookID:    doc.BookID,
		Content:   doc.Content,
		Likes:     likes,
		CreatedAt: doc.CreatedAt,
		Replies:   replies,
		Author:    reviewAuthor(doc),
	}
}

// normalizeReply converts a wire reply into the domain shape.
func normalizeReply(doc backend.ReplyDoc) Reply {
	return Reply{
		ID:        doc.ID,
		ReviewID:  doc.ReviewID,
		Content:   doc.Content,
		CreatedAt: doc.CreatedAt,
		Author:    replyAuthor(doc),
	}
}

// # Timestamps

// createdAtTime parses an ISO 8601 timestamp for sorting. Unparseable values
// sort as the zero time, i.e. to the bottom of a newest-first ordering.
func createdAtTime(value string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts
		}
	}
	return time.Time{}
}

// FormatDate renders a timestamp for display, tolerating invalid input.
func FormatDate(value string) string {
	ts := createdAtTime(value)
	if ts.IsZero() {
		return "Date information unavailable"
	}
	return ts.Format("02/01/2006, 15:04")
}
