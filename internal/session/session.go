// Copyright (c) 2026 PageTalk. All rights reserved.
// Author: minh.vule.dev@gmail.com

/*
Package session holds the per-browser session state and the identity resolver.

A session is created on first contact, keyed by an opaque cookie, and lives in
Redis for a bounded TTL. It is the ONLY state PageTalk keeps: bearer tokens,
the anonymous actor ID, catalog preferences, and the discussion view state all
live here and die with the session.

# Identity

Every session resolves to exactly one actor ID:

  - the authenticated username, while a token is held, or
  - a UUID-shaped anonymous ID generated once per session.

The actor ID drives "is this mine" ownership checks and like-membership
checks. Anonymous actors may like reviews but never edit or delete.

# Lifecycle

Initialized by the session-loader middleware, mutated only by login/logout and
the discussion coordinator, torn down by logout (auth state) or TTL expiry
(the whole session).
*/
package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/minhvule/pagetalk/internal/platform/constants"
)

// Session is the complete per-browser state.
type Session struct {
	// ID is the opaque value stored in the session cookie.
	ID string `json:"id"`

	// AnonymousID is the fallback actor identity, generated once and stable
	// for the lifetime of the session.
	AnonymousID string `json:"anonymous_id"`

	// Token is the bearer access token. Empty when not authenticated.
	Token string `json:"token,omitempty"`

	// RefreshToken is used for the one-shot refresh-and-retry on 401.
	RefreshToken string `json:"refresh_token,omitempty"`

	// Username is the authenticated display name. Empty when not authenticated.
	Username string `json:"username,omitempty"`

	// Catalog holds the last-used listing preferences (Home page).
	Catalog CatalogPrefs `json:"catalog"`

	// Thread holds the discussion view state for the book currently open.
	Thread ThreadState `json:"thread"`

	CreatedAt time.Time `json:"created_at"`
}

// CatalogPrefs persists the catalog listing controls across page loads.
type CatalogPrefs struct {
	SearchTerm string `json:"search_term"`
	Page       int    `json:"page"`
	PageSize   int    `json:"page_size"`
}

// ThreadState is the discussion view state for a single book page.
//
// The edit/compose fields realize the per-review and per-reply state machine:
// a zero ID means "viewing"; a non-zero EditingReviewID / EditingReplyID means
// "editing"; a non-zero ReplyingToID means "composing-reply" under that review.
type ThreadState struct {
	// BookID scopes the state. Opening a different book resets everything.
	BookID string `json:"book_id"`

	SortBy string `json:"sort_by"`
	Page   int    `json:"page"`

	// EditingReviewID is the review currently in "editing", 0 when none.
	EditingReviewID int64 `json:"editing_review_id"`
	// ReviewDraft is the edit buffer, seeded with current content on start-edit.
	ReviewDraft string `json:"review_draft"`

	// ReplyingToID is the review currently in "composing-reply", 0 when none.
	ReplyingToID int64 `json:"replying_to_id"`
	ReplyDraft   string `json:"reply_draft"`

	// EditingReplyID is the reply currently in "editing", 0 when none.
	EditingReplyID int64 `json:"editing_reply_id"`
	ReplyEditDraft string `json:"reply_edit_draft"`
}

// New creates a fresh anonymous session with a generated ID pair.
func New() *Session {
	return &Session{
		ID:          uuid.NewString(),
		AnonymousID: uuid.NewString(),
		Catalog: CatalogPrefs{
			Page:     1,
			PageSize: constants.DefaultThreadPageSize,
		},
		Thread: ThreadState{
			SortBy: constants.SortLatest,
			Page:   1,
		},
		CreatedAt: time.Now().UTC(),
	}
}

// Authenticated reports whether the session holds a login.
func (s *Session) Authenticated() bool {
	return s.Token != "" && s.Username != ""
}

// ActorID resolves the stable per-session actor identity.
//
// Authenticated sessions resolve to the username; everyone else resolves to
// the session's anonymous ID. The same value is returned on every call within
// a session.
func (s *Session) ActorID() string {
	if s.Authenticated() {
		return s.Username
	}
	return s.AnonymousID
}

// Owns reports whether the given normalized author display name belongs to the
// current actor. Anonymous sessions own nothing: their anonymous ID never
// appears as an author name, so edit/delete affordances stay hidden.
func (s *Session) Owns(author string) bool {
	return s.Authenticated() && author == s.Username
}

// SetAuth installs a successful login.
func (s *Session) SetAuth(token, refreshToken, username string) {
	s.Token = token
	s.RefreshToken = refreshToken
	s.Username = username
}

// ClearAuth removes the login but keeps the anonymous identity, so likes
// issued before login remain attributable within the session.
func (s *Session) ClearAuth() {
	s.Token = ""
	s.RefreshToken = ""
	s.Username = ""
}

// OpenBook points the thread state at a book, resetting the view when the
// book differs from the one previously open.
func (s *Session) OpenBook(bookID string) {
	if s.Thread.BookID == bookID {
		return
	}
	s.Thread = ThreadState{
		BookID: bookID,
		SortBy: constants.SortLatest,
		Page:   1,
	}
}
