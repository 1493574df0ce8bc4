// Copyright (c) 2026 PageTalk. All rights reserved.
// Author: minh.vule.dev@gmail.com

package backend

// Wire documents mirror the backend's JSON shapes as loosely as the server
// actually sends them. The server is inconsistent about author fields — a
// nested user object, a flat username, an authorId, or nothing at all — so
// every variant is captured here and the thread assembler decides which one
// wins. Display-layer normalization does NOT belong in this package.

// UserDoc is the nested author object some responses embed.
type UserDoc struct {
	Username string `json:"username"`
}

// ReviewDoc is a review as returned by GET /reviews.
type ReviewDoc struct {
	ID        int64      `json:"id"`
	BookID    string     `json:"bookId"`
	Content   string     `json:"content"`
	Likes     StringList `json:"likes"`
	CreatedAt string     `json:"createdAt"`
	Replies   []ReplyDoc `json:"replies"`
	User      *UserDoc   `json:"user"`
	Username  string     `json:"username"`
}

// ReplyDoc is a reply as returned by GET /replies (or embedded in a review).
type ReplyDoc struct {
	ID        int64    `json:"id"`
	ReviewID  int64    `json:"reviewId"`
	Content   string   `json:"content"`
	CreatedAt string   `json:"createdAt"`
	User      *UserDoc `json:"user"`
	Username  string   `json:"username"`
	AuthorID  string   `json:"authorId"`
	UserID    string   `json:"userId"`
}

// StringList decodes a JSON array of strings, tolerating the shapes the
// backend has been observed to send instead: null, a missing field, or a
// non-array value all decode to an empty list rather than failing the whole
// payload.
type StringList []string

// UnmarshalJSON implements tolerant decoding for [StringList].
func (l *StringList) UnmarshalJSON(data []byte) error {
	var values []string
	if err := codec.Unmarshal(data, &values); err != nil {
		// Non-sequence value: coerce to empty rather than propagate.
		*l = StringList{}
		return nil
	}
	if values == nil {
		values = []string{}
	}
	*l = values
	return nil
}

// CreateReviewInput is the body for POST /reviews.
type CreateReviewInput struct {
	BookID  string   `json:"bookId"`
	Content string   `json:"content"`
	Likes   []string `json:"likes"`
}

// UpdateReviewInput is the FULL review payload for PUT /reviews/{id}.
//
// The backend replaces the record wholesale, so everything except the edited
// content must be carried over unchanged from the assembled review.
type UpdateReviewInput struct {
	Content   string     `json:"content"`
	BookID    string     `json:"bookId"`
	Likes     []string   `json:"likes"`
	CreatedAt string     `json:"createdAt"`
	Replies   []ReplyDoc `json:"replies"`
}

// ReplyInput is the body for creating or updating a reply.
type ReplyInput struct {
	Content string `json:"content"`
}

// TokenResponse is the body of a successful POST /authenticate.
type TokenResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}
