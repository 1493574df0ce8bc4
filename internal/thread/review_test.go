// Copyright (c) 2026 PageTalk. All rights reserved.
// Author: minh.vule.dev@gmail.com

package thread

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/minhvule/pagetalk/internal/backend"
)

/*
TestReviewAuthor_Priority checks the author resolution order for reviews:
nested user object, flat username, then the fallback name.
*/
func TestReviewAuthor_Priority(t *testing.T) {
	tests := []struct {
		name string
		doc  backend.ReviewDoc
		want string
	}{
		{"nested_user", backend.ReviewDoc{User: &backend.UserDoc{Username: "alice"}, Username: "bob"}, "alice"},
		{"flat_username", backend.ReviewDoc{Username: "bob"}, "bob"},
		{"nested_empty_falls_through", backend.ReviewDoc{User: &backend.UserDoc{}, Username: "bob"}, "bob"},
		{"nothing", backend.ReviewDoc{}, "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, reviewAuthor(tt.doc))
		})
	}
}

/*
TestReplyAuthor_Priority checks the author resolution order for replies,
which carries two extra legacy fields between the user object and username.
*/
func TestReplyAuthor_Priority(t *testing.T) {
	tests := []struct {
		name string
		doc  backend.ReplyDoc
		want string
	}{
		{"nested_user", backend.ReplyDoc{User: &backend.UserDoc{Username: "alice"}, AuthorID: "x"}, "alice"},
		{"author_id", backend.ReplyDoc{AuthorID: "carol", UserID: "dave"}, "carol"},
		{"user_id", backend.ReplyDoc{UserID: "dave", Username: "erin"}, "dave"},
		{"flat_username", backend.ReplyDoc{Username: "erin"}, "erin"},
		{"nothing", backend.ReplyDoc{}, "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, replyAuthor(tt.doc))
		})
	}
}

/*
TestNormalizeReview_CoercesCollections verifies absent likes and replies
become empty slices, never nil.
*/
func TestNormalizeReview_CoercesCollections(t *testing.T) {
	review := normalizeReview(backend.ReviewDoc{ID: 7, BookID: "OL1W"})

	assert.NotNil(t, review.Likes)
	assert.Empty(t, review.Likes)
	assert.NotNil(t, review.Replies)
	assert.Empty(t, review.Replies)
}

/*
TestFormatDate covers the tolerated timestamp layouts and the fallback text
for garbage input.
*/
func TestFormatDate(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"rfc3339", "2026-05-04T09:30:00Z", "04/05/2026, 09:30"},
		{"rfc3339_nano", "2026-05-04T09:30:00.123456Z", "04/05/2026, 09:30"},
		{"no_zone", "2026-05-04T09:30:00", "04/05/2026, 09:30"},
		{"garbage", "not-a-date", "Date information unavailable"},
		{"empty", "", "Date information unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDate(tt.value))
		})
	}
}

/*
TestCreatedAtTime_GarbageSortsLast verifies unparseable timestamps sort to
the bottom of a newest-first ordering.
*/
func TestCreatedAtTime_GarbageSortsLast(t *testing.T) {
	valid := createdAtTime("2026-01-01T00:00:00Z")
	garbage := createdAtTime("???")

	assert.True(t, garbage.IsZero())
	assert.True(t, valid.After(garbage))
}
