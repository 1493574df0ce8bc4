// Copyright (c) 2026 PageTalk. All rights reserved.
// Author: minh.vule.dev@gmail.com

package thread

import (
	"github.com/minhvule/pagetalk/internal/session"
	"github.com/minhvule/pagetalk/pkg/pagination"
)

// ThreadView is the fully-derived discussion page sent to the browser.
//
// Ownership and like-membership are resolved server-side against the
// session's actor ID, so the frontend renders affordances without knowing
// how identity works.
type ThreadView struct {
	BookID  string          `json:"bookId"`
	SortBy  string          `json:"sortBy"`
	Reviews []ReviewView    `json:"reviews"`
	Meta    pagination.Meta `json:"meta"`
}

// ReviewView is one review decorated for the current actor.
type ReviewView struct {
	ID          int64    `json:"id"`
	BookID      string   `json:"bookId"`
	Content     string   `json:"content"`
	Likes       []string `json:"likes"`
	LikeCount   int      `json:"likeCount"`
	CreatedAt   string   `json:"createdAt"`
	DisplayDate string   `json:"displayDate"`
	Author      string   `json:"userId"`

	// Mine enables the edit/delete affordances.
	Mine bool `json:"mine"`
	// Liked reports whether the current actor is in Likes.
	Liked bool `json:"liked"`

	// Editing marks this review as being in the "editing" state, with the
	// session's draft buffer exposed for the form.
	Editing bool   `json:"editing"`
	Draft   string `json:"draft,omitempty"`

	// Composing marks this review as the target of an open reply form.
	Composing  bool   `json:"composing"`
	ReplyDraft string `json:"replyDraft,omitempty"`

	ReplyCount int         `json:"replyCount"`
	Replies    []ReplyView `json:"replies"`
}

// ReplyView is one reply decorated for the current actor.
type ReplyView struct {
	ID          int64  `json:"id"`
	ReviewID    int64  `json:"reviewId"`
	Content     string `json:"content"`
	CreatedAt   string `json:"createdAt"`
	DisplayDate string `json:"displayDate"`
	Author      string `json:"userId"`

	Mine    bool   `json:"mine"`
	Editing bool   `json:"editing"`
	Draft   string `json:"draft,omitempty"`
}

// buildView decorates a projection with the session's identity and view state.
func buildView(projection Projection, sess *session.Session) ThreadView {
	state := sess.Thread
	actor := sess.ActorID()

	reviews := make([]ReviewView, 0, len(projection.Reviews))
	for _, review := range projection.Reviews {

		view := ReviewView{
			ID:          review.ID,
			BookID:      review.BookID,
			Content:     review.Content,
			Likes:       review.Likes,
			LikeCount:   len(review.Likes),
			CreatedAt:   review.CreatedAt,
			DisplayDate: FormatDate(review.CreatedAt),
			Author:      review.Author,
			Mine:        sess.Owns(review.Author),
			Liked:       contains(review.Likes, actor),
			Editing:     state.EditingReviewID == review.ID,
			Composing:   state.ReplyingToID == review.ID,
			ReplyCount:  len(review.Replies),
			Replies:     make([]ReplyView, 0, len(review.Replies)),
		}
		if view.Editing {
			view.Draft = state.ReviewDraft
		}
		if view.Composing {
			view.ReplyDraft = state.ReplyDraft
		}

		for _, reply := range review.Replies {
			replyView := ReplyView{
				ID:          reply.ID,
				ReviewID:    reply.ReviewID,
				Content:     reply.Content,
				CreatedAt:   reply.CreatedAt,
				DisplayDate: FormatDate(reply.CreatedAt),
				Author:      reply.Author,
				Mine:        sess.Owns(reply.Author),
				Editing:     state.EditingReplyID == reply.ID,
			}
			if replyView.Editing {
				replyView.Draft = state.ReplyEditDraft
			}
			view.Replies = append(view.Replies, replyView)
		}

		reviews = append(reviews, view)
	}

	return ThreadView{
		BookID:  state.BookID,
		SortBy:  state.SortBy,
		Reviews: reviews,
		Meta:    projection.Meta,
	}
}

// contains reports membership of value in list.
func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
