// Copyright (c) 2026 PageTalk. All rights reserved.
// Author: minh.vule.dev@gmail.com

package thread

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/minhvule/pagetalk/internal/backend"
	"github.com/minhvule/pagetalk/internal/platform/apperr"
	"github.com/minhvule/pagetalk/internal/platform/constants"
	"github.com/minhvule/pagetalk/internal/platform/validate"
	"github.com/minhvule/pagetalk/internal/session"
)

// Gateway is the slice of the review backend the coordinator drives. It
// extends the assembler's read surface with every mutating call.
type Gateway interface {
	ReadGateway

	CreateReview(ctx context.Context, sess *session.Session, input backend.CreateReviewInput) (backend.ReviewDoc, error)
	UpdateReview(ctx context.Context, sess *session.Session, reviewID int64, input backend.UpdateReviewInput) error
	DeleteReview(ctx context.Context, sess *session.Session, reviewID int64) error

	CreateReply(ctx context.Context, sess *session.Session, reviewID int64, content string) error
	UpdateReply(ctx context.Context, sess *session.Session, replyID int64, content string) error
	DeleteReply(ctx context.Context, sess *session.Session, reviewID, replyID int64) error

	UpdateLikes(ctx context.Context, reviewID int64, likes []string) error
}

/*
Service coordinates every state change on a book's discussion thread.

Each mutation follows the same shape: gate on authentication where the
backend demands it, run the remote call, then rebuild the entire thread
from the backend rather than patching local state. The refetch-first model
trades an extra round trip for guaranteed convergence with concurrent
writers.
*/
type Service struct {
	gateway   Gateway
	assembler *Assembler
	snapshots SnapshotStore
	sessions  session.Store
	log       *slog.Logger
}

/*
NewService constructs the thread coordinator.

Parameters:
  - gateway: review backend client
  - assembler: dual-fetch thread assembler
  - snapshots: per-session thread snapshot cache
  - sessions: session persistence
  - log: structured logger

Returns:
  - *Service: ready to use
*/
func NewService(gateway Gateway, assembler *Assembler, snapshots SnapshotStore, sessions session.Store, log *slog.Logger) *Service {
	return &Service{
		gateway:   gateway,
		assembler: assembler,
		snapshots: snapshots,
		sessions:  sessions,
		log:       log,
	}
}

// # Viewing

/*
View opens a book's thread. Opening a different book than the one the
session was on resets sort, page, and any in-flight drafts.
*/
func (s *Service) View(ctx context.Context, sess *session.Session, bookID string) (ThreadView, error) {
	sess.OpenBook(bookID)
	return s.refresh(ctx, sess)
}

// ViewInput carries optional sort/page changes; nil means "keep as is".
type ViewInput struct {
	SortBy *string `json:"sortBy"`
	Page   *int    `json:"page"`
}

/*
SetView updates the session's sort key and/or page and re-projects the
thread. An out-of-range page is reset to the first page rather than
rejected.
*/
func (s *Service) SetView(ctx context.Context, sess *session.Session, bookID string, input ViewInput) (ThreadView, error) {
	sess.OpenBook(bookID)

	if input.SortBy != nil {
		v := &validate.Validator{}
		v.OneOf("sortBy", *input.SortBy, constants.SortLatest, constants.SortLikes, constants.SortReplies)
		if v.HasErrors() {
			return ThreadView{}, v.Err()
		}
		if sess.Thread.SortBy != *input.SortBy {
			sess.Thread.SortBy = *input.SortBy
			sess.Thread.Page = 1
		}
	}
	if input.Page != nil {
		if *input.Page < 1 {
			return ThreadView{}, apperr.ValidationError("Validation failed", apperr.FieldError{Field: "page", Message: "Must be at least 1"})
		}
		sess.Thread.Page = *input.Page
	}

	return s.refresh(ctx, sess)
}

// # Reviews

/*
CreateReview posts a new review on the session's current book. Requires
authentication. On success the view jumps to the latest sort on the first
page so the fresh review is visible.
*/
func (s *Service) CreateReview(ctx context.Context, sess *session.Session, bookID, content string) (ThreadView, error) {
	if !sess.Authenticated() {
		return ThreadView{}, apperr.AuthRequired()
	}
	sess.OpenBook(bookID)

	if err := validateContent("review", content); err != nil {
		return ThreadView{}, err
	}

	_, err := s.gateway.CreateReview(ctx, sess, backend.CreateReviewInput{
		BookID:  bookID,
		Content: strings.TrimSpace(content),
		Likes:   []string{},
	})
	if err != nil {
		return ThreadView{}, fmt.Errorf("create_review_failed: %w", err)
	}

	sess.Thread.SortBy = constants.SortLatest
	sess.Thread.Page = 1
	return s.refresh(ctx, sess)
}

/*
StartEditReview flips a review the actor owns into the editing state and
seeds the draft buffer with its current content. Only one review can be
edited at a time; any open reply form is dismissed.
*/
func (s *Service) StartEditReview(ctx context.Context, sess *session.Session, bookID string, reviewID int64) (ThreadView, error) {
	if !sess.Authenticated() {
		return ThreadView{}, apperr.AuthRequired()
	}
	sess.OpenBook(bookID)

	review, err := s.findReview(ctx, sess, bookID, reviewID)
	if err != nil {
		return ThreadView{}, err
	}
	if !sess.Owns(review.Author) {
		return ThreadView{}, apperr.Unauthorized("You can only edit your own reviews")
	}

	sess.Thread.EditingReviewID = reviewID
	sess.Thread.ReviewDraft = review.Content
	sess.Thread.ReplyingToID = 0
	sess.Thread.ReplyDraft = ""
	sess.Thread.EditingReplyID = 0
	sess.Thread.ReplyEditDraft = ""

	return s.refresh(ctx, sess)
}

// CancelEditReview discards the review draft and returns to viewing.
func (s *Service) CancelEditReview(ctx context.Context, sess *session.Session, bookID string) (ThreadView, error) {
	sess.OpenBook(bookID)
	sess.Thread.EditingReviewID = 0
	sess.Thread.ReviewDraft = ""
	return s.refresh(ctx, sess)
}

/*
SubmitEditReview persists an edited review. The backend replaces the
stored document wholesale, so everything besides the content is carried
over from the current thread state.
*/
func (s *Service) SubmitEditReview(ctx context.Context, sess *session.Session, bookID string, reviewID int64, content string) (ThreadView, error) {
	if !sess.Authenticated() {
		return ThreadView{}, apperr.AuthRequired()
	}
	sess.OpenBook(bookID)

	if err := validateContent("review", content); err != nil {
		return ThreadView{}, err
	}

	review, err := s.findReview(ctx, sess, bookID, reviewID)
	if err != nil {
		return ThreadView{}, err
	}
	if !sess.Owns(review.Author) {
		return ThreadView{}, apperr.Unauthorized("You can only edit your own reviews")
	}

	input := backend.UpdateReviewInput{
		Content:   strings.TrimSpace(content),
		BookID:    review.BookID,
		Likes:     review.Likes,
		CreatedAt: review.CreatedAt,
		Replies:   repliesToDocs(review.Replies),
	}
	if err := s.gateway.UpdateReview(ctx, sess, reviewID, input); err != nil {
		return ThreadView{}, fmt.Errorf("update_review_failed: %w", err)
	}

	sess.Thread.EditingReviewID = 0
	sess.Thread.ReviewDraft = ""
	return s.refresh(ctx, sess)
}

/*
DeleteReview removes a review the actor owns. The caller must pass
confirmed=true; the two-step flow keeps a stray click from destroying a
thread of replies along with the review.
*/
func (s *Service) DeleteReview(ctx context.Context, sess *session.Session, bookID string, reviewID int64, confirmed bool) (ThreadView, error) {
	if !sess.Authenticated() {
		return ThreadView{}, apperr.AuthRequired()
	}
	if !confirmed {
		return ThreadView{}, apperr.ValidationError("Validation failed", apperr.FieldError{Field: "confirm", Message: "Deletion must be confirmed"})
	}
	sess.OpenBook(bookID)

	review, err := s.findReview(ctx, sess, bookID, reviewID)
	if err != nil {
		return ThreadView{}, err
	}
	if !sess.Owns(review.Author) {
		return ThreadView{}, apperr.Unauthorized("You can only delete your own reviews")
	}

	if err := s.gateway.DeleteReview(ctx, sess, reviewID); err != nil {
		return ThreadView{}, fmt.Errorf("delete_review_failed: %w", err)
	}

	if sess.Thread.EditingReviewID == reviewID {
		sess.Thread.EditingReviewID = 0
		sess.Thread.ReviewDraft = ""
	}
	if sess.Thread.ReplyingToID == reviewID {
		sess.Thread.ReplyingToID = 0
		sess.Thread.ReplyDraft = ""
	}
	return s.refresh(ctx, sess)
}

// # Likes

/*
ToggleLike flips the current actor's membership in a review's like set.

This is the one mutation that works without signing in: anonymous actors
are tracked by their per-session anonymous ID, and the backend accepts the
like endpoint without credentials. The full updated membership list is
sent, not a delta.
*/
func (s *Service) ToggleLike(ctx context.Context, sess *session.Session, bookID string, reviewID int64) (ThreadView, error) {
	sess.OpenBook(bookID)

	review, err := s.findReview(ctx, sess, bookID, reviewID)
	if err != nil {
		return ThreadView{}, err
	}

	actor := sess.ActorID()
	likes := make([]string, 0, len(review.Likes)+1)
	found := false
	for _, id := range review.Likes {
		if id == actor {
			found = true
			continue
		}
		likes = append(likes, id)
	}
	if !found {
		likes = append(likes, actor)
	}

	if err := s.gateway.UpdateLikes(ctx, reviewID, likes); err != nil {
		return ThreadView{}, fmt.Errorf("toggle_like_failed: %w", err)
	}
	return s.refresh(ctx, sess)
}

// # Replies

/*
StartReply opens the reply form under one review. Only one reply form can
be open at a time, and opening it dismisses any review edit in progress.
Requires authentication.
*/
func (s *Service) StartReply(ctx context.Context, sess *session.Session, bookID string, reviewID int64) (ThreadView, error) {
	if !sess.Authenticated() {
		return ThreadView{}, apperr.AuthRequired()
	}
	sess.OpenBook(bookID)

	if _, err := s.findReview(ctx, sess, bookID, reviewID); err != nil {
		return ThreadView{}, err
	}

	sess.Thread.ReplyingToID = reviewID
	sess.Thread.ReplyDraft = ""
	sess.Thread.EditingReviewID = 0
	sess.Thread.ReviewDraft = ""
	return s.refresh(ctx, sess)
}

// CancelReply dismisses the open reply form.
func (s *Service) CancelReply(ctx context.Context, sess *session.Session, bookID string) (ThreadView, error) {
	sess.OpenBook(bookID)
	sess.Thread.ReplyingToID = 0
	sess.Thread.ReplyDraft = ""
	return s.refresh(ctx, sess)
}

// SubmitReply posts a reply under a review. Requires authentication.
func (s *Service) SubmitReply(ctx context.Context, sess *session.Session, bookID string, reviewID int64, content string) (ThreadView, error) {
	if !sess.Authenticated() {
		return ThreadView{}, apperr.AuthRequired()
	}
	sess.OpenBook(bookID)

	if err := validateContent("reply", content); err != nil {
		return ThreadView{}, err
	}

	if err := s.gateway.CreateReply(ctx, sess, reviewID, strings.TrimSpace(content)); err != nil {
		return ThreadView{}, fmt.Errorf("create_reply_failed: %w", err)
	}

	sess.Thread.ReplyingToID = 0
	sess.Thread.ReplyDraft = ""
	return s.refresh(ctx, sess)
}

/*
StartEditReply flips a reply the actor owns into the editing state, seeded
with its current content.
*/
func (s *Service) StartEditReply(ctx context.Context, sess *session.Session, bookID string, replyID int64) (ThreadView, error) {
	if !sess.Authenticated() {
		return ThreadView{}, apperr.AuthRequired()
	}
	sess.OpenBook(bookID)

	reply, err := s.findReply(ctx, sess, bookID, replyID)
	if err != nil {
		return ThreadView{}, err
	}
	if !sess.Owns(reply.Author) {
		return ThreadView{}, apperr.Unauthorized("You can only edit your own replies")
	}

	sess.Thread.EditingReplyID = replyID
	sess.Thread.ReplyEditDraft = reply.Content
	return s.refresh(ctx, sess)
}

// CancelEditReply discards the reply draft and returns to viewing.
func (s *Service) CancelEditReply(ctx context.Context, sess *session.Session, bookID string) (ThreadView, error) {
	sess.OpenBook(bookID)
	sess.Thread.EditingReplyID = 0
	sess.Thread.ReplyEditDraft = ""
	return s.refresh(ctx, sess)
}

// SubmitEditReply persists an edited reply.
func (s *Service) SubmitEditReply(ctx context.Context, sess *session.Session, bookID string, replyID int64, content string) (ThreadView, error) {
	if !sess.Authenticated() {
		return ThreadView{}, apperr.AuthRequired()
	}
	sess.OpenBook(bookID)

	if err := validateContent("reply", content); err != nil {
		return ThreadView{}, err
	}

	reply, err := s.findReply(ctx, sess, bookID, replyID)
	if err != nil {
		return ThreadView{}, err
	}
	if !sess.Owns(reply.Author) {
		return ThreadView{}, apperr.Unauthorized("You can only edit your own replies")
	}

	if err := s.gateway.UpdateReply(ctx, sess, replyID, strings.TrimSpace(content)); err != nil {
		return ThreadView{}, fmt.Errorf("update_reply_failed: %w", err)
	}

	sess.Thread.EditingReplyID = 0
	sess.Thread.ReplyEditDraft = ""
	return s.refresh(ctx, sess)
}

// DeleteReply removes a reply the actor owns, after confirmation.
func (s *Service) DeleteReply(ctx context.Context, sess *session.Session, bookID string, reviewID, replyID int64, confirmed bool) (ThreadView, error) {
	if !sess.Authenticated() {
		return ThreadView{}, apperr.AuthRequired()
	}
	if !confirmed {
		return ThreadView{}, apperr.ValidationError("Validation failed", apperr.FieldError{Field: "confirm", Message: "Deletion must be confirmed"})
	}
	sess.OpenBook(bookID)

	reply, err := s.findReply(ctx, sess, bookID, replyID)
	if err != nil {
		return ThreadView{}, err
	}
	if !sess.Owns(reply.Author) {
		return ThreadView{}, apperr.Unauthorized("You can only delete your own replies")
	}

	if err := s.gateway.DeleteReply(ctx, sess, reviewID, replyID); err != nil {
		return ThreadView{}, fmt.Errorf("delete_reply_failed: %w", err)
	}

	if sess.Thread.EditingReplyID == replyID {
		sess.Thread.EditingReplyID = 0
		sess.Thread.ReplyEditDraft = ""
	}
	return s.refresh(ctx, sess)
}

// # Internals

// refresh rebuilds the thread from the backend, projects it per the
// session's view state, persists the session, and decorates the result.
func (s *Service) refresh(ctx context.Context, sess *session.Session) (ThreadView, error) {
	reviews, err := s.assembler.Assemble(ctx, sess, sess.Thread.BookID)
	if err != nil {
		return ThreadView{}, err
	}

	projection := Project(reviews, sess.Thread.SortBy, sess.Thread.Page, constants.DefaultThreadPageSize)
	sess.Thread.Page = projection.Page

	if err := s.sessions.Save(ctx, sess); err != nil {
		s.log.Warn("session save failed", "error", err, "session_id", sess.ID)
	}
	return buildView(projection, sess), nil
}

// current returns the thread as last known, preferring the session's
// snapshot so interactive operations don't pay a fetch just to inspect
// state the browser was already looking at.
func (s *Service) current(ctx context.Context, sess *session.Session, bookID string) ([]Review, error) {
	reviews, err := s.snapshots.Load(ctx, sess.ID, bookID)
	if err == nil {
		return reviews, nil
	}
	return s.assembler.Assemble(ctx, sess, bookID)
}

// findReview locates one review in the current thread state.
func (s *Service) findReview(ctx context.Context, sess *session.Session, bookID string, reviewID int64) (Review, error) {
	reviews, err := s.current(ctx, sess, bookID)
	if err != nil {
		return Review{}, err
	}
	for _, review := range reviews {
		if review.ID == reviewID {
			return review, nil
		}
	}
	return Review{}, apperr.NotFound("Review")
}

// findReply locates one reply across every review in the current thread.
func (s *Service) findReply(ctx context.Context, sess *session.Session, bookID string, replyID int64) (Reply, error) {
	reviews, err := s.current(ctx, sess, bookID)
	if err != nil {
		return Reply{}, err
	}
	for _, review := range reviews {
		for _, reply := range review.Replies {
			if reply.ID == replyID {
				return reply, nil
			}
		}
	}
	return Reply{}, apperr.NotFound("Reply")
}

// validateContent applies the shared non-empty/length rules to review and
// reply bodies.
func validateContent(field, content string) error {
	v := &validate.Validator{}
	v.Required(field, strings.TrimSpace(content))
	v.MaxLen(field, content, constants.MaxContentLength)
	if v.HasErrors() {
		return v.Err()
	}
	return nil
}

// repliesToDocs converts normalized replies back to the backend's wire
// shape for full-document review updates.
func repliesToDocs(replies []Reply) []backend.ReplyDoc {
	docs := make([]backend.ReplyDoc, 0, len(replies))
	for _, reply := range replies {
		docs = append(docs, backend.ReplyDoc{
			ID:        reply.ID,
			ReviewID:  reply.ReviewID,
			Content:   reply.Content,
			CreatedAt: reply.CreatedAt,
			Username:  reply.Author,
		})
	}
	return docs
}
