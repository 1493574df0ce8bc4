// Copyright (c) 2026 PageTalk. All rights reserved.
// Author: minh.vule.dev@gmail.com

package thread

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/minhvule/pagetalk/internal/platform/request"
	"github.com/minhvule/pagetalk/internal/platform/respond"
	"github.com/minhvule/pagetalk/internal/session"
)

// Handler exposes the discussion thread under a book's detail route. Every
// endpoint responds with the complete refreshed thread view, so the browser
// never has to reconcile partial updates.
type Handler struct {
	service *Service
}

// NewHandler constructs a new thread [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the thread endpoints. The router is mounted under
// /api/v1/books/{workID}/thread, so {workID} resolves via the parent route.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.view)
	router.Put("/view", handler.setView)

	router.Post("/reviews", handler.createReview)
	router.Post("/reviews/{reviewID}/edit", handler.startEditReview)
	router.Delete("/reviews/{reviewID}/edit", handler.cancelEditReview)
	router.Put("/reviews/{reviewID}", handler.submitEditReview)
	router.Delete("/reviews/{reviewID}", handler.deleteReview)
	router.Put("/reviews/{reviewID}/like", handler.toggleLike)

	router.Post("/reviews/{reviewID}/replies/compose", handler.startReply)
	router.Delete("/reviews/{reviewID}/replies/compose", handler.cancelReply)
	router.Post("/reviews/{reviewID}/replies", handler.submitReply)
	router.Post("/replies/{replyID}/edit", handler.startEditReply)
	router.Delete("/replies/{replyID}/edit", handler.cancelEditReply)
	router.Put("/replies/{replyID}", handler.submitEditReply)
	router.Delete("/reviews/{reviewID}/replies/{replyID}", handler.deleteReply)

	return router
}

// contentBody is the shared request body for anything that carries text.
type contentBody struct {
	Content string `json:"content"`
}

/*
GET /api/v1/books/{workID}/thread.

Description: Assembles and returns the full discussion thread, projected
per the session's remembered sort and page.
*/
func (handler *Handler) view(writer http.ResponseWriter, request *http.Request) {

	sess, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	view, err := handler.service.View(request.Context(), sess, requestutil.Param(request, "workID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, view)
}

/*
PUT /api/v1/books/{workID}/thread/view.

Description: Changes the sort key and/or page. Changing sort rewinds to
the first page; an out-of-range page is reset, not rejected.

Request:
  - sortBy: string (optional, one of latest|likes|replies)
  - page: int (optional, 1-based)
*/
func (handler *Handler) setView(writer http.ResponseWriter, request *http.Request) {

	sess, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input ViewInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	view, err := handler.service.SetView(request.Context(), sess, requestutil.Param(request, "workID"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, view)
}

/*
POST /api/v1/books/{workID}/thread/reviews.

Description: Posts a new review. Requires a signed-in session; the view
jumps to latest-first page one so the fresh review is visible.
*/
func (handler *Handler) createReview(writer http.ResponseWriter, request *http.Request) {

	sess, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body contentBody
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	view, err := handler.service.CreateReview(request.Context(), sess, requestutil.Param(request, "workID"), body.Content)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, view)
}

// POST /api/v1/books/{workID}/thread/reviews/{reviewID}/edit.
func (handler *Handler) startEditReview(writer http.ResponseWriter, request *http.Request) {
	handler.reviewStateChange(writer, request, handler.service.StartEditReview)
}

// DELETE /api/v1/books/{workID}/thread/reviews/{reviewID}/edit.
func (handler *Handler) cancelEditReview(writer http.ResponseWriter, request *http.Request) {

	sess, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	view, err := handler.service.CancelEditReview(request.Context(), sess, requestutil.Param(request, "workID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, view)
}

/*
PUT /api/v1/books/{workID}/thread/reviews/{reviewID}.

Description: Saves an edited review body. Only the author can edit.
*/
func (handler *Handler) submitEditReview(writer http.ResponseWriter, request *http.Request) {

	sess, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	reviewID, err := requestutil.IntParam(request, "reviewID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body contentBody
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	view, err := handler.service.SubmitEditReview(request.Context(), sess, requestutil.Param(request, "workID"), reviewID, body.Content)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, view)
}

/*
DELETE /api/v1/books/{workID}/thread/reviews/{reviewID}?confirm=true.

Description: Deletes a review and all of its replies. The confirm flag is
mandatory; without it the request is rejected so the browser can show a
confirmation step first.
*/
func (handler *Handler) deleteReview(writer http.ResponseWriter, request *http.Request) {

	sess, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	reviewID, err := requestutil.IntParam(request, "reviewID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	confirmed := request.URL.Query().Get("confirm") == "true"

	view, err := handler.service.DeleteReview(request.Context(), sess, requestutil.Param(request, "workID"), reviewID, confirmed)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, view)
}

/*
PUT /api/v1/books/{workID}/thread/reviews/{reviewID}/like.

Description: Toggles the current actor's like on a review. Works for
anonymous sessions; the anonymous ID keeps the toggle stable across the
session's lifetime.
*/
func (handler *Handler) toggleLike(writer http.ResponseWriter, request *http.Request) {
	handler.reviewStateChange(writer, request, handler.service.ToggleLike)
}

// POST /api/v1/books/{workID}/thread/reviews/{reviewID}/replies/compose.
func (handler *Handler) startReply(writer http.ResponseWriter, request *http.Request) {
	handler.reviewStateChange(writer, request, handler.service.StartReply)
}

// DELETE /api/v1/books/{workID}/thread/reviews/{reviewID}/replies/compose.
func (handler *Handler) cancelReply(writer http.ResponseWriter, request *http.Request) {

	sess, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	view, err := handler.service.CancelReply(request.Context(), sess, requestutil.Param(request, "workID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, view)
}

/*
POST /api/v1/books/{workID}/thread/reviews/{reviewID}/replies.

Description: Posts a reply under a review. Requires a signed-in session.
*/
func (handler *Handler) submitReply(writer http.ResponseWriter, request *http.Request) {

	sess, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	reviewID, err := requestutil.IntParam(request, "reviewID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body contentBody
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	view, err := handler.service.SubmitReply(request.Context(), sess, requestutil.Param(request, "workID"), reviewID, body.Content)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, view)
}

// POST /api/v1/books/{workID}/thread/replies/{replyID}/edit.
func (handler *Handler) startEditReply(writer http.ResponseWriter, request *http.Request) {

	sess, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	replyID, err := requestutil.IntParam(request, "replyID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	view, err := handler.service.StartEditReply(request.Context(), sess, requestutil.Param(request, "workID"), replyID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, view)
}

// DELETE /api/v1/books/{workID}/thread/replies/{replyID}/edit.
func (handler *Handler) cancelEditReply(writer http.ResponseWriter, request *http.Request) {

	sess, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	view, err := handler.service.CancelEditReply(request.Context(), sess, requestutil.Param(request, "workID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, view)
}

/*
PUT /api/v1/books/{workID}/thread/replies/{replyID}.

Description: Saves an edited reply body. Only the author can edit.
*/
func (handler *Handler) submitEditReply(writer http.ResponseWriter, request *http.Request) {

	sess, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	replyID, err := requestutil.IntParam(request, "replyID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body contentBody
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	view, err := handler.service.SubmitEditReply(request.Context(), sess, requestutil.Param(request, "workID"), replyID, body.Content)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, view)
}

/*
DELETE /api/v1/books/{workID}/thread/reviews/{reviewID}/replies/{replyID}?confirm=true.

Description: Deletes one reply after confirmation.
*/
func (handler *Handler) deleteReply(writer http.ResponseWriter, request *http.Request) {

	sess, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	reviewID, err := requestutil.IntParam(request, "reviewID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	replyID, err := requestutil.IntParam(request, "replyID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	confirmed := request.URL.Query().Get("confirm") == "true"

	view, err := handler.service.DeleteReply(request.Context(), sess, requestutil.Param(request, "workID"), reviewID, replyID, confirmed)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, view)
}

// reviewStateChange factors the handlers whose input is just the session,
// the book, and one review ID.
func (handler *Handler) reviewStateChange(
	writer http.ResponseWriter,
	request *http.Request,
	operation func(ctx context.Context, sess *session.Session, bookID string, reviewID int64) (ThreadView, error),
) {
	sess, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	reviewID, err := requestutil.IntParam(request, "reviewID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	view, err := operation(request.Context(), sess, requestutil.Param(request, "workID"), reviewID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, view)
}
