// Copyright (c) 2026 PageTalk. All rights reserved.
// Author: minh.vule.dev@gmail.com

package catalog

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/minhvule/pagetalk/internal/platform/request"
	"github.com/minhvule/pagetalk/internal/platform/respond"
)

// Handler implements the HTTP layer for the book catalog.
// It translates web requests into domain service calls.
type Handler struct {
	service *Service
}

// NewHandler constructs a new catalog [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with the catalog endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Get("/{workID}", handler.get)

	return router
}

/*
GET /api/v1/books.

Description: Returns one page of the catalog listing. Supplying q/page/limit
updates the session's remembered listing controls; omitting them restores the
last-used view.

Request:
  - q: string (optional search term)
  - page: int (optional, 1-based)
  - limit: int (optional page size)

Response:
  - 200: ListResult: Current page plus pagination metadata
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {

	sess, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	input := ListInput{}
	query := request.URL.Query()

	if query.Has("q") {
		term := query.Get("q")
		input.SearchTerm = &term
	}
	if raw := query.Get("page"); raw != "" {
		if page, err := strconv.Atoi(raw); err == nil {
			input.Page = &page
		}
	}
	if raw := query.Get("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil {
			input.PageSize = &limit
		}
	}

	result, err := handler.service.List(request.Context(), sess, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, result.Books, result.Meta)
}

/*
GET /api/v1/books/{workID}.

Description: Resolves one book for the detail page.

Response:
  - 200: Book: Catalog document
  - 404: NOT_FOUND: The catalog has no matching work
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {

	workID := requestutil.Param(request, "workID")

	book, err := handler.service.Get(request.Context(), workID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, book)
}
