// Copyright (c) 2026 PageTalk. All rights reserved.
// Author: minh.vule.dev@gmail.com

package catalog

import (
	"context"
	"strings"

	"golang.org/x/text/cases"

	"github.com/minhvule/pagetalk/internal/platform/apperr"
	"github.com/minhvule/pagetalk/internal/session"
	"github.com/minhvule/pagetalk/pkg/pagination"
)

// DefaultQuery seeds the listing page when the user has not searched yet.
const DefaultQuery = "frontend"

// Searcher abstracts the bibliographic API for testability.
type Searcher interface {
	Search(ctx context.Context, query string) ([]Book, error)
}

// Service implements the catalog listing and detail use cases.
type Service struct {
	catalog  Searcher
	sessions session.Store
}

// NewService constructs a catalog [Service].
func NewService(catalog Searcher, sessions session.Store) *Service {
	return &Service{catalog: catalog, sessions: sessions}
}

// ListInput carries the listing controls. Nil pointers mean "not supplied",
// in which case the session's last-used value applies.
type ListInput struct {
	SearchTerm *string
	Page       *int
	PageSize   *int
}

// ListResult is one page of the filtered catalog.
type ListResult struct {
	Books []Book          `json:"books"`
	Meta  pagination.Meta `json:"meta"`
}

/*
List returns one page of the book catalog, filtered by the search term.

Description: Filtering matches the term against title and author names using
Unicode case folding, mirroring a case-insensitive contains. The last-used
term, page, and page size are persisted to the session so a page reload
restores the view.

Parameters:
  - ctx: context.Context
  - sess: Browser session (prefs source and sink)
  - input: Explicit controls, each optional

Returns:
  - ListResult: Current page plus pagination metadata
  - error: Typed upstream errors
*/
func (service *Service) List(ctx context.Context, sess *session.Session, input ListInput) (ListResult, error) {

	// ── 1. Resolve controls against session prefs ─────────────────────────
	prefs := &sess.Catalog
	if input.SearchTerm != nil {
		prefs.SearchTerm = strings.TrimSpace(*input.SearchTerm)
	}
	if input.Page != nil && *input.Page >= 1 {
		prefs.Page = *input.Page
	}
	if input.PageSize != nil && *input.PageSize >= 1 && *input.PageSize <= pagination.MaxLimit {
		// Changing the page size rewinds to the first page.
		if prefs.PageSize != *input.PageSize {
			prefs.Page = 1
		}
		prefs.PageSize = *input.PageSize
	}
	if prefs.Page < 1 {
		prefs.Page = 1
	}
	if prefs.PageSize < 1 {
		prefs.PageSize = pagination.DefaultLimit
	}

	// ── 2. Fetch and filter ───────────────────────────────────────────────
	books, err := service.catalog.Search(ctx, DefaultQuery)
	if err != nil {
		return ListResult{}, err
	}

	filtered := filterBooks(books, prefs.SearchTerm)

	// ── 3. Page ───────────────────────────────────────────────────────────
	meta := pagination.NewMeta(prefs.Page, prefs.PageSize, len(filtered))
	prefs.Page = pagination.ClampPage(prefs.Page, meta.TotalPages)
	meta.Page = prefs.Page

	start := (prefs.Page - 1) * prefs.PageSize
	end := start + prefs.PageSize
	if start > len(filtered) {
		start = len(filtered)
	}
	if end > len(filtered) {
		end = len(filtered)
	}

	// ── 4. Persist prefs ──────────────────────────────────────────────────
	if err := service.sessions.Save(ctx, sess); err != nil {
		return ListResult{}, apperr.Internal(err)
	}

	return ListResult{Books: filtered[start:end], Meta: meta}, nil
}

/*
Get resolves a single book by its work identifier.

Description: A lookup that matches nothing is a "not found" outcome for the
frontend's panel, not an error condition.

Parameters:
  - ctx: context.Context
  - workID: Bare work identifier (e.g. "OL123W")

Returns:
  - Book: The first matching catalog document
  - error: apperr.NotFound when the catalog has no match
*/
func (service *Service) Get(ctx context.Context, workID string) (Book, error) {
	books, err := service.catalog.Search(ctx, "key:/works/"+workID)
	if err != nil {
		return Book{}, err
	}

	if len(books) == 0 {
		return Book{}, apperr.NotFound("Book")
	}

	return books[0], nil
}

// filterBooks keeps books whose title or author matches the folded term.
func filterBooks(books []Book, term string) []Book {
	if term == "" {
		return books
	}

	folder := cases.Fold()
	needle := folder.String(term)

	filtered := make([]Book, 0, len(books))
	for _, book := range books {
		title := folder.String(book.Title)
		authors := folder.String(strings.Join(book.AuthorName, ", "))

		if strings.Contains(title, needle) || strings.Contains(authors, needle) {
			filtered = append(filtered, book)
		}
	}
	return filtered
}
