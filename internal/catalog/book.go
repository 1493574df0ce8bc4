// Copyright (c) 2026 PageTalk. All rights reserved.
// Author: minh.vule.dev@gmail.com

/*
Package catalog lists and resolves books from the external bibliographic
search API (OpenLibrary).

The catalog is strictly read-only: books are fetched per listing view or per
detail view and never mutated by PageTalk. Every field except the catalog key
is optional; the frontend renders absent fields as "No information".
*/
package catalog

import (
	"fmt"
	"strings"
)

// Book is a bibliographic record from the external catalog.
//
// Key is the routable identifier (e.g. "/works/OL123W"); everything else may
// be missing and is passed to the frontend as-is via omitempty.
type Book struct {
	Key              string   `json:"key"`
	Title            string   `json:"title,omitempty"`
	AuthorName       []string `json:"author_name,omitempty"`
	Publisher        []string `json:"publisher,omitempty"`
	FirstPublishYear int      `json:"first_publish_year,omitempty"`
	Language         []string `json:"language,omitempty"`
	CoverID          int64    `json:"cover_i,omitempty"`
	NumberOfPages    int      `json:"number_of_pages,omitempty"`
	Subject          []string `json:"subject,omitempty"`
}

// WorkID extracts the bare work identifier from the catalog key
// ("/works/OL123W" -> "OL123W"). It is what appears in PageTalk routes and
// as the review thread's bookId.
func (b Book) WorkID() string {
	return strings.TrimPrefix(b.Key, "/works/")
}

// CoverURL derives the large cover image URL, or empty when no cover exists.
func (b Book) CoverURL() string {
	if b.CoverID == 0 {
		return ""
	}
	return fmt.Sprintf("https://covers.openlibrary.org/b/id/%d-L.jpg", b.CoverID)
}

// DetailURL derives the catalog's own page for this book.
func (b Book) DetailURL(baseURL string) string {
	return baseURL + b.Key
}
