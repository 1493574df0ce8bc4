// Copyright (c) 2026 PageTalk. All rights reserved.
// Author: minh.vule.dev@gmail.com

package catalog

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhvule/pagetalk/internal/platform/apperr"
)

func newTestOpenLibrary(t *testing.T, handler http.Handler) *OpenLibraryClient {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewOpenLibraryClient(server.URL, 5*time.Second, log)
}

/*
TestSearch decodes the search envelope into catalog documents.
*/
func TestSearch(t *testing.T) {
	client := newTestOpenLibrary(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search.json", r.URL.Path)
		assert.Equal(t, "frontend", r.URL.Query().Get("q"))
		assert.Contains(t, r.Header.Get("User-Agent"), "pagetalk-api")

		_, _ = w.Write([]byte(`{
			"numFound": 2,
			"docs": [
				{"key": "/works/OL1W", "title": "Frontend Patterns", "author_name": ["Grace Hopper"], "cover_i": 99},
				{"key": "/works/OL2W", "title": "No Extras"}
			]
		}`))
	}))

	books, err := client.Search(context.Background(), "frontend")

	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, "OL1W", books[0].WorkID())
	assert.Equal(t, "https://covers.openlibrary.org/b/id/99-L.jpg", books[0].CoverURL())
	assert.Empty(t, books[1].CoverURL(), "no cover id means no URL")
	assert.Empty(t, books[1].AuthorName)
}

/*
TestSearch_EmptyResult verifies a hit-less search yields an empty, non-nil
slice.
*/
func TestSearch_EmptyResult(t *testing.T) {
	client := newTestOpenLibrary(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"numFound": 0, "docs": []}`))
	}))

	books, err := client.Search(context.Background(), "nothing-matches-this")

	require.NoError(t, err)
	assert.NotNil(t, books)
	assert.Empty(t, books)
}

/*
TestSearch_UpstreamFailure maps non-200 responses to a typed upstream error.
*/
func TestSearch_UpstreamFailure(t *testing.T) {
	client := newTestOpenLibrary(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := client.Search(context.Background(), "frontend")

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "UPSTREAM_ERROR", ae.Code)
}
