// Copyright (c) 2026 PageTalk. All rights reserved.
// Author: minh.vule.dev@gmail.com

package pagination_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/minhvule/pagetalk/pkg/pagination"
)

/*
TestNewMeta verifies the total-pages arithmetic, including the partial last
page.
*/
func TestNewMeta(t *testing.T) {
	tests := []struct {
		name       string
		total      int
		limit      int
		totalPages int
	}{
		{"exact_division", 10, 5, 2},
		{"partial_last_page", 11, 5, 3},
		{"single_item", 1, 5, 1},
		{"empty", 0, 5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := pagination.NewMeta(1, tt.limit, tt.total)
			assert.Equal(t, tt.totalPages, meta.TotalPages)
			assert.Equal(t, tt.total, meta.Total)
		})
	}
}

/*
TestClampPage verifies out-of-range pages reset to the first page.
*/
func TestClampPage(t *testing.T) {
	assert.Equal(t, 2, pagination.ClampPage(2, 3))
	assert.Equal(t, 1, pagination.ClampPage(5, 3), "beyond the end resets")
	assert.Equal(t, 1, pagination.ClampPage(0, 3), "below the start resets")
	assert.Equal(t, 1, pagination.ClampPage(7, 0), "no pages at all resets")
}

/*
TestFromRequest verifies query parsing with clamping of hostile input.
*/
func TestFromRequest(t *testing.T) {
	tests := []struct {
		name  string
		query string
		page  int
		limit int
	}{
		{"defaults", "", 1, 5},
		{"explicit", "page=3&limit=20", 3, 20},
		{"negative_page", "page=-1", 1, 5},
		{"excessive_limit", "limit=9999", 1, 5},
		{"garbage", "page=abc&limit=xyz", 1, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest("GET", "/books?"+tt.query, nil)
			params := pagination.FromRequest(request)

			assert.Equal(t, tt.page, params.Page)
			assert.Equal(t, tt.limit, params.Limit)
		})
	}
}

/*
TestOffset verifies the slice offset derivation.
*/
func TestOffset(t *testing.T) {
	assert.Equal(t, 0, pagination.Params{Page: 1, Limit: 5}.Offset())
	assert.Equal(t, 10, pagination.Params{Page: 3, Limit: 5}.Offset())
	assert.Equal(t, 0, pagination.Params{Page: 0, Limit: 5}.Offset())
}
