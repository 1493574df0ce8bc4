// Copyright (c) 2026 PageTalk. All rights reserved.
// Author: minh.vule.dev@gmail.com

package thread

import (
	"sort"

	"github.com/minhvule/pagetalk/internal/platform/constants"
	"github.com/minhvule/pagetalk/pkg/pagination"
)

// Projection is one page of the sorted thread.
type Projection struct {
	// Reviews is the current page, at most PageSize long.
	Reviews []Review

	// Page is the page actually shown — it may differ from the requested
	// page when the list shrank underneath it.
	Page int

	// Meta carries the pagination metadata for the response envelope.
	Meta pagination.Meta
}

// Project sorts and pages the assembled thread.
//
// # Purity
//
// The input slice is never mutated: sorting happens on a copy, and the
// returned page aliases that copy only. Sorting is stable, so ties keep
// their assembled order.
//
// # Sort keys
//
//   - latest: createdAt descending
//   - likes: like count descending
//   - replies: reply count descending
//
// An unrecognized key leaves the assembled order untouched.
//
// # Page reset
//
// A 1-based page beyond the recomputed total resets to page 1 rather than
// showing an empty page.
func Project(reviews []Review, sortBy string, page, pageSize int) Projection {
	if pageSize < 1 {
		pageSize = constants.DefaultThreadPageSize
	}

	sorted := make([]Review, len(reviews))
	copy(sorted, reviews)

	switch sortBy {
	case constants.SortLatest:
		sort.SliceStable(sorted, func(i, j int) bool {
			return createdAtTime(sorted[i].CreatedAt).After(createdAtTime(sorted[j].CreatedAt))
		})
	case constants.SortLikes:
		sort.SliceStable(sorted, func(i, j int) bool {
			return len(sorted[i].Likes) > len(sorted[j].Likes)
		})
	case constants.SortReplies:
		sort.SliceStable(sorted, func(i, j int) bool {
			return len(sorted[i].Replies) > len(sorted[j].Replies)
		})
	}

	meta := pagination.NewMeta(page, pageSize, len(sorted))
	page = pagination.ClampPage(page, meta.TotalPages)
	meta.Page = page

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(sorted) {
		start = len(sorted)
	}
	if end > len(sorted) {
		end = len(sorted)
	}

	return Projection{
		Reviews: sorted[start:end],
		Page:    page,
		Meta:    meta,
	}
}
