// Copyright (c) 2026 PageTalk. All rights reserved.
// Author: minh.vule.dev@gmail.com

package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/minhvule/pagetalk/internal/session"
)

// # Review Endpoints

/*
ReviewsByBook fetches every review for one book.

The backend performs the bookId filter server-side.

Parameters:
  - ctx: context.Context
  - bookID: Routable catalog key of the book

Returns:
  - []ReviewDoc: The raw review documents (possibly empty, never nil)
  - error: Typed upstream errors
*/
func (c *Client) ReviewsByBook(ctx context.Context, bookID string) ([]ReviewDoc, error) {
	var docs []ReviewDoc
	path := "/reviews?bookId=" + url.QueryEscape(bookID)

	if err := c.call(ctx, http.MethodGet, path, nil, &docs, nil); err != nil {
		return nil, err
	}

	if docs == nil {
		docs = []ReviewDoc{}
	}
	return docs, nil
}

/*
CreateReview posts a new review. Requires a bearer token.

Parameters:
  - ctx: context.Context
  - sess: Authenticated browser session
  - input: bookId, content, and the (empty) initial likes list

Returns:
  - ReviewDoc: The created review with its server-assigned ID
  - error: Typed upstream errors
*/
func (c *Client) CreateReview(ctx context.Context, sess *session.Session, input CreateReviewInput) (ReviewDoc, error) {
	var doc ReviewDoc
	if err := c.call(ctx, http.MethodPost, "/reviews", input, &doc, sess); err != nil {
		return ReviewDoc{}, err
	}
	return doc, nil
}

/*
UpdateReview replaces a review wholesale. Requires a bearer token.

Parameters:
  - ctx: context.Context
  - sess: Authenticated browser session
  - reviewID: Server-assigned review ID
  - input: Full review payload (content plus preserved fields)

Returns:
  - error: Typed upstream errors
*/
func (c *Client) UpdateReview(ctx context.Context, sess *session.Session, reviewID int64, input UpdateReviewInput) error {
	path := fmt.Sprintf("/reviews/%d", reviewID)
	return c.call(ctx, http.MethodPut, path, input, nil, sess)
}

/*
DeleteReview removes a review. Requires a bearer token.
*/
func (c *Client) DeleteReview(ctx context.Context, sess *session.Session, reviewID int64) error {
	path := fmt.Sprintf("/reviews/%d", reviewID)
	return c.call(ctx, http.MethodDelete, path, nil, nil, sess)
}

/*
UpdateLikes replaces a review's full likes array.

This endpoint deliberately carries NO Authorization header — anonymous actors
may like — which is why the session is never passed down to the transport.

Parameters:
  - ctx: context.Context
  - reviewID: Server-assigned review ID
  - likes: The ENTIRE resulting likes sequence (not a delta)

Returns:
  - error: Typed upstream errors
*/
func (c *Client) UpdateLikes(ctx context.Context, reviewID int64, likes []string) error {
	path := fmt.Sprintf("/reviews/%d/like", reviewID)
	return c.call(ctx, http.MethodPut, path, likes, nil, nil)
}
