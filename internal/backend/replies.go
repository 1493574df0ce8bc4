// Copyright (c) 2026 PageTalk. All rights reserved.
// Author: minh.vule.dev@gmail.com

package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/minhvule/pagetalk/internal/session"
)

// # Reply Endpoints

/*
AllReplies fetches the entire global reply collection.

The endpoint is unfiltered by design: review association happens client-side
in the thread assembler, and this fetch doubles as a reconciliation source
when review documents arrive without their replies embedded.

Returns:
  - []ReplyDoc: Every reply in the system (possibly empty, never nil)
  - error: Typed upstream errors
*/
func (c *Client) AllReplies(ctx context.Context) ([]ReplyDoc, error) {
	var docs []ReplyDoc
	if err := c.call(ctx, http.MethodGet, "/replies", nil, &docs, nil); err != nil {
		return nil, err
	}

	if docs == nil {
		docs = []ReplyDoc{}
	}
	return docs, nil
}

/*
CreateReply posts a new reply under a review. Requires a bearer token.
*/
func (c *Client) CreateReply(ctx context.Context, sess *session.Session, reviewID int64, content string) error {
	path := fmt.Sprintf("/replies/%d", reviewID)
	return c.call(ctx, http.MethodPost, path, ReplyInput{Content: content}, nil, sess)
}

/*
UpdateReply replaces a reply's content. Requires a bearer token.
*/
func (c *Client) UpdateReply(ctx context.Context, sess *session.Session, replyID int64, content string) error {
	path := fmt.Sprintf("/replies/%d", replyID)
	return c.call(ctx, http.MethodPut, path, ReplyInput{Content: content}, nil, sess)
}

/*
DeleteReply removes a reply, addressed by its review and its own ID.
Requires a bearer token.
*/
func (c *Client) DeleteReply(ctx context.Context, sess *session.Session, reviewID, replyID int64) error {
	path := fmt.Sprintf("/replies/%d/%d", reviewID, replyID)
	return c.call(ctx, http.MethodDelete, path, nil, nil, sess)
}
