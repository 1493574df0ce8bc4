// Copyright (c) 2026 PageTalk. All rights reserved.
// Author: minh.vule.dev@gmail.com

package backend

import (
	"context"
	"net/http"
)

// # Authentication Endpoints

// credentials is the body for POST /authenticate and POST /register.
type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// refreshRequest reuses the authenticate endpoint for token refresh.
type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

/*
Authenticate exchanges credentials for a JWT.

Parameters:
  - ctx: context.Context
  - username, password: User credentials (never stored by PageTalk)

Returns:
  - TokenResponse: Access token (and refresh token when the backend issues one)
  - error: apperr.Unauthorized on bad credentials, typed upstream errors otherwise
*/
func (c *Client) Authenticate(ctx context.Context, username, password string) (TokenResponse, error) {
	var tokens TokenResponse
	body := credentials{Username: username, Password: password}

	if err := c.call(ctx, http.MethodPost, "/authenticate", body, &tokens, nil); err != nil {
		return TokenResponse{}, err
	}
	return tokens, nil
}

/*
Register creates a new user account.

Returns:
  - error: apperr.Conflict when the username already exists
*/
func (c *Client) Register(ctx context.Context, username, password string) error {
	body := credentials{Username: username, Password: password}
	return c.call(ctx, http.MethodPost, "/register", body, nil, nil)
}

// refreshCall performs the raw refresh exchange. It is anonymous on the wire:
// the refresh token travels in the body, not in an Authorization header.
func (c *Client) refreshCall(ctx context.Context, refreshToken string) (TokenResponse, error) {
	var tokens TokenResponse
	body := refreshRequest{RefreshToken: refreshToken}

	if err := c.call(ctx, http.MethodPost, "/authenticate", body, &tokens, nil); err != nil {
		return TokenResponse{}, err
	}
	return tokens, nil
}
