// Copyright (c) 2026 PageTalk. All rights reserved.
// Author: minh.vule.dev@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/minhvule/pagetalk/internal/platform/apperr"
	"github.com/minhvule/pagetalk/internal/platform/ctxutil"
	"github.com/minhvule/pagetalk/internal/platform/validate"
	"github.com/minhvule/pagetalk/internal/session"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
IntParam retrieves a named URL parameter and parses it as an int64 ID.

Returns:
  - int64: The parsed ID
  - error: apperr.ValidationError for a missing or non-numeric value
*/
func IntParam(request *http.Request, name string) (int64, error) {
	raw := chi.URLParam(request, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.ValidationError("Invalid " + name)
	}
	return id, nil
}

/*
Session extracts the browser session from the request context.

Returns nil if the session loader middleware did not run.
*/
func Session(request *http.Request) *session.Session {
	return ctxutil.GetSession(request.Context())
}

/*
RequiredSession ensures a session is present and returns it.

The session itself may still be anonymous; callers that need a login must
additionally check Session.Authenticated (or leave that to the coordinator's
auth gate).

Returns:
  - *session.Session: The browser session
  - error: a 500 AppError if the loader middleware is miswired
*/
func RequiredSession(request *http.Request) (*session.Session, error) {

	sess := ctxutil.GetSession(request.Context())
	if sess == nil {
		return nil, errMissingSession
	}

	return sess, nil
}

// errMissingSession signals a wiring bug, not a user error: every API route
// is mounted behind the session loader.
var errMissingSession = &apperr.AppError{
	Code:       "SESSION_MISSING",
	Message:    "Session middleware did not run",
	HTTPStatus: http.StatusInternalServerError,
}
