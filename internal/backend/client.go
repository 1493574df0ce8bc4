// Copyright (c) 2026 PageTalk. All rights reserved.
// Author: minh.vule.dev@gmail.com

/*
Package backend is the remote data gateway to the external review backend.

It owns the full HTTP contract for reviews, replies, likes, and JWT
authentication. All other packages consume typed methods and typed outcomes
(apperr) — no raw *http.Response leaves this package.

# Request Decoration

There are no ambient interceptors. Authenticated calls decorate the request
with the session's bearer token as an explicit step, and the 401 policy is
ordinary control flow: refresh once, retry the original request once, and on
refresh failure clear the session's auth state so the frontend redirects to
login.

# Exemptions

The like-update endpoint is deliberately issued WITHOUT the Authorization
header: anonymous actors may like reviews, and the backend accepts the full
likes array unauthenticated.
*/
package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	jsoniter "github.com/json-iterator/go"

	"github.com/minhvule/pagetalk/internal/platform/apperr"
	"github.com/minhvule/pagetalk/internal/session"
)

// codec is the JSON API used for all wire payloads.
var codec = jsoniter.ConfigCompatibleWithStandardLibrary

// refreshSkew triggers a proactive refresh shortly before the token expires,
// avoiding a guaranteed 401 round trip.
const refreshSkew = 30 * time.Second

// Client is the configured gateway to the review backend.
type Client struct {
	baseURL  string
	httpc    *http.Client
	log      *slog.Logger
	sessions session.Store
}

// NewClient constructs a gateway client.
//
// # Parameters
//   - baseURL: Review backend base URL, no trailing slash.
//   - timeout: Per-call upper bound.
//   - sessions: Store used to persist token refreshes and auth teardowns.
//   - log: Structured logger.
func NewClient(baseURL string, timeout time.Duration, sessions session.Store, log *slog.Logger) *Client {
	return &Client{
		baseURL:  baseURL,
		httpc:    &http.Client{Timeout: timeout},
		log:      log.With(slog.String("gateway", "review-backend")),
		sessions: sessions,
	}
}

// Ping probes the backend's reachability for the readiness endpoint. Any
// HTTP response counts as healthy; only transport failures are errors.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL+"/reviews", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("backend_unreachable: %w", err)
	}
	drainAndClose(resp.Body)
	return nil
}

// call issues one request against the backend.
//
// # Flow
//
//  1. Marshal the body (when present).
//  2. Decorate: Content-Type always; Authorization only when sess is non-nil.
//  3. On 401 of a decorated request: one refresh, one retry, else teardown.
//  4. Decode 2xx into out; map everything else to a typed [apperr.AppError].
//
// Passing a nil sess issues the call anonymously — this is how the like
// endpoint stays reachable without a login.
func (c *Client) call(ctx context.Context, method, path string, body, out any, sess *session.Session) error {
	retried := false

	// Refresh proactively when the token is already (about to be) expired.
	if sess != nil && sess.RefreshToken != "" && tokenExpired(sess.Token) {
		if err := c.refreshSession(ctx, sess); err != nil {
			return err
		}
		retried = true // the refreshed token gets no second refresh
	}

	for {
		var payload io.Reader
		if body != nil {
			raw, err := codec.Marshal(body)
			if err != nil {
				return apperr.Internal(fmt.Errorf("backend_marshal_failed: %w", err))
			}
			payload = bytes.NewReader(raw)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
		if err != nil {
			return apperr.Internal(fmt.Errorf("backend_new_request_failed: %w", err))
		}
		req.Header.Set("Content-Type", "application/json")
		if sess != nil && sess.Token != "" {
			req.Header.Set("Authorization", "Bearer "+sess.Token)
		}

		start := time.Now()
		resp, err := c.httpc.Do(req)
		if err != nil {
			return apperr.Upstream("", fmt.Errorf("backend_%s_%s_failed: %w", method, path, err))
		}

		c.log.DebugContext(ctx, "backend_http_response",
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("status", resp.StatusCode),
			slog.Int64("latency_ms", time.Since(start).Milliseconds()),
		)

		if resp.StatusCode == http.StatusUnauthorized && sess != nil && !retried {
			drainAndClose(resp.Body)

			if err := c.refreshSession(ctx, sess); err != nil {
				return err
			}

			retried = true
			continue
		}

		return c.finish(resp, out)
	}
}

// finish decodes a terminal response into out or maps it to a typed error.
func (c *Client) finish(resp *http.Response, out any) error {
	defer drainAndClose(resp.Body)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := codec.NewDecoder(resp.Body).Decode(out); err != nil {
			return apperr.Upstream("", fmt.Errorf("backend_decode_failed: %w", err))
		}
		return nil
	}

	// Prefer the server-provided error text over a generic message.
	msg := decodeErrorBody(resp.Body)

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		if msg == "" {
			return apperr.AuthRequired()
		}
		return apperr.Unauthorized(msg)
	case http.StatusForbidden:
		return apperr.Unauthorized(msg)
	case http.StatusNotFound:
		return apperr.NotFound("Resource")
	case http.StatusConflict:
		if msg == "" {
			msg = "Already exists"
		}
		return apperr.Conflict(msg)
	default:
		return apperr.Upstream(msg, fmt.Errorf("backend status %d", resp.StatusCode))
	}
}

// refreshSession performs the one-shot token refresh.
//
// On failure ALL auth state is cleared and persisted, so the frontend's next
// check sends the user to the login entry point.
func (c *Client) refreshSession(ctx context.Context, sess *session.Session) error {
	if sess.RefreshToken == "" {
		c.teardownAuth(ctx, sess)
		return apperr.AuthRequired()
	}

	tokens, err := c.refreshCall(ctx, sess.RefreshToken)
	if err != nil {
		c.log.WarnContext(ctx, "backend_token_refresh_failed", slog.Any("error", err))
		c.teardownAuth(ctx, sess)
		return apperr.AuthRequired()
	}

	sess.Token = tokens.Token
	if tokens.RefreshToken != "" {
		sess.RefreshToken = tokens.RefreshToken
	}
	if err := c.sessions.Save(ctx, sess); err != nil {
		return apperr.Internal(err)
	}

	c.log.InfoContext(ctx, "backend_token_refreshed", slog.String("actor", sess.ActorID()))
	return nil
}

// teardownAuth clears the session's auth state after a failed refresh.
func (c *Client) teardownAuth(ctx context.Context, sess *session.Session) {
	sess.ClearAuth()
	if err := c.sessions.Save(ctx, sess); err != nil {
		c.log.ErrorContext(ctx, "backend_auth_teardown_save_failed", slog.Any("error", err))
	}
}

// tokenExpired inspects the access token's exp claim.
//
// The parse is deliberately unverified — PageTalk does not hold the backend's
// signing key and only needs the expiry hint; the backend remains the
// authority on token validity.
func tokenExpired(token string) bool {
	if token == "" {
		return true
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		// Opaque token: let the 401 path handle it.
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}

	return time.Until(exp.Time) < refreshSkew
}

// decodeErrorBody extracts the "error" field from a backend error payload.
func decodeErrorBody(body io.Reader) string {
	var envelope struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := codec.NewDecoder(io.LimitReader(body, 4096)).Decode(&envelope); err != nil {
		return ""
	}
	if envelope.Error != "" {
		return envelope.Error
	}
	return envelope.Message
}

// drainAndClose fully consumes a response body so the connection can be reused.
func drainAndClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 1<<20))
	_ = body.Close()
}
