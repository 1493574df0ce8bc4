// Copyright (c) 2026 PageTalk. All rights reserved.
// Author: minh.vule.dev@gmail.com

package middleware

import (
	"log/slog"
	"net/http"

	"github.com/minhvule/pagetalk/internal/platform/apperr"
	"github.com/minhvule/pagetalk/internal/platform/constants"
	"github.com/minhvule/pagetalk/internal/platform/ctxutil"
	"github.com/minhvule/pagetalk/internal/session"
)

// CookieConfig defines the behavior needed to shape the session cookie.
type CookieConfig interface {
	CookieSecure() bool
}

// SessionLoader resolves the per-browser session for every API request.
//
// # Flow
//
//  1. Read the session cookie.
//  2. Load the session from the store; an expired or unknown cookie is NOT an
//     error — a fresh anonymous session is minted in its place.
//  3. On a fresh session, persist it and set the cookie.
//  4. Inject the [*session.Session] into the request context.
//
// The loader never blocks a request on auth: sessions start anonymous and the
// coordinator's auth gates decide per action.
func SessionLoader(store session.Store, cfg CookieConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			ctx := request.Context()

			var sess *session.Session

			if cookie, err := request.Cookie(constants.SessionCookieName); err == nil {
				loaded, err := store.Get(ctx, cookie.Value)
				switch {
				case err == nil:
					sess = loaded
				case apperr.IsAppError(err):
					// Expired or unknown: fall through to a fresh session.
				default:
					// Store outage. The page must still render, so continue
					// with a transient in-memory session that keeps the
					// browser's session ID. The cookie stays untouched so the
					// original session is found again once the store recovers.
					ctxutil.GetLogger(ctx).ErrorContext(ctx, "session_load_failed",
						slog.Any("error", err),
					)
					sess = session.New()
					sess.ID = cookie.Value
				}
			}

			if sess == nil {
				sess = session.New()
				if err := store.Save(ctx, sess); err != nil {
					ctxutil.GetLogger(ctx).ErrorContext(ctx, "session_create_failed",
						slog.Any("error", err),
					)
				}

				http.SetCookie(writer, &http.Cookie{
					Name:     constants.SessionCookieName,
					Value:    sess.ID,
					Path:     "/",
					HttpOnly: true,
					Secure:   cfg.CookieSecure(),
					SameSite: http.SameSiteLaxMode,
				})
			}

			next.ServeHTTP(writer, request.WithContext(ctxutil.WithSession(ctx, sess)))
		})
	}
}
