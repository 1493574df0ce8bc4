// Copyright (c) 2026 PageTalk. All rights reserved.
// Author: minh.vule.dev@gmail.com

package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhvule/pagetalk/internal/platform/apperr"
	"github.com/minhvule/pagetalk/internal/platform/constants"
	"github.com/minhvule/pagetalk/internal/platform/ctxutil"
	"github.com/minhvule/pagetalk/internal/platform/middleware"
	"github.com/minhvule/pagetalk/internal/session"
)

// memoryStore is an in-memory session.Store for loader tests.
type memoryStore struct {
	sessions map[string]*session.Session
}

func newMemoryStore() *memoryStore {
	return &memoryStore{sessions: make(map[string]*session.Session)}
}

func (s *memoryStore) Get(_ context.Context, id string) (*session.Session, error) {
	sess, ok := s.sessions[id]
	if !ok {
		return nil, apperr.NotFound("Session not found")
	}
	return sess, nil
}

func (s *memoryStore) Save(_ context.Context, sess *session.Session) error {
	s.sessions[sess.ID] = sess
	return nil
}

func (s *memoryStore) Delete(_ context.Context, id string) error {
	delete(s.sessions, id)
	return nil
}

// failingStore errors on every call, simulating a store outage.
type failingStore struct{}

func (failingStore) Get(context.Context, string) (*session.Session, error) {
	return nil, errors.New("connection refused")
}

func (failingStore) Save(context.Context, *session.Session) error {
	return errors.New("connection refused")
}

func (failingStore) Delete(context.Context, string) error {
	return errors.New("connection refused")
}

// plainCookies satisfies middleware.CookieConfig for tests.
type plainCookies struct{}

func (plainCookies) CookieSecure() bool { return false }

// capture runs a request through the loader and records the session the
// downstream handler observed.
func capture(t *testing.T, store session.Store, cookie *http.Cookie) (*session.Session, *httptest.ResponseRecorder) {
	t.Helper()

	var seen *session.Session
	handler := middleware.SessionLoader(store, plainCookies{})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = ctxutil.GetSession(r.Context())
			w.WriteHeader(http.StatusOK)
		}),
	)

	request := httptest.NewRequest(http.MethodGet, "/api/v1/books", nil)
	if cookie != nil {
		request.AddCookie(cookie)
	}

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	require.NotNil(t, seen, "downstream handler should always receive a session")
	return seen, recorder
}

func setCookie(recorder *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range recorder.Result().Cookies() {
		if c.Name == constants.SessionCookieName {
			return c
		}
	}
	return nil
}

func TestSessionLoader_MintsAnonymousSession(t *testing.T) {
	store := newMemoryStore()

	sess, recorder := capture(t, store, nil)

	assert.NotEmpty(t, sess.ID)
	assert.False(t, sess.Authenticated())

	cookie := setCookie(recorder)
	require.NotNil(t, cookie, "first contact should set the session cookie")
	assert.Equal(t, sess.ID, cookie.Value)
	assert.True(t, cookie.HttpOnly)

	_, err := store.Get(context.Background(), sess.ID)
	assert.NoError(t, err, "minted session should be persisted")
}

func TestSessionLoader_LoadsExistingSession(t *testing.T) {
	store := newMemoryStore()

	existing := session.New()
	existing.SetAuth("token", "refresh", "minh")
	require.NoError(t, store.Save(context.Background(), existing))

	sess, recorder := capture(t, store, &http.Cookie{
		Name:  constants.SessionCookieName,
		Value: existing.ID,
	})

	assert.Equal(t, existing.ID, sess.ID)
	assert.True(t, sess.Authenticated())
	assert.Nil(t, setCookie(recorder), "a known cookie should not be reissued")
}

func TestSessionLoader_ExpiredCookieGetsFreshSession(t *testing.T) {
	store := newMemoryStore()

	sess, recorder := capture(t, store, &http.Cookie{
		Name:  constants.SessionCookieName,
		Value: "long-gone",
	})

	assert.NotEqual(t, "long-gone", sess.ID)
	cookie := setCookie(recorder)
	require.NotNil(t, cookie)
	assert.Equal(t, sess.ID, cookie.Value)
}

func TestSessionLoader_StoreOutagePreservesCookie(t *testing.T) {
	sess, recorder := capture(t, failingStore{}, &http.Cookie{
		Name:  constants.SessionCookieName,
		Value: "existing-sid-with-login",
	})

	// The transient session keeps the browser's ID and the cookie is left
	// untouched, so the original session is found again after recovery.
	assert.Equal(t, "existing-sid-with-login", sess.ID)
	assert.Nil(t, setCookie(recorder), "an outage must not reissue the session cookie")
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestSessionLoader_StoreOutageWithoutCookie(t *testing.T) {
	sess, _ := capture(t, failingStore{}, nil)

	// First contact during an outage still serves a working anonymous session.
	assert.NotEmpty(t, sess.ID)
	assert.False(t, sess.Authenticated())
}
