// Copyright (c) 2026 PageTalk. All rights reserved.
// Author: minh.vule.dev@gmail.com

package backend_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhvule/pagetalk/internal/backend"
	"github.com/minhvule/pagetalk/internal/platform/apperr"
	"github.com/minhvule/pagetalk/internal/session"
)

// memoryStore is a minimal in-memory session.Store.
type memoryStore struct {
	saved map[string]*session.Session
}

func newMemoryStore() *memoryStore {
	return &memoryStore{saved: map[string]*session.Session{}}
}

func (m *memoryStore) Get(ctx context.Context, id string) (*session.Session, error) {
	sess, ok := m.saved[id]
	if !ok {
		return nil, apperr.NotFound("Session")
	}
	return sess, nil
}

func (m *memoryStore) Save(ctx context.Context, sess *session.Session) error {
	m.saved[sess.ID] = sess
	return nil
}

func (m *memoryStore) Delete(ctx context.Context, id string) error {
	delete(m.saved, id)
	return nil
}

func newTestClient(t *testing.T, handler http.Handler) (*backend.Client, *memoryStore) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store := newMemoryStore()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return backend.NewClient(server.URL, 5*time.Second, store, log), store
}

func authedSession(token string) *session.Session {
	sess := session.New()
	sess.SetAuth(token, "refresh-1", "alice")
	return sess
}

/*
TestCall_TokenDecoration verifies authenticated calls carry the session's
bearer token.
*/
func TestCall_TokenDecoration(t *testing.T) {
	var gotAuth string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(backend.ReviewDoc{ID: 1})
	}))

	_, err := client.CreateReview(context.Background(), authedSession("tok-abc"), backend.CreateReviewInput{
		BookID: "OL1W", Content: "nice", Likes: []string{},
	})

	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-abc", gotAuth)
}

/*
TestUpdateLikes_NoAuthHeader verifies the like endpoint is hit anonymously
with the full membership array as the body.
*/
func TestUpdateLikes_NoAuthHeader(t *testing.T) {
	var gotAuth string
	var gotBody []string
	var gotPath string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}))

	err := client.UpdateLikes(context.Background(), 7, []string{"alice", "anon-123"})

	require.NoError(t, err)
	assert.Empty(t, gotAuth, "like updates must not carry credentials")
	assert.Equal(t, "/reviews/7/like", gotPath)
	assert.Equal(t, []string{"alice", "anon-123"}, gotBody)
}

/*
TestCall_RefreshRetryOn401 verifies the one-shot recovery: a 401 triggers a
token refresh and a single retry of the original request.
*/
func TestCall_RefreshRetryOn401(t *testing.T) {
	var tries int
	var refreshBody map[string]string
	client, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/reviews/5":
			tries++
			if r.Header.Get("Authorization") != "Bearer fresh-token" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.WriteHeader(http.StatusOK)
		case "/authenticate":
			_ = json.NewDecoder(r.Body).Decode(&refreshBody)
			_ = json.NewEncoder(w).Encode(backend.TokenResponse{Token: "fresh-token", RefreshToken: "fresh-refresh"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	sess := authedSession("stale-token")
	err := client.DeleteReview(context.Background(), sess, 5)

	require.NoError(t, err)
	assert.Equal(t, 2, tries, "original call retried exactly once")
	assert.Equal(t, "refresh-1", refreshBody["refreshToken"], "refresh token travels in the body")
	assert.Equal(t, "fresh-token", sess.Token)
	assert.Equal(t, "fresh-refresh", sess.RefreshToken)
	require.Contains(t, store.saved, sess.ID, "refreshed session is persisted")
}

/*
TestCall_RefreshFailureTearsDownAuth verifies a failed refresh clears the
session's credentials so the frontend lands on the login entry point.
*/
func TestCall_RefreshFailureTearsDownAuth(t *testing.T) {
	client, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	sess := authedSession("stale-token")
	err := client.DeleteReview(context.Background(), sess, 5)

	require.Error(t, err)
	assert.Equal(t, "AUTH_REQUIRED", apperr.As(err).Code)
	assert.False(t, sess.Authenticated())
	assert.Empty(t, sess.Token)
	require.Contains(t, store.saved, sess.ID, "teardown is persisted")
}

/*
TestCall_UpstreamMessagePreference verifies the server-provided error text
wins over the generic message, which applies only when the body is silent.
*/
func TestCall_UpstreamMessagePreference(t *testing.T) {
	t.Run("server_text", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "review backend exploded"})
		}))

		_, err := client.ReviewsByBook(context.Background(), "OL1W")

		require.Error(t, err)
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "review backend exploded", ae.Message)
		assert.Equal(t, http.StatusBadGateway, ae.HTTPStatus)
	})

	t.Run("silent_body", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))

		_, err := client.ReviewsByBook(context.Background(), "OL1W")

		require.Error(t, err)
		assert.Equal(t, "Server error", apperr.As(err).Message)
	})
}

/*
TestRegister_Conflict verifies a 409 maps to the typed conflict error.
*/
func TestRegister_Conflict(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Username already exists"})
	}))

	err := client.Register(context.Background(), "alice", "secret")

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "CONFLICT", ae.Code)
	assert.Equal(t, "Username already exists", ae.Message)
}

/*
TestReviewsByBook_TolerantLikes verifies null or malformed likes decode to
an empty list instead of failing the payload.
*/
func TestReviewsByBook_TolerantLikes(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "OL1W", r.URL.Query().Get("bookId"))
		_, _ = w.Write([]byte(`[
			{"id": 1, "bookId": "OL1W", "likes": null},
			{"id": 2, "bookId": "OL1W", "likes": "corrupted"},
			{"id": 3, "bookId": "OL1W", "likes": ["alice"]}
		]`))
	}))

	docs, err := client.ReviewsByBook(context.Background(), "OL1W")

	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Empty(t, docs[0].Likes)
	assert.NotNil(t, []string(docs[0].Likes))
	assert.Empty(t, docs[1].Likes)
	assert.Equal(t, backend.StringList{"alice"}, docs[2].Likes)
}

/*
TestAuthenticate verifies the token exchange and the unauthorized mapping.
*/
func TestAuthenticate(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var creds map[string]string
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds["password"] != "right" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "Bad credentials"})
			return
		}
		_ = json.NewEncoder(w).Encode(backend.TokenResponse{Token: "tok", RefreshToken: "ref"})
	}))
	ctx := context.Background()

	tokens, err := client.Authenticate(ctx, "alice", "right")
	require.NoError(t, err)
	assert.Equal(t, "tok", tokens.Token)

	_, err = client.Authenticate(ctx, "alice", "wrong")
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusUnauthorized, ae.HTTPStatus)
	assert.Equal(t, "Bad credentials", ae.Message)
}
