// Copyright (c) 2026 PageTalk. All rights reserved.
// Author: minh.vule.dev@gmail.com

package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhvule/pagetalk/internal/backend"
	"github.com/minhvule/pagetalk/internal/platform/apperr"
	"github.com/minhvule/pagetalk/internal/session"
)

// fakeAuthenticator is a canned account backend.
type fakeAuthenticator struct {
	password   string
	registered map[string]bool
}

func (f *fakeAuthenticator) Authenticate(ctx context.Context, username, password string) (backend.TokenResponse, error) {
	if password != f.password {
		return backend.TokenResponse{}, apperr.Unauthorized("Bad credentials")
	}
	return backend.TokenResponse{Token: "tok-" + username, RefreshToken: "ref-" + username}, nil
}

func (f *fakeAuthenticator) Register(ctx context.Context, username, password string) error {
	if f.registered[username] {
		return apperr.Conflict("Username already exists")
	}
	f.registered[username] = true
	return nil
}

// memorySessions is an in-memory session.Store.
type memorySessions struct {
	data map[string]*session.Session
}

func newMemorySessions() *memorySessions {
	return &memorySessions{data: map[string]*session.Session{}}
}

func (m *memorySessions) Get(ctx context.Context, id string) (*session.Session, error) {
	sess, ok := m.data[id]
	if !ok {
		return nil, apperr.NotFound("Session")
	}
	return sess, nil
}

func (m *memorySessions) Save(ctx context.Context, sess *session.Session) error {
	m.data[sess.ID] = sess
	return nil
}

func (m *memorySessions) Delete(ctx context.Context, id string) error {
	delete(m.data, id)
	return nil
}

func newTestService() (*Service, *fakeAuthenticator, *memorySessions) {
	accounts := &fakeAuthenticator{password: "correct", registered: map[string]bool{"taken": true}}
	sessions := newMemorySessions()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(accounts, sessions, log), accounts, sessions
}

/*
TestLogin binds tokens to the session on success and reports the new
identity.
*/
func TestLogin(t *testing.T) {
	service, _, sessions := newTestService()
	sess := session.New()

	identity, err := service.Login(context.Background(), sess, "alice", "correct")

	require.NoError(t, err)
	assert.True(t, identity.Authenticated)
	assert.Equal(t, "alice", identity.Username)
	assert.Equal(t, "alice", identity.ActorID)
	assert.Equal(t, "tok-alice", sess.Token)
	assert.Equal(t, "ref-alice", sess.RefreshToken)
	assert.Contains(t, sessions.data, sess.ID)
}

/*
TestLogin_Failure verifies bad credentials clear any stale auth state.
*/
func TestLogin_Failure(t *testing.T) {
	service, _, _ := newTestService()
	sess := session.New()
	sess.SetAuth("old-token", "old-refresh", "alice")

	_, err := service.Login(context.Background(), sess, "alice", "wrong")

	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)
	assert.False(t, sess.Authenticated())
	assert.Empty(t, sess.Token)
}

/*
TestLogin_Validation verifies empty credentials fail before any backend call.
*/
func TestLogin_Validation(t *testing.T) {
	service, _, _ := newTestService()

	_, err := service.Login(context.Background(), session.New(), "", "")

	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

/*
TestRegister signs the session in right after creating the account, and
surfaces the conflict for taken usernames.
*/
func TestRegister(t *testing.T) {
	service, _, _ := newTestService()
	ctx := context.Background()

	identity, err := service.Register(ctx, session.New(), "bob", "correct")
	require.NoError(t, err)
	assert.True(t, identity.Authenticated)
	assert.Equal(t, "bob", identity.Username)

	_, err = service.Register(ctx, session.New(), "taken", "correct")
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)
}

/*
TestLogout drops the credentials but keeps the anonymous identity.
*/
func TestLogout(t *testing.T) {
	service, _, _ := newTestService()
	sess := session.New()
	anon := sess.AnonymousID

	_, err := service.Login(context.Background(), sess, "alice", "correct")
	require.NoError(t, err)

	identity, err := service.Logout(context.Background(), sess)

	require.NoError(t, err)
	assert.False(t, identity.Authenticated)
	assert.Empty(t, identity.Username)
	assert.Equal(t, anon, identity.ActorID, "likes stay attributable after logout")
}

/*
TestWhoami reports the anonymous identity for fresh sessions.
*/
func TestWhoami(t *testing.T) {
	service, _, _ := newTestService()
	sess := session.New()

	identity := service.Whoami(sess)

	assert.False(t, identity.Authenticated)
	assert.Equal(t, sess.AnonymousID, identity.ActorID)
}
