// Copyright (c) 2026 PageTalk. All rights reserved.
// Author: minh.vule.dev@gmail.com

/*
Package auth binds the session to an account on the review backend.

PageTalk never stores credentials or verifies passwords itself; it forwards
them to the backend's token endpoints and keeps the issued JWT pair inside
the server-side session. Signing out simply drops the tokens while keeping
the anonymous identity intact, so likes recorded before signing in stay
attributed to the same actor.
*/
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/minhvule/pagetalk/internal/backend"
	"github.com/minhvule/pagetalk/internal/platform/validate"
	"github.com/minhvule/pagetalk/internal/session"
)

// Authenticator is the slice of the backend client this package drives.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (backend.TokenResponse, error)
	Register(ctx context.Context, username, password string) error
}

// Identity is what the browser gets to know about the current session.
type Identity struct {
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username,omitempty"`
	ActorID       string `json:"actorId"`
}

// Service implements sign-in, sign-up, and sign-out against the backend.
type Service struct {
	backend  Authenticator
	sessions session.Store
	log      *slog.Logger
}

// NewService constructs the auth [Service].
func NewService(backend Authenticator, sessions session.Store, log *slog.Logger) *Service {
	return &Service{backend: backend, sessions: sessions, log: log}
}

/*
Login exchanges credentials for a token pair and binds it to the session.

A failed exchange also clears any stale tokens the session may still
carry, so a session never keeps credentials the backend just refused.
*/
func (s *Service) Login(ctx context.Context, sess *session.Session, username, password string) (Identity, error) {
	if err := validateCredentials(username, password); err != nil {
		return Identity{}, err
	}

	pair, err := s.backend.Authenticate(ctx, strings.TrimSpace(username), password)
	if err != nil {
		sess.ClearAuth()
		if saveErr := s.sessions.Save(ctx, sess); saveErr != nil {
			s.log.Warn("session save failed", "error", saveErr, "session_id", sess.ID)
		}
		return Identity{}, fmt.Errorf("authenticate_failed: %w", err)
	}

	sess.SetAuth(pair.Token, pair.RefreshToken, strings.TrimSpace(username))
	if err := s.sessions.Save(ctx, sess); err != nil {
		return Identity{}, fmt.Errorf("session_save_failed: %w", err)
	}

	return s.identity(sess), nil
}

/*
Register creates an account and immediately signs the session in, matching
the one-step sign-up flow of the frontend.

Returns a conflict error when the username is taken.
*/
func (s *Service) Register(ctx context.Context, sess *session.Session, username, password string) (Identity, error) {
	if err := validateCredentials(username, password); err != nil {
		return Identity{}, err
	}

	if err := s.backend.Register(ctx, strings.TrimSpace(username), password); err != nil {
		return Identity{}, fmt.Errorf("register_failed: %w", err)
	}

	return s.Login(ctx, sess, username, password)
}

// Logout drops the session's tokens. The anonymous ID survives.
func (s *Service) Logout(ctx context.Context, sess *session.Session) (Identity, error) {
	sess.ClearAuth()
	if err := s.sessions.Save(ctx, sess); err != nil {
		return Identity{}, fmt.Errorf("session_save_failed: %w", err)
	}
	return s.identity(sess), nil
}

// Whoami reports the session's current identity.
func (s *Service) Whoami(sess *session.Session) Identity {
	return s.identity(sess)
}

func (s *Service) identity(sess *session.Session) Identity {
	return Identity{
		Authenticated: sess.Authenticated(),
		Username:      sess.Username,
		ActorID:       sess.ActorID(),
	}
}

func validateCredentials(username, password string) error {
	v := &validate.Validator{}
	v.Required("username", strings.TrimSpace(username))
	v.MaxLen("username", username, 64)
	v.Required("password", password)
	v.MinLen("password", password, 4)
	if v.HasErrors() {
		return v.Err()
	}
	return nil
}
