// Copyright (c) 2026 PageTalk. All rights reserved.
// Author: minh.vule.dev@gmail.com

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/minhvule/pagetalk/internal/platform/request"
	"github.com/minhvule/pagetalk/internal/platform/respond"
)

// Handler implements the HTTP layer for session identity.
type Handler struct {
	service *Service
}

// NewHandler constructs a new auth [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with the auth endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/login", handler.login)
	router.Post("/register", handler.register)
	router.Post("/logout", handler.logout)
	router.Get("/me", handler.whoami)

	return router
}

// credentialsBody is the shared login/register request body.
type credentialsBody struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

/*
POST /api/v1/auth/login.

Description: Exchanges credentials for a backend token pair bound to the
session. Tokens never leave the server.

Response:
  - 200: Identity: Signed-in identity
  - 401: UNAUTHORIZED: The backend rejected the credentials
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {

	sess, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body credentialsBody
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	identity, err := handler.service.Login(request.Context(), sess, body.Username, body.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, identity)
}

/*
POST /api/v1/auth/register.

Description: Creates an account on the review backend and signs the
session in.

Response:
  - 201: Identity: Signed-in identity
  - 409: CONFLICT: Username already taken
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {

	sess, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body credentialsBody
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	identity, err := handler.service.Register(request.Context(), sess, body.Username, body.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, identity)
}

/*
POST /api/v1/auth/logout.

Description: Drops the session's tokens. The anonymous ID, and therefore
any likes recorded under it, survive.
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {

	sess, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	identity, err := handler.service.Logout(request.Context(), sess)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, identity)
}

// GET /api/v1/auth/me reports the session's current identity.
func (handler *Handler) whoami(writer http.ResponseWriter, request *http.Request) {

	sess, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, handler.service.Whoami(sess))
}
