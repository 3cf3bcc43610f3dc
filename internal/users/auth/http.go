// Copyright (c) 2026 Wayfare. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/wayfare/internal/platform/constants"
	requestutil "github.com/taibuivan/wayfare/internal/platform/request"
	"github.com/taibuivan/wayfare/internal/platform/respond"
	"github.com/taibuivan/wayfare/internal/platform/sec"
	"github.com/taibuivan/wayfare/internal/platform/validate"
)

// # Definitions & Constructors

// CookieFactory describes the session cookies set by login and cleared by logout.
type CookieFactory interface {
	LoginCookie(token string) *http.Cookie
	LogoutCookie() *http.Cookie
}

// Handler implements the authentication HTTP endpoints.
type Handler struct {
	authService *Service
	cookies     CookieFactory
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service, cookies CookieFactory) *Handler {
	return &Handler{authService: service, cookies: cookies}
}

// Routes returns a [chi.Router] with the authentication routes.
//
// # Endpoints
//   - POST /register : Creates an account and signs it in.
//   - POST /login    : Signs in with username and password.
//   - POST /logout   : Ends the current session.
//   - GET  /me       : Returns the signed-in account.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/logout", handler.logout)
	router.Get("/me", handler.me)

	return router
}

// # Payloads

// passwordRequired is reported only for an empty password. Passwords are not trimmed.
const passwordRequired = "This field is required"

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type profileResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

/*
Register handles the creation of a new account.

POST /api/auth/register

Description: Validates the credentials, stores the account, opens a session and
sets the session cookie.

Request:
  - Body: credentialsRequest (Username, Password)

Response:
  - 201: profileResponse + Set-Cookie
  - 400: Missing fields, username outside 3-30 characters, password under 6
  - 409: Username already taken
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input credentialsRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	username := sec.NormalizeUsername(input.Username)

	validator := &validate.Validator{}
	validator.Required(FieldUsername, username).
		Custom(FieldPassword, input.Password == "", passwordRequired)
	if !validator.HasErrors() {
		validator.MinLen(FieldUsername, username, UsernameMinLength).
			MaxLen(FieldUsername, username, UsernameMaxLength).
			MinLen(FieldPassword, input.Password, PasswordMinLength)
	}
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	signedIn, err := handler.authService.Register(request.Context(), Credentials{Username: username, Password: input.Password})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	http.SetCookie(writer, handler.cookies.LoginCookie(signedIn.Token))
	respond.Created(writer, profileResponse{ID: signedIn.User.ID, Username: signedIn.User.Username})
}

/*
Login authenticates an account and opens a session.

POST /api/auth/login

Request:
  - Body: credentialsRequest (Username, Password)

Response:
  - 200: profileResponse + Set-Cookie
  - 400: Missing fields
  - 401: Invalid username or password
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input credentialsRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		Custom(FieldPassword, input.Password == "", passwordRequired)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	signedIn, err := handler.authService.Login(request.Context(), Credentials{Username: input.Username, Password: input.Password})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	http.SetCookie(writer, handler.cookies.LoginCookie(signedIn.Token))
	respond.OK(writer, profileResponse{ID: signedIn.User.ID, Username: signedIn.User.Username})
}

/*
Logout ends the current session, if any, and clears the cookie.

POST /api/auth/logout

Response:
  - 200: {"success": true} + cleared cookie
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	if err := handler.authService.Logout(request.Context(), requestutil.SessionToken(request)); err != nil {
		respond.Error(writer, request, err)
		return
	}

	http.SetCookie(writer, handler.cookies.LogoutCookie())
	respond.OK(writer, map[string]bool{constants.FieldSuccess: true})
}

/*
Me returns the account behind the session cookie.

GET /api/auth/me

Response:
  - 200: profileResponse
  - 401: Not authenticated
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	identity, err := handler.authService.Me(request.Context(), requestutil.SessionToken(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profileResponse{ID: identity.UserID, Username: identity.Username})
}
