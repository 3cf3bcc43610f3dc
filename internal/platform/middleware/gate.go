// Copyright (c) 2026 Wayfare. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/taibuivan/wayfare/internal/platform/constants"
	"github.com/taibuivan/wayfare/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/wayfare/internal/platform/request"
	"github.com/taibuivan/wayfare/internal/users/session"
)

// # Session Gate

// publicPrefixes are served without a session check.
var publicPrefixes = []string{
	"/login",
	"/register",
	"/api/auth",
	"/favicon",
	"/static",
	"/media",
	"/health",
	"/ready",
}

// SessionValidator is the part of [session.Manager] the gate needs.
type SessionValidator interface {
	ValidateSession(ctx context.Context, token string) (session.Result, error)
	LogoutCookie() *http.Cookie
}

// IsPublicPath reports whether path bypasses the session check: auth endpoints,
// the login and register pages, probes, static files, and anything that looks
// like a file (contains a dot).
func IsPublicPath(path string) bool {
	if strings.Contains(path, ".") {
		return true
	}
	for _, prefix := range publicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

/*
SessionGate redirects every protected request without a valid session to the login page.

# Flow
 1. Public paths pass straight through.
 2. No cookie: 307 to /login.
 3. Unknown or expired session: 307 to /login and the cookie is cleared.
 4. Store failure: 307 to /login (fail closed).
 5. Valid session: the request proceeds unchanged.

The resolved identity is not placed in the context. Handlers that need it
resolve the cookie again.
*/
func SessionGate(validator SessionValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if IsPublicPath(request.URL.Path) {
				next.ServeHTTP(writer, request)
				return
			}

			token := requestutil.SessionToken(request)
			if token == "" {
				redirectToLogin(writer, request)
				return
			}

			result, err := validator.ValidateSession(request.Context(), token)
			if err != nil {
				ctxutil.GetLogger(request.Context()).WarnContext(request.Context(), "session_gate_store_error", slog.Any("error", err))
				redirectToLogin(writer, request)
				return
			}

			if !result.Valid() {
				ctxutil.GetLogger(request.Context()).DebugContext(request.Context(), "session_gate_rejected", slog.String("status", result.Status.String()))
				http.SetCookie(writer, validator.LogoutCookie())
				redirectToLogin(writer, request)
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

func redirectToLogin(writer http.ResponseWriter, request *http.Request) {
	http.Redirect(writer, request, constants.LoginPath, http.StatusTemporaryRedirect)
}
