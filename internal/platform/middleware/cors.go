// Copyright (c) 2026 Wayfare. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"net/http"
	"slices"

	"github.com/taibuivan/wayfare/internal/platform/constants"
	"github.com/taibuivan/wayfare/internal/platform/respond"
)

// # Cross-Origin Resource Sharing

// CORSConfig is the part of the application config CORS needs.
type CORSConfig interface {
	IsDevelopment() bool
	Origins() []string
}

// CORS reflects configured origins with credentials enabled, so a separately
// hosted client can send the session cookie. In development any other origin
// is reflected too, but never with credentials.
func CORS(cfg CORSConfig) func(http.Handler) http.Handler {
	allowed := cfg.Origins()
	allowAnonymous := cfg.IsDevelopment()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			origin := request.Header.Get(constants.HeaderOrigin)
			if origin == "" {
				next.ServeHTTP(writer, request)
				return
			}

			trusted := slices.Contains(allowed, origin)
			if trusted || allowAnonymous {
				header := writer.Header()
				header.Set("Access-Control-Allow-Origin", origin)
				header.Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
				header.Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, X-Request-ID")
				header.Set("Access-Control-Expose-Headers", "Content-Length, X-Request-ID")
				header.Set("Access-Control-Max-Age", "300")
				header.Add("Vary", "Origin")
				if trusted {
					header.Set("Access-Control-Allow-Credentials", "true")
				}
			}

			if request.Method == http.MethodOptions {
				respond.NoContent(writer)
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
