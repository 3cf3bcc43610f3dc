// Copyright (c) 2026 Wayfare. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost presentation boundary.
  - It is the composition root for the chi router.
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/wayfare/internal/memories"
	"github.com/taibuivan/wayfare/internal/platform/config"
	"github.com/taibuivan/wayfare/internal/platform/constants"
	"github.com/taibuivan/wayfare/internal/platform/middleware"
	"github.com/taibuivan/wayfare/internal/users/auth"
	"github.com/taibuivan/wayfare/internal/web"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all HTTP handler sets.
type Handlers struct {
	// Liveness is the /health handler.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler.
	Readiness http.HandlerFunc

	// Auth handles register, login, logout and me.
	Auth *auth.Handler

	// Memories handles the photo journal.
	Memories *memories.Handler

	// Pages serves the embedded browser client.
	Pages *web.Handler

	// Media serves disk-backed blobs. Nil when blobs live in S3.
	Media http.Handler
}

// # Server Initialization

// NewRouter builds the chi router with the full middleware chain and all routes.
func NewRouter(cfg *config.Config, log *slog.Logger, gate middleware.SessionValidator, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	// # Middleware Chain
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(middleware.PanicRecovery(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)
	r.Use(middleware.SessionGate(gate))

	// # Infrastructure Endpoints
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	if h.Media != nil {
		r.Handle("/media/*", http.StripPrefix("/media/", h.Media))
	}

	// # Application API
	r.Route("/api", func(api chi.Router) {
		api.Mount("/auth", h.Auth.Routes())
		api.Mount("/memories", h.Memories.Routes())
	})

	// # Browser Client
	r.Mount("/", h.Pages.Routes())

	return r
}

// NewServer wraps the router into an [http.Server] with the platform timeouts.
func NewServer(cfg *config.Config, log *slog.Logger, gate middleware.SessionValidator, h Handlers) *Server {
	router := NewRouter(cfg, log, gate, h)

	return &Server{
		router: router,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           router,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
