// Copyright (c) 2026 Wayfare. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package web serves the browser client: three HTML pages and one script,
// all embedded in the binary.
package web

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
)

//go:embed pages
var content embed.FS

// Handler serves the embedded pages.
type Handler struct {
	pages fs.FS
}

// NewHandler returns a handler over the embedded page set.
func NewHandler() *Handler {
	pages, err := fs.Sub(content, "pages")
	if err != nil {
		panic("web: embedded pages missing: " + err.Error())
	}
	return &Handler{pages: pages}
}

// Routes returns the page routes.
//
// # Endpoints
//   - GET /           : Timeline and gallery (requires a session, enforced by the gate).
//   - GET /login      : Sign-in page.
//   - GET /register   : Account creation page.
//   - GET /static/... : Client script.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.page("index.html"))
	router.Get("/login", handler.page("login.html"))
	router.Get("/register", handler.page("register.html"))
	router.Get("/static/auth.js", handler.page("auth.js"))

	return router
}

func (handler *Handler) page(name string) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Cache-Control", "no-store")
		http.ServeFileFS(writer, request, handler.pages, name)
	}
}
