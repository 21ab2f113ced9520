// Package site serves the embedded landing page.
package site

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Register attaches the landing page routes to r:
//
//	GET /          -> index.html
//	GET /site/*    -> embedded assets
func Register(_ context.Context, r chi.Router) {
	if r == nil {
		panic("router is nil")
	}
	files := http.FileServer(FS())
	r.Get("/", NewRootHandler().HandleRoot)
	r.Handle("/site/*", http.StripPrefix("/site", files))
}

// RootHandler serves the landing page.
type RootHandler struct {
	files http.Handler
}

// NewRootHandler creates a new root handler.
func NewRootHandler() *RootHandler {
	return &RootHandler{files: http.FileServer(FS())}
}

// HandleRoot handles GET / by serving index.html.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	h.files.ServeHTTP(w, r)
}
