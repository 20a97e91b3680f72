// Package router sets up the HTTP routes and middleware chain for the
// ingestion API.
package router

import (
	"github.com/go-chi/chi/v5"

	"rsai/internal/handlers"
	"rsai/internal/middleware"
)

// New creates the configured Chi router. The whole /api surface sits
// behind the bearer-token check; only the health endpoint is open.
func New(api *handlers.API, apiToken string) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	// Health check — no auth.
	r.Get("/health", api.Health)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.RequireToken(apiToken))

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", api.ListCategories)
			r.Post("/", api.CreateCategory)
			r.Delete("/{id}", api.DeleteCategory)
		})

		r.Route("/documents", func(r chi.Router) {
			r.Get("/", api.ListDocuments)
			r.Post("/", api.UploadDocument)
			r.Delete("/{id}", api.DeleteDocument)
		})
	})

	return r
}
