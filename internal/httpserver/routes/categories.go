package routes

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrSnakeDoc/curator/internal/httpserver/deps"
	"github.com/MrSnakeDoc/curator/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/curator/internal/httpserver/mw"
)

func init() { Register(registerCategories) }

func registerCategories(r chi.Router, d deps.Deps) {
	r.Route("/api/v1/categories", func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout))
		r.Use(mw.EnforceHost(d.AllowedHosts, d.Logger))

		r.Get("/", handlers.ListCategories(d))

		r.With(mw.RateLimit(mutationRateLimit(d))).Post("/", handlers.CreateCategory(d))
		r.With(mw.RateLimit(mutationRateLimit(d))).Put("/", handlers.ReplaceTaxonomy(d))
		r.With(mw.RateLimit(mutationRateLimit(d))).Put("/{slug}", handlers.RenameCategory(d))
		r.With(mw.RateLimit(mutationRateLimit(d))).Delete("/{slug}", handlers.DeleteCategory(d))
	})
}
