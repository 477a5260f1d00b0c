package routes

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrSnakeDoc/curator/internal/httpserver/deps"
	"github.com/MrSnakeDoc/curator/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/curator/internal/httpserver/mw"
)

func init() { Register(registerBookmarks) }

func registerBookmarks(r chi.Router, d deps.Deps) {
	r.Route("/api/v1/bookmarks", func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout))
		r.Use(mw.EnforceHost(d.AllowedHosts, d.Logger))

		r.Get("/organized", handlers.OrganizedView(d))

		r.With(mw.RateLimit(mutationRateLimit(d))).Post("/", handlers.AddBookmark(d))
		r.With(mw.RateLimit(mutationRateLimit(d))).Post("/import", handlers.ImportBookmarks(d))
		r.With(mw.RateLimit(mutationRateLimit(d))).Post("/dedupe", handlers.RemoveDuplicates(d))
		r.With(mw.RateLimit(mutationRateLimit(d))).Put("/{id}/category", handlers.UpdateBookmarkCategory(d))
		r.With(mw.RateLimit(mutationRateLimit(d))).Post("/{id}/stale", handlers.MarkBookmarkStale(d))
	})
}
