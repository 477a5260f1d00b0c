package routes

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrSnakeDoc/curator/internal/httpserver/deps"
	"github.com/MrSnakeDoc/curator/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/curator/internal/httpserver/mw"
)

func init() { Register(registerOrganize) }

func registerOrganize(r chi.Router, d deps.Deps) {
	r.Route("/api/v1/organize", func(r chi.Router) {
		r.Use(mw.EnforceHost(d.AllowedHosts, d.Logger))

		// Long-lived SSE stream, no request timeout.
		r.Get("/events", handlers.OrganizeEvents(d))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(requestTimeout))

			r.Get("/state", handlers.OrganizeState(d))
			r.Get("/stats", handlers.OrganizeStats(d))

			r.With(mw.RateLimit(mutationRateLimit(d))).Post("/start", handlers.OrganizeStart(d))
			r.With(mw.RateLimit(mutationRateLimit(d))).Post("/reset", handlers.OrganizeReset(d))
		})
	})
}

// mutationRateLimit bounds state-changing endpoints so a misbehaving
// automation cannot hammer job starts or taxonomy edits.
func mutationRateLimit(d deps.Deps) mw.RateLimitConfig {
	return mw.RateLimitConfig{
		Burst:             10,
		RefillPerIPPerMin: 30,
		MaxEntries:        4096,
		TrustProxy:        d.TrustProxy,
	}
}
