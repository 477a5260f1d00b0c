package routes

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MrSnakeDoc/curator/internal/httpserver/deps"
	"github.com/MrSnakeDoc/curator/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/curator/internal/httpserver/mw"
)

func init() { Register(registerOps) }

func registerOps(r chi.Router, d deps.Deps) {
	restricted := r.With(middleware.Timeout(requestTimeout), mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger))

	restricted.Get("/healthz", handlers.Healthz(d))
	restricted.Get("/infra", handlers.Infra(d))
	restricted.Get("/metrics", promhttp.HandlerFor(d.PromRegistry, promhttp.HandlerOpts{}).ServeHTTP)
}
