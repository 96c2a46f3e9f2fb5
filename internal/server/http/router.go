// Package http exposes the token lifecycle operations over a JSON HTTP API,
// together with health and Prometheus endpoints.
package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrijs2005/gophsession/internal/logging"
)

// NewRouter registers the auth, health and metrics routes.
// A nil gatherer serves the default Prometheus registry.
func NewRouter(ts TokenService, gatherer prometheus.Gatherer, logger logging.Logger) http.Handler {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	auth := NewAuthHandler(ts, logger)

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/refresh", auth.Refresh)
		r.Post("/revoke", auth.Revoke)
	})

	return r
}
