// Package api exposes the AHP engine over HTTP.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// Options configures the API router.
type Options struct {
	RateLimit     float64 // requests per second per client, 0 disables limiting
	Burst         int
	ServeMetrics  bool // mount /metrics on the API router as well
	RequestLogger *slog.Logger
}

// NewRouter builds the API router around h.
func NewRouter(h *Handler, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	if opts.RequestLogger != nil {
		r.Use(RequestLogger(opts.RequestLogger))
	}
	r.Use(h.metrics.Middleware)
	r.Use(RateLimitMiddleware(opts.RateLimit, opts.Burst))

	r.Get("/health", health)
	if opts.ServeMetrics {
		r.Handle("/metrics", h.metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/questionnaire", h.Questionnaire)
		r.Post("/weights", h.Weights)

		r.Post("/submissions", h.CreateSubmission)
		r.Get("/submissions", h.ListSubmissions)
		r.Get("/submissions/{id}", h.GetSubmission)
		r.Delete("/submissions/{id}", h.DeleteSubmission)

		r.Get("/consensus", h.Consensus)
	})

	return r
}

// NewMetricsRouter serves health and Prometheus metrics on their own listener.
func NewMetricsRouter(m *Metrics) http.Handler {
	r := chi.NewRouter()
	r.Get("/health", health)
	r.Handle("/metrics", m.Handler())
	return r
}

func health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
