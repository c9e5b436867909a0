package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/huangsam/ahp/internal/contract"
	"github.com/huangsam/ahp/schema"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors of one server. Each instance owns
// its registry so servers and tests never collide on registration.
type Metrics struct {
	registry         *prometheus.Registry
	requests         *prometheus.CounterVec
	latency          *prometheus.HistogramVec
	submissions      *prometheus.CounterVec
	consensusRuns    *prometheus.CounterVec
	consensusExperts prometheus.Gauge
	meanCR           prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ahp_http_requests_total",
				Help: "HTTP requests by method, route and status code.",
			},
			[]string{"method", "route", "status"},
		),
		latency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ahp_http_request_duration_seconds",
				Help:    "HTTP request latency by method and route.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		submissions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ahp_submissions_total",
				Help: "Stored submissions by main-criteria consistency label.",
			},
			[]string{"consistency"},
		),
		consensusRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ahp_consensus_runs_total",
				Help: "Consensus runs by outcome.",
			},
			[]string{"status"},
		),
		consensusExperts: factory.NewGauge(prometheus.GaugeOpts{
			Name: "ahp_consensus_experts",
			Help: "Experts included in the latest consensus run.",
		}),
		meanCR: factory.NewGauge(prometheus.GaugeOpts{
			Name: "ahp_consensus_mean_cr",
			Help: "Mean main-criteria CR of the experts in the latest consensus run.",
		}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware records request counts and latency under the matched route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.latency.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// ObserveSubmission counts a stored submission under its consistency label.
func (m *Metrics) ObserveSubmission(sub schema.Submission, threshold float64) {
	m.submissions.WithLabelValues(contract.GetPlainLabel(sub.Result.Main.Cons, threshold)).Inc()
}

// ObserveConsensus records the outcome of a consensus run.
func (m *Metrics) ObserveConsensus(c schema.Consensus, err error) {
	if err != nil {
		m.consensusRuns.WithLabelValues("error").Inc()
		return
	}
	m.consensusRuns.WithLabelValues("ok").Inc()
	m.consensusExperts.Set(float64(c.ExpertCount))
	m.meanCR.Set(c.Diagnostics.MeanCR)
}
