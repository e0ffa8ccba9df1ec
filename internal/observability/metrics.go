package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects Prometheus metrics for the service.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	rendersTotal    *prometheus.CounterVec
	renderPages     *prometheus.HistogramVec
	logoFetches     *prometheus.CounterVec
}

// NewMetrics initialises the registry and the base metrics.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tradeflow_http_requests_total",
		Help: "HTTP requests by route and status code.",
	}, []string{"route", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tradeflow_http_request_duration_seconds",
		Help:    "HTTP request duration per route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	renders := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tradeflow_pdf_renders_total",
		Help: "PDF render attempts by document type and outcome.",
	}, []string{"type", "outcome"})
	pages := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tradeflow_pdf_pages",
		Help:    "Page count of generated documents.",
		Buckets: []float64{1, 2, 3, 5, 8, 13, 21},
	}, []string{"type"})
	logos := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tradeflow_logo_fetches_total",
		Help: "Logo lookups by source (cache, remote) and outcome.",
	}, []string{"source", "outcome"})
	registry.MustRegister(requests, duration, renders, pages, logos)
	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestsTotal:   requests,
		requestDuration: duration,
		rendersTotal:    renders,
		renderPages:     pages,
		logoFetches:     logos,
	}
}

// Handler returns the http.Handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Middleware records metrics for every HTTP request.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(&recorder, r)
		route := routePattern(r)
		m.requestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// ObserveRender records the outcome of one document render.
func (m *Metrics) ObserveRender(docType string, pages int, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.rendersTotal.WithLabelValues(docType, "error").Inc()
		return
	}
	m.rendersTotal.WithLabelValues(docType, "ok").Inc()
	m.renderPages.WithLabelValues(docType).Observe(float64(pages))
}

// ObserveLogoFetch records where a logo came from and whether it was usable.
func (m *Metrics) ObserveLogoFetch(source, outcome string) {
	if m == nil {
		return
	}
	m.logoFetches.WithLabelValues(source, outcome).Inc()
}

// Registerer exposes the registry for custom metric registration.
func (m *Metrics) Registerer() prometheus.Registerer {
	if m == nil {
		return prometheus.DefaultRegisterer
	}
	return m.registry
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func routePattern(r *http.Request) string {
	if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
		if pattern := routeCtx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unknown"
}
