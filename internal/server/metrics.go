package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Veraticus/trackboard/internal/common"
	"github.com/Veraticus/trackboard/internal/engine"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "trackboard"

// Refresh outcomes.
const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
	outcomeSchema  = "schema_error"
)

// Metrics exposes refresh and HTTP metrics on a private registry.
// It implements engine.Observer.
type Metrics struct {
	registry    *prometheus.Registry
	refreshes   *prometheus.CounterVec
	duration    prometheus.Histogram
	dropped     prometheus.Counter
	rows        prometheus.Gauge
	lastSuccess prometheus.Gauge
	requests    *prometheus.CounterVec
}

var _ engine.Observer = (*Metrics)(nil)

// NewMetrics registers the trackboard collectors plus the Go and process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refreshes_total",
			Help:      "Completed refresh cycles by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "refresh_duration_seconds",
			Help:      "Time spent fetching and rebuilding the dataset.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refresh_dropped_total",
			Help:      "Refresh triggers dropped because a refresh was running.",
		}),
		rows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_rows",
			Help:      "Classified rows in the current dataset.",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful refresh.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"method", "route", "code"}),
	}

	m.registry.MustRegister(
		m.refreshes, m.duration, m.dropped, m.rows, m.lastSuccess, m.requests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// RefreshStarted implements engine.Observer.
func (m *Metrics) RefreshStarted(string) {}

// RefreshCompleted implements engine.Observer.
func (m *Metrics) RefreshCompleted(_ string, d *engine.Dataset, elapsed time.Duration) {
	m.refreshes.WithLabelValues(outcomeSuccess).Inc()
	m.duration.Observe(elapsed.Seconds())
	m.rows.Set(float64(len(d.Rows)))
	m.lastSuccess.Set(float64(d.FetchedAt.Unix()))
}

// RefreshFailed implements engine.Observer.
func (m *Metrics) RefreshFailed(_ string, err error, elapsed time.Duration) {
	outcome := outcomeFailure
	if errors.Is(err, common.ErrSchema) {
		outcome = outcomeSchema
	}
	m.refreshes.WithLabelValues(outcome).Inc()
	m.duration.Observe(elapsed.Seconds())
}

// RefreshDropped implements engine.Observer.
func (m *Metrics) RefreshDropped() {
	m.dropped.Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Instrument counts requests by chi route pattern.
func (m *Metrics) Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
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
	})
}
