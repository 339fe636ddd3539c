package gateway

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics tracks gateway activity on a private registry so the handler
// never collides with another default-registry user in the same process.
type Metrics struct {
	registry  *prometheus.Registry
	requests  *prometheus.CounterVec
	durations *prometheus.HistogramVec
	builds    *prometheus.CounterVec
	memoDupes prometheus.Counter
}

// NewMetrics builds and registers the gateway collectors.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "zupy_gateway",
			Name:      "requests_total",
			Help:      "HTTP requests processed, by route, method and status.",
		}, []string{"route", "method", "status"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "zupy_gateway",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		builds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "zupy_gateway",
			Name:      "instructions_built_total",
			Help:      "Instructions assembled, by operation and outcome.",
		}, []string{"operation", "outcome"}),
		memoDupes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "zupy_gateway",
			Name:      "duplicate_memos_total",
			Help:      "Build requests rejected because the memo was already used.",
		}),
	}
	registry.MustRegister(m.requests, m.durations, m.builds, m.memoDupes)
	return m
}

// Handler serves the scrape endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordBuild counts one build attempt.
func (m *Metrics) RecordBuild(operation, outcome string) {
	m.builds.WithLabelValues(operation, outcome).Inc()
}

// RecordDuplicateMemo counts one memo replay.
func (m *Metrics) RecordDuplicateMemo() {
	m.memoDupes.Inc()
}

// Middleware observes request counts and latency for a route group.
func (m *Metrics) Middleware(route string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(recorder, r)
			m.requests.WithLabelValues(route, r.Method, strconv.Itoa(recorder.status)).Inc()
			m.durations.WithLabelValues(route).Observe(time.Since(start).Seconds())
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
