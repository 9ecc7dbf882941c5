// Package metrics exposes Prometheus collectors for HTTP traffic and AI calls.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "scout"

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics owns a registry and the collectors registered on it.
type Metrics struct {
	reg *prometheus.Registry

	httpDuration *prometheus.HistogramVec
	httpTotal    *prometheus.CounterVec

	aiDuration *prometheus.HistogramVec
	aiAttempts *prometheus.CounterVec
	fallbacks  *prometheus.CounterVec
	streams    *prometheus.GaugeVec
}

// New creates Metrics on a fresh registry with Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		reg: reg,

		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 300},
		}, []string{"method", "route", "status"}),

		httpTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),

		aiDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ai_request_duration_seconds",
			Help:      "Model call duration per attempt",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 40, 80},
		}, []string{"operation"}),

		aiAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ai_attempts_total",
			Help:      "Model call attempts by outcome",
		}, []string{"operation", "outcome"}),

		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallback_entries_total",
			Help:      "Items degraded to fallback results",
		}, []string{"operation"}),

		streams: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_streams",
			Help:      "Event streams currently open",
		}, []string{"flow"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpDuration,
		m.httpTotal,
		m.aiDuration,
		m.aiAttempts,
		m.fallbacks,
		m.streams,
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}

// ObserveRequest records one completed HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	code := strconv.Itoa(status)
	m.httpDuration.WithLabelValues(method, route, code).Observe(elapsed.Seconds())
	m.httpTotal.WithLabelValues(method, route, code).Inc()
}

// ObserveAttempt records one model call attempt.
func (m *Metrics) ObserveAttempt(operation string, elapsed time.Duration, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	m.aiDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
	m.aiAttempts.WithLabelValues(operation, outcome).Inc()
}

// AddFallbacks counts items degraded to fallback results.
func (m *Metrics) AddFallbacks(operation string, n int) {
	if n > 0 {
		m.fallbacks.WithLabelValues(operation).Add(float64(n))
	}
}

// StreamOpened marks an event stream as open and returns the func that closes it.
func (m *Metrics) StreamOpened(flow string) func() {
	g := m.streams.WithLabelValues(flow)
	g.Inc()
	return g.Dec
}
