package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors of one server. Each instance owns
// its registry so that several servers (and tests) can coexist.
type Metrics struct {
	registry       *prometheus.Registry
	requestsTotal  *prometheus.CounterVec
	activeRequests prometheus.Gauge
	duration       *prometheus.HistogramVec
	cacheHits      prometheus.Counter
	handler        http.Handler
}

// NewMetrics creates and registers the server collectors together with the
// Go runtime collector.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bigcalc_requests_total",
			Help: "HTTP requests by path and status code.",
		}, []string{"path", "code"}),
		activeRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "bigcalc_active_requests",
			Help: "HTTP requests currently being served.",
		}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bigcalc_operation_duration_seconds",
			Help:    "Calculation time by operation and strategy.",
			Buckets: prometheus.ExponentialBuckets(1e-5, 4, 12),
		}, []string{"op", "algo"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bigcalc_cache_hits_total",
			Help: "Calculations answered from the result cache.",
		}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		m.requestsTotal,
		m.activeRequests,
		m.duration,
		m.cacheHits,
	)
	m.handler = promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return m
}

func (m *Metrics) IncrementActiveRequests() { m.activeRequests.Inc() }
func (m *Metrics) DecrementActiveRequests() { m.activeRequests.Dec() }

// RecordRequest counts a finished request.
func (m *Metrics) RecordRequest(path string, code int) {
	m.requestsTotal.WithLabelValues(path, http.StatusText(code)).Inc()
}

// ObserveOperation records the duration of one calculation.
func (m *Metrics) ObserveOperation(op, algo string, d time.Duration) {
	m.duration.WithLabelValues(op, algo).Observe(d.Seconds())
}

func (m *Metrics) RecordCacheHit() { m.cacheHits.Inc() }

// WritePrometheus serves the registry in the Prometheus text format.
func (m *Metrics) WritePrometheus(w http.ResponseWriter, r *http.Request) {
	m.handler.ServeHTTP(w, r)
}
