// Package metrics defines the Prometheus collectors of worldpop.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for catalog reads and the HTTP API.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Catalog read latencies by operation
	CatalogLatency *prometheus.HistogramVec

	// Catalog reads by operation and outcome
	CatalogReads *prometheus.CounterVec

	// Rows returned by catalog listings
	CatalogRows *prometheus.CounterVec

	// HTTP requests by route pattern and status code
	HTTPRequests *prometheus.CounterVec

	// HTTP request latency by route pattern
	HTTPLatency *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
// Pass prometheus.NewRegistry() in tests to avoid duplicate registration.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CatalogLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "worldpop_catalog_read_duration_seconds",
			Help:    "Duration of catalog reads by operation",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"op"}),

		CatalogReads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "worldpop_catalog_reads_total",
			Help: "Total catalog reads by operation and outcome",
		}, []string{"op", "outcome"}), // outcome: "ok", "error"

		CatalogRows: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "worldpop_catalog_rows_total",
			Help: "Total rows returned by catalog reads",
		}, []string{"op"}),

		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "worldpop_http_requests_total",
			Help: "Total HTTP requests by route and status code",
		}, []string{"route", "code"}),

		HTTPLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "worldpop_http_request_duration_seconds",
			Help:    "Duration of HTTP requests by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

// ObserveCatalogRead records one catalog read.
func (m *Metrics) ObserveCatalogRead(op string, d time.Duration, rows int, err error) {
	if m == nil {
		return
	}
	m.CatalogLatency.WithLabelValues(op).Observe(d.Seconds())
	if err != nil {
		m.CatalogReads.WithLabelValues(op, "error").Inc()
		return
	}
	m.CatalogReads.WithLabelValues(op, "ok").Inc()
	m.CatalogRows.WithLabelValues(op).Add(float64(rows))
}

// ObserveHTTPRequest records one served request.
func (m *Metrics) ObserveHTTPRequest(route, code string, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(route, code).Inc()
	m.HTTPLatency.WithLabelValues(route).Observe(d.Seconds())
}
