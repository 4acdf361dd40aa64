package infrastructure

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus instruments exposed on /metrics.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal *prometheus.CounterVec
	SourceLoadsTotal  *prometheus.CounterVec
	DatasetRows       prometheus.Gauge
}

// NewMetrics creates the application metric set on a private registry so
// tests can build multiple instances without duplicate-registration panics.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "grants_http_requests_total",
			Help: "HTTP requests served, by method, path pattern and status class.",
		}, []string{"method", "path", "status"}),
		SourceLoadsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "grants_source_loads_total",
			Help: "Department source load attempts, by source tag and outcome.",
		}, []string{"source", "outcome"}),
		DatasetRows: factory.NewGauge(prometheus.GaugeOpts{
			Name: "grants_dataset_rows",
			Help: "Rows in the unified dataset after normalization.",
		}),
	}
}

// Handler returns the HTTP handler serving this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveSourceLoad records one source ingestion outcome.
func (m *Metrics) ObserveSourceLoad(source string, available bool) {
	outcome := "loaded"
	if !available {
		outcome = "unavailable"
	}
	m.SourceLoadsTotal.WithLabelValues(source, outcome).Inc()
}
