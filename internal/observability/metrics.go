package observability

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "climate"

// Metrics holds the Prometheus collectors for the HTTP surface.
type Metrics struct {
	RequestsTotal    *prometheus.CounterVec   // labels: route, status
	RequestDuration  *prometheus.HistogramVec // labels: route
	RequestsInFlight prometheus.Gauge
}

// NewMetrics creates and registers the metrics with the default Prometheus
// registry. Collectors already registered by an earlier call are reused.
func NewMetrics() *Metrics {
	m := newMetrics()
	m.RequestsTotal = register(m.RequestsTotal)
	m.RequestDuration = register(m.RequestDuration)
	m.RequestsInFlight = register(m.RequestsInFlight)
	return m
}

func register[C prometheus.Collector](c C) C {
	if err := prometheus.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

// NewMetricsForTesting creates unregistered metrics so tests can build as many
// as they like without "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by matched route pattern and status code.",
		}, []string{"route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by matched route pattern.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"route"}),
		RequestsInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Requests currently being served.",
		}),
	}
}
