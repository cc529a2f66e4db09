package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metrics holds the server's Prometheus instruments on a private
// registry, so several servers (and tests) can coexist in one process.
type metrics struct {
	registry    *prometheus.Registry
	validations *prometheus.CounterVec
	violations  prometheus.Counter
	duration    prometheus.Histogram
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		validations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "keyshape_validations_total",
				Help: "Total number of validation requests by outcome",
			},
			[]string{"outcome"},
		),
		violations: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "keyshape_violations_total",
				Help: "Total number of schema violations reported",
			},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "keyshape_validation_duration_seconds",
				Help:    "Duration of validation runs",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
	m.registry.MustRegister(m.validations, m.violations, m.duration)
	return m
}

func (m *metrics) observe(valid bool, violations int, elapsed time.Duration) {
	outcome := "valid"
	if !valid {
		outcome = "invalid"
	}
	m.validations.WithLabelValues(outcome).Inc()
	m.violations.Add(float64(violations))
	m.duration.Observe(elapsed.Seconds())
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
