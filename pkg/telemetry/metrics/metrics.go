// Package metrics exposes Prometheus metrics for the validation service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lepicodon/yamalert/pkg/config"
	"github.com/lepicodon/yamalert/pkg/promcheck"
)

// ValidationMetrics tracks validation activity.
//
// Metrics:
//   - yamalert_documents_validated_total: documents validated, by kind and outcome
//   - yamalert_validation_duration_seconds: validation duration, by kind
//   - yamalert_expressions_checked_total: expressions handed to the scanner
//   - yamalert_expressions_invalid_total: expressions the scanner rejected
//   - yamalert_stored_templates: stored templates, by validity
type ValidationMetrics struct {
	registry *prometheus.Registry

	documentsTotal     *prometheus.CounterVec
	validationDuration *prometheus.HistogramVec
	expressionsChecked prometheus.Counter
	expressionsInvalid prometheus.Counter
	storedTemplates    *prometheus.GaugeVec
}

// New creates and registers validation metrics on a fresh registry.
func New(cfg config.MetricsConfig) *ValidationMetrics {
	registry := prometheus.NewRegistry()

	m := &ValidationMetrics{
		registry: registry,

		documentsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "documents_validated_total",
				Help:      "Total number of documents validated",
			},
			[]string{"kind", "outcome"},
		),

		validationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "validation_duration_seconds",
				Help:      "Duration of document validation in seconds",
				// Validation is a linear scan; sub-millisecond for
				// typical rule files.
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
			[]string{"kind"},
		),

		expressionsChecked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "expressions_checked_total",
			Help:      "Total number of PromQL expressions scanned",
		}),

		expressionsInvalid: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "expressions_invalid_total",
			Help:      "Total number of PromQL expressions rejected",
		}),

		storedTemplates: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Name:      "stored_templates",
				Help:      "Number of stored templates by validity",
			},
			[]string{"validity"},
		),
	}

	registry.MustRegister(
		m.documentsTotal,
		m.validationDuration,
		m.expressionsChecked,
		m.expressionsInvalid,
		m.storedTemplates,
	)

	return m
}

// RecordValidation records one document validation.
func (m *ValidationMetrics) RecordValidation(kind promcheck.Kind, report *promcheck.Report, duration time.Duration) {
	outcome := "invalid"
	if report.Valid {
		outcome = "valid"
	}
	m.documentsTotal.WithLabelValues(string(kind), outcome).Inc()
	m.validationDuration.WithLabelValues(string(kind)).Observe(duration.Seconds())
	m.expressionsChecked.Add(float64(report.PromQLChecked))
	m.expressionsInvalid.Add(float64(report.PromQLInvalid))
}

// RecordExpressionScan records one standalone expression scan.
func (m *ValidationMetrics) RecordExpressionScan(valid bool) {
	m.expressionsChecked.Inc()
	if !valid {
		m.expressionsInvalid.Inc()
	}
}

// SetStoredTemplates updates the stored-template gauges after a sweep.
func (m *ValidationMetrics) SetStoredTemplates(valid, invalid int) {
	m.storedTemplates.WithLabelValues("valid").Set(float64(valid))
	m.storedTemplates.WithLabelValues("invalid").Set(float64(invalid))
}

// Registry returns the underlying registry, for tests and custom collectors.
func (m *ValidationMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the HTTP handler serving the metrics endpoint.
func (m *ValidationMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
