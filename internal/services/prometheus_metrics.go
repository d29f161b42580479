package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type PrometheusMetrics struct {
	expensesCreatedTotal      *prometheus.CounterVec
	importsCompletedTotal     prometheus.Counter
	importRowsSkippedTotal    *prometheus.CounterVec
	importDuration            prometheus.Histogram
	budgetAlertsTotal         *prometheus.CounterVec
	authenticationEventsTotal *prometheus.CounterVec
	activeUsersTotal          prometheus.Gauge
}

func NewPrometheusMetrics() MetricsRecorderInterface {
	return &PrometheusMetrics{
		expensesCreatedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "expenses_created_total",
				Help: "Total number of expenses recorded",
			},
			[]string{"category"},
		),
		importsCompletedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "csv_imports_completed_total",
				Help: "Total number of CSV imports that ran to completion",
			},
		),
		importRowsSkippedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "csv_import_rows_skipped_total",
				Help: "Total number of CSV rows rejected, by reason",
			},
			[]string{"reason"},
		),
		importDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "csv_import_duration_milliseconds",
				Help:    "CSV import duration in milliseconds",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
		),
		budgetAlertsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "budget_alerts_total",
				Help: "Total number of budget overrun alerts generated",
			},
			[]string{"category"},
		),
		authenticationEventsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authentication_events_total",
				Help: "Total number of authentication events",
			},
			[]string{"event_type"},
		),
		activeUsersTotal: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "active_users_total",
				Help: "Current number of registered users",
			},
		),
	}
}

func (m *PrometheusMetrics) IncrementCounter(name string, tags map[string]string) {
	switch name {
	case "expenses_created":
		if category := tags["category"]; category != "" {
			m.expensesCreatedTotal.WithLabelValues(category).Inc()
		}
	case "imports_completed":
		m.importsCompletedTotal.Inc()
	case "import_rows_skipped":
		if reason := tags["reason"]; reason != "" {
			m.importRowsSkippedTotal.WithLabelValues(reason).Inc()
		}
	case "budget_alerts":
		if category := tags["category"]; category != "" {
			m.budgetAlertsTotal.WithLabelValues(category).Inc()
		}
	case "authentication_event":
		if eventType := tags["event_type"]; eventType != "" {
			m.authenticationEventsTotal.WithLabelValues(eventType).Inc()
		}
	}
}

func (m *PrometheusMetrics) RecordProcessingTime(name string, duration time.Duration) {
	if name == "csv_import" {
		m.importDuration.Observe(float64(duration.Milliseconds()))
	}
}

func (m *PrometheusMetrics) RecordGauge(name string, value float64, tags map[string]string) {
	if name == "active_users" {
		m.activeUsersTotal.Set(value)
	}
}
