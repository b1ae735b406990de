// Package metrics provides Prometheus observability for the registry engine.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// HTTP request latency by route and status class.
	RequestDuration *prometheus.HistogramVec

	// Accepted workflow actions by event type and action type.
	ActionsAccepted *prometheus.CounterVec

	// Attachment cleanup outcomes.
	CleanupProcessed *prometheus.CounterVec
	CleanupPending   prometheus.Gauge
}

// New creates and registers all application metrics.
func New() *Metrics {
	return &Metrics{
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "registry_http_request_duration_seconds",
			Help:    "Duration of HTTP requests by route and status class",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"route", "status"}),

		ActionsAccepted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "registry_actions_accepted_total",
			Help: "Total accepted workflow actions by event type and action type",
		}, []string{"event_type", "action_type"}),

		CleanupProcessed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "registry_cleanup_processed_total",
			Help: "Attachment cleanup outcomes by result",
		}, []string{"result"}), // result: "done", "retry", "failed"

		CleanupPending: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "registry_cleanup_pending",
			Help: "Attachment deletions currently waiting in the queue",
		}),
	}
}

// ObserveRequest records one HTTP request.
func (m *Metrics) ObserveRequest(route, status string, d time.Duration) {
	if m != nil {
		m.RequestDuration.WithLabelValues(route, status).Observe(d.Seconds())
	}
}

// IncrementActionAccepted records an accepted workflow action.
func (m *Metrics) IncrementActionAccepted(eventType, actionType string) {
	if m != nil {
		m.ActionsAccepted.WithLabelValues(eventType, actionType).Inc()
	}
}

// IncrementCleanup records one cleanup queue outcome.
func (m *Metrics) IncrementCleanup(result string) {
	if m != nil {
		m.CleanupProcessed.WithLabelValues(result).Inc()
	}
}

// SetCleanupPending records the current queue depth.
func (m *Metrics) SetCleanupPending(n int) {
	if m != nil {
		m.CleanupPending.Set(float64(n))
	}
}
