package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// WebhookMetrics counts ingested notifications by outcome.
type WebhookMetrics struct {
	notifications *prometheus.CounterVec
	duration      *prometheus.HistogramVec
}

// NewWebhookMetrics registers webhook ingestion metrics. A nil registerer
// yields a no-op recorder.
func NewWebhookMetrics(reg prometheus.Registerer) *WebhookMetrics {
	if reg == nil {
		return &WebhookMetrics{}
	}
	notifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "webhook_notifications_total",
		Help: "Platform notifications ingested, by outcome and event type.",
	}, []string{"outcome", "event_type"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "webhook_ingest_duration_seconds",
		Help:    "Time spent ingesting a notification.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	reg.MustRegister(notifications, duration)
	return &WebhookMetrics{notifications: notifications, duration: duration}
}

// Observe records one ingestion attempt.
func (m *WebhookMetrics) Observe(outcome, eventType string, elapsed time.Duration) {
	if m == nil || m.notifications == nil {
		return
	}
	outcome = normalizeLabel(outcome)
	m.notifications.WithLabelValues(outcome, normalizeLabel(eventType)).Inc()
	m.duration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}
