package metrics

import "github.com/prometheus/client_golang/prometheus"

// SubscriptionAuditMetrics exposes the latest subscription audit snapshot.
type SubscriptionAuditMetrics struct {
	stalePending prometheus.Gauge
	graceExpired prometheus.Gauge
	viewable     prometheus.Gauge
}

// NewSubscriptionAuditMetrics registers the audit gauges. A nil registerer
// yields a no-op recorder.
func NewSubscriptionAuditMetrics(reg prometheus.Registerer) *SubscriptionAuditMetrics {
	if reg == nil {
		return &SubscriptionAuditMetrics{}
	}
	stalePending := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "subscriptions_stale_pending",
		Help: "Pending subscriptions older than the confirmation window.",
	})
	graceExpired := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "subscriptions_grace_expired",
		Help: "Cancelled subscriptions whose expires_date has passed.",
	})
	viewable := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "subscriptions_viewable",
		Help: "Subscriptions currently granting access.",
	})
	reg.MustRegister(stalePending, graceExpired, viewable)
	return &SubscriptionAuditMetrics{
		stalePending: stalePending,
		graceExpired: graceExpired,
		viewable:     viewable,
	}
}

func (m *SubscriptionAuditMetrics) SetStalePending(n int64) {
	if m == nil || m.stalePending == nil {
		return
	}
	m.stalePending.Set(float64(n))
}

func (m *SubscriptionAuditMetrics) SetGraceExpired(n int64) {
	if m == nil || m.graceExpired == nil {
		return
	}
	m.graceExpired.Set(float64(n))
}

func (m *SubscriptionAuditMetrics) SetViewable(n int64) {
	if m == nil || m.viewable == nil {
		return
	}
	m.viewable.Set(float64(n))
}
