package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records checkout and cancellation outcomes.
type CheckoutMetrics struct {
	duration     *prometheus.HistogramVec
	outcomes     *prometheus.CounterVec
	cancellation *prometheus.CounterVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer. A nil
// registerer yields a no-op recorder.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_duration_seconds",
		Help:    "Duration of checkout attempts in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"action"})
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_outcomes_total",
		Help: "Checkout attempts by action and outcome code.",
	}, []string{"action", "outcome"})
	cancellation := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_cancellations_total",
		Help: "Order cancellation attempts by outcome code.",
	}, []string{"outcome"})
	reg.MustRegister(duration, outcomes, cancellation)
	return &CheckoutMetrics{
		duration:     duration,
		outcomes:     outcomes,
		cancellation: cancellation,
	}
}

// ObserveCheckout records one checkout attempt.
func (m *CheckoutMetrics) ObserveCheckout(action, outcome string, elapsed time.Duration) {
	if m == nil || m.outcomes == nil {
		return
	}
	action = normalizeLabel(action)
	m.duration.WithLabelValues(action).Observe(elapsed.Seconds())
	m.outcomes.WithLabelValues(action, normalizeLabel(outcome)).Inc()
}

// IncCancellation records one cancellation attempt.
func (m *CheckoutMetrics) IncCancellation(outcome string) {
	if m == nil || m.cancellation == nil {
		return
	}
	m.cancellation.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
