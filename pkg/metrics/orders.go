package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OrderMetrics records order-engine health: submissions per kind/outcome, the
// duration of the reconcile+aggregate sequence, and lines skipped during
// aggregation because their item no longer resolves. The skip counter exists
// so silent zero-contribution lines stay visible to operators.
type OrderMetrics struct {
	submissions       *prometheus.CounterVec
	reconcileDuration *prometheus.HistogramVec
	skippedLines      prometheus.Counter
}

// NewOrderMetrics registers the order engine metrics on the provided registerer.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_submissions_total",
		Help: "Order submissions by kind and outcome.",
	}, []string{"kind", "outcome"})
	reconcileDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "order_reconcile_duration_seconds",
		Help:    "Duration of the reconcile-and-aggregate sequence.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})
	skippedLines := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "order_aggregation_skipped_lines_total",
		Help: "Order lines skipped during aggregation because the item no longer exists.",
	})
	reg.MustRegister(submissions, reconcileDuration, skippedLines)
	return &OrderMetrics{
		submissions:       submissions,
		reconcileDuration: reconcileDuration,
		skippedLines:      skippedLines,
	}
}

// IncSubmission counts one submission for the given order kind and outcome.
func (m *OrderMetrics) IncSubmission(kind, outcome string) {
	if m == nil || m.submissions == nil {
		return
	}
	m.submissions.WithLabelValues(kind, outcome).Inc()
}

// ObserveReconcile records how long one reconcile+aggregate pass took.
func (m *OrderMetrics) ObserveReconcile(kind string, duration time.Duration) {
	if m == nil || m.reconcileDuration == nil {
		return
	}
	m.reconcileDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// AddSkippedLines counts lines dropped from an aggregation pass.
func (m *OrderMetrics) AddSkippedLines(n int) {
	if m == nil || m.skippedLines == nil || n <= 0 {
		return
	}
	m.skippedLines.Add(float64(n))
}
