package quota

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains Prometheus collectors for the tracker.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	decisions      *prometheus.CounterVec
	recordsCreated *prometheus.CounterVec
	errors         *prometheus.CounterVec
	decideDuration prometheus.Histogram
}

// NewMetrics registers the tracker collectors with reg. A nil reg uses the
// default Prometheus registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		decisions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tollgate_quota_decisions_total",
				Help: "Total number of admission decisions",
			},
			[]string{"group", "result"},
		),

		recordsCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tollgate_quota_records_created_total",
				Help: "Total number of quota records created",
			},
			[]string{"group"},
		),

		errors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tollgate_quota_errors_total",
				Help: "Total number of failed admission calls",
			},
			[]string{"reason"},
		),

		decideDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "tollgate_quota_decide_duration_seconds",
				Help:    "Duration of admission decisions in seconds",
				Buckets: prometheus.ExponentialBuckets(0.000001, 2, 15), // 1µs to 16ms
			},
		),
	}
}

func (m *Metrics) recordDecision(group string, admitted bool) {
	if m == nil {
		return
	}
	result := "admitted"
	if !admitted {
		result = "rejected"
	}
	m.decisions.WithLabelValues(group, result).Inc()
}

func (m *Metrics) recordCreated(group string) {
	if m == nil {
		return
	}
	m.recordsCreated.WithLabelValues(group).Inc()
}

func (m *Metrics) recordError(reason string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(reason).Inc()
}

func (m *Metrics) observeDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.decideDuration.Observe(d.Seconds())
}
