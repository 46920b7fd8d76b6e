package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// OtherRoute is the route label for unmatched requests and for patterns
// past the cardinality limit.
const OtherRoute = "other"

// DefaultMaxRoutes bounds the route label when NewRequestMetrics is given
// zero.
const DefaultMaxRoutes = 200

// DefaultDurationBuckets are the request latency buckets, in seconds.
var DefaultDurationBuckets = []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1}

// RequestMetrics records served HTTP requests.
type RequestMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	routes          *CardinalityLimiter
}

// NewRequestMetrics registers the request metrics with reg. maxRoutes <= 0
// uses DefaultMaxRoutes.
func NewRequestMetrics(reg prometheus.Registerer, maxRoutes int) *RequestMetrics {
	if maxRoutes <= 0 {
		maxRoutes = DefaultMaxRoutes
	}
	factory := promauto.With(reg)

	return &RequestMetrics{
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "tollgate",
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests served, by route pattern, method and status code.",
			},
			[]string{"route", "method", "status"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "tollgate",
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Time spent serving HTTP requests, including admission.",
				Buckets:   DefaultDurationBuckets,
			},
			[]string{"route", "method"},
		),
		routes: NewCardinalityLimiter(maxRoutes),
	}
}

// Observe records one served request. An empty route means the request
// matched nothing.
func (m *RequestMetrics) Observe(route, method string, status int, duration time.Duration) {
	if route == "" || !m.routes.Allow(route) {
		route = OtherRoute
	}

	m.requestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}
