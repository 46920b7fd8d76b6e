// Package telemetry groups the gateway's observability packages.
//
//   - logging: slog logger construction, consumer redaction and request
//     context helpers
//   - metrics: the Prometheus registry, /metrics handler and HTTP request
//     metrics
//   - health: readiness checks behind /ready and build info behind /version
//
// Quota decision metrics are registered by pkg/quota itself; the decision
// journal keeps its own outcome counter.
package telemetry
