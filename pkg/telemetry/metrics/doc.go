// Package metrics owns the gateway's Prometheus registry and its HTTP
// request metrics.
//
// NewRegistry returns a registry with the Go runtime and process collectors
// already registered; every other component registers into it. Handler
// serves that registry on the configured metrics path.
//
// RequestMetrics records one observation per served request:
//
//	tollgate_http_requests_total{route,method,status}
//	tollgate_http_request_duration_seconds{route,method}
//
// The route label is the router pattern ("/items/{id}"), never the raw path,
// and is capped by a CardinalityLimiter. Requests that match no route, and
// patterns past the limit, are reported as "other".
//
// Quota decision metrics live with the tracker in pkg/quota.
package metrics
