package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"mercator-hq/tollgate/pkg/telemetry/metrics"
)

// Metrics records every request in m, labelled by the chi route pattern
// that served it.
func Metrics(m *metrics.RequestMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := newResponseWriter(w)

			next.ServeHTTP(rw, r)

			var route string
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				route = rctx.RoutePattern()
			}
			m.Observe(route, r.Method, rw.statusCode, time.Since(start))
		})
	}
}
