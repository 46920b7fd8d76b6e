package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"mercator-hq/tollgate/pkg/telemetry/metrics"
)

func TestMetrics_RoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewRequestMetrics(reg, 0)

	r := chi.NewRouter()
	r.Use(Metrics(m))
	r.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	for _, path := range []string{"/items/1", "/items/2", "/missing"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	expected := `
# HELP tollgate_http_requests_total Total number of HTTP requests served, by route pattern, method and status code.
# TYPE tollgate_http_requests_total counter
tollgate_http_requests_total{method="GET",route="/items/{id}",status="204"} 2
tollgate_http_requests_total{method="GET",route="other",status="404"} 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "tollgate_http_requests_total"); err != nil {
		t.Errorf("unexpected metrics: %v", err)
	}
}
