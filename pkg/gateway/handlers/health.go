package handlers

import (
	"net/http"
	"time"

	"mercator-hq/tollgate/pkg/clock"
	"mercator-hq/tollgate/pkg/gateway"
	"mercator-hq/tollgate/pkg/quota"
)

// CatalogSource returns the catalog currently in use.
type CatalogSource interface {
	Catalog() *quota.Catalog
}

// HealthHandler reports liveness.
type HealthHandler struct {
	clock   clock.Clock
	started time.Time
}

// NewHealthHandler creates a HealthHandler. A nil clock uses the system clock.
func NewHealthHandler(clk clock.Clock) *HealthHandler {
	if clk == nil {
		clk = clock.NewSystemClock()
	}
	return &HealthHandler{clock: clk, started: clk.Now()}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	now := h.clock.Now()
	gateway.WriteJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"timestamp":      now.Unix(),
		"uptime_seconds": int64(now.Sub(h.started).Seconds()),
	})
}
