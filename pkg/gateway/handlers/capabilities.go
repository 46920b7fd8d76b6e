package handlers

import (
	"net/http"

	"mercator-hq/tollgate/pkg/gateway"
	"mercator-hq/tollgate/pkg/quota"
)

// CapabilitySource reports which admission modes are implemented.
type CapabilitySource interface {
	CatalogSource
	Supports(mode quota.Mode) bool
}

// CapabilitiesResponse lists admission modes and configured groups.
type CapabilitiesResponse struct {
	Modes  map[quota.Mode]bool          `json:"modes"`
	Groups map[string]quota.GroupConfig `json:"groups"`
}

// CapabilitiesHandler lets clients discover unimplemented modes before
// relying on them.
type CapabilitiesHandler struct {
	source CapabilitySource
}

// NewCapabilitiesHandler creates a CapabilitiesHandler.
func NewCapabilitiesHandler(source CapabilitySource) *CapabilitiesHandler {
	return &CapabilitiesHandler{source: source}
}

func (h *CapabilitiesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := CapabilitiesResponse{
		Modes:  make(map[quota.Mode]bool, len(quota.Modes)),
		Groups: make(map[string]quota.GroupConfig),
	}
	for _, m := range quota.Modes {
		resp.Modes[m] = h.source.Supports(m)
	}

	catalog := h.source.Catalog()
	for _, name := range catalog.Names() {
		g, err := catalog.Resolve(name)
		if err == nil {
			resp.Groups[name] = g
		}
	}

	gateway.WriteJSON(w, http.StatusOK, resp)
}
