package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mercator-hq/tollgate/pkg/clock"
	"mercator-hq/tollgate/pkg/quota"
)

func newTracker(groups map[string]quota.GroupConfig) *quota.Tracker {
	deriver := quota.DeriverFuncs{
		ConsumerFunc:   func(r *http.Request) string { return r.URL.Path },
		PeriodFunc:     func() string { return "0" },
		NextPeriodFunc: func() string { return "1" },
	}
	return quota.NewTracker(deriver, quota.MustCatalog(groups))
}

func get(t *testing.T, h http.Handler) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestSuccess(t *testing.T) {
	w, body := get(t, Success(http.StatusCreated))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, true, body["success"])
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
}

func TestHealthHandler(t *testing.T) {
	clk := clock.NewManualClock(time.Unix(1000, 0))
	h := NewHealthHandler(clk)
	clk.Advance(90 * time.Second)

	w, body := get(t, h)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(1090), body["timestamp"])
	assert.Equal(t, float64(90), body["uptime_seconds"])
}

func TestCapabilitiesHandler(t *testing.T) {
	tracker := newTracker(map[string]quota.GroupConfig{
		"default": {Total: 5, Cost: 1},
		"search":  {Total: 100},
	})

	w := httptest.NewRecorder()
	NewCapabilitiesHandler(tracker).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/capabilities", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp CapabilitiesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.True(t, resp.Modes[quota.ModeFixedWindow])
	assert.False(t, resp.Modes[quota.ModeSlidingWindow])
	assert.Equal(t, quota.GroupConfig{Total: 5, Cost: 1}, resp.Groups["default"])
	assert.Equal(t, int64(100), resp.Groups["search"].Total)
}

func TestSuccess_NoContent(t *testing.T) {
	w := httptest.NewRecorder()
	Success(http.StatusNoContent).ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}
