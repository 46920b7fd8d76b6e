package window

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mercator-hq/tollgate/pkg/clock"
	"mercator-hq/tollgate/pkg/quota"
)

func TestConsumerStrategy(t *testing.T) {
	tests := []struct {
		opts    Options
		wantErr bool
	}{
		{Options{}, false},
		{Options{Strategy: StrategyPath}, false},
		{Options{Strategy: StrategyAPIKey}, false},
		{Options{Strategy: StrategyIP}, false},
		{Options{Strategy: StrategyIP, TrustedProxies: []string{"10.0.0.0/8"}}, false},
		{Options{Strategy: StrategyIP, TrustedProxies: []string{"proxy.internal"}}, true},
		{Options{Strategy: StrategyHeader, Header: "X-Tenant"}, false},
		{Options{Strategy: StrategyHeader}, true},
		{Options{Strategy: StrategyJWT, JWTSecret: "s"}, false},
		{Options{Strategy: StrategyJWT}, true},
		{Options{Strategy: "cookie"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.opts.Strategy, func(t *testing.T) {
			fn, err := ConsumerStrategy(tt.opts)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, fn)
		})
	}
}

func TestDeriver_DrivesTracker(t *testing.T) {
	clk := clock.NewManualClock(time.Unix(1000, 0))
	deriver, err := FromOptions(Options{
		Strategy: StrategyPath,
		Duration: time.Second,
		Clock:    clk,
	})
	require.NoError(t, err)

	tracker := quota.NewTracker(deriver, quota.MustCatalog(map[string]quota.GroupConfig{
		"default": {Total: 2, Cost: 1},
	}))
	req := httptest.NewRequest(http.MethodGet, "/quota", nil)

	for i := 0; i < 2; i++ {
		d, err := tracker.Decide(req, "default")
		require.NoError(t, err)
		assert.True(t, d.Admitted)
	}

	d, err := tracker.Decide(req, "default")
	require.NoError(t, err)
	assert.False(t, d.Admitted)
	assert.Equal(t, "1", d.RetryAfter)

	clk.Advance(time.Second)

	d, err = tracker.Decide(req, "default")
	require.NoError(t, err)
	assert.True(t, d.Admitted)
	assert.Equal(t, int64(1), d.Remaining)
}

func TestFromOptions_RetryAfterOverride(t *testing.T) {
	deriver, err := FromOptions(Options{Duration: time.Hour, RetryAfter: "120"})
	require.NoError(t, err)
	assert.Equal(t, "120", deriver.NextPeriod())

	_, err = FromOptions(Options{Strategy: "nope"})
	assert.Error(t, err)
}
