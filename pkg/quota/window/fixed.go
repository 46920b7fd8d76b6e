package window

import (
	"strconv"
	"time"

	"mercator-hq/tollgate/pkg/clock"
)

// FixedWindow divides time into windows of Duration aligned to the Unix
// epoch.
type FixedWindow struct {
	duration   time.Duration
	retryAfter string
	clock      clock.Clock
}

// FixedWindowOption configures a FixedWindow.
type FixedWindowOption func(*FixedWindow)

// WithRetryAfter overrides the value returned by NextPeriod.
func WithRetryAfter(value string) FixedWindowOption {
	return func(w *FixedWindow) {
		w.retryAfter = value
	}
}

// NewFixedWindow creates a fixed window policy. Durations under one
// second are rounded up to one second, the smallest unit Retry-After can
// carry. A nil clock uses the system clock.
func NewFixedWindow(d time.Duration, clk clock.Clock, opts ...FixedWindowOption) *FixedWindow {
	if d < time.Second {
		d = time.Second
	}
	if clk == nil {
		clk = clock.NewSystemClock()
	}

	w := &FixedWindow{duration: d, clock: clk}
	for _, opt := range opts {
		opt(w)
	}
	if w.retryAfter == "" {
		w.retryAfter = strconv.FormatInt(int64((d+time.Second-1)/time.Second), 10)
	}
	return w
}

// Period returns the index of the current window as a hex string.
// For one-second windows this is the Unix time in hex.
func (w *FixedWindow) Period() string {
	index := w.clock.Now().UnixNano() / int64(w.duration)
	return strconv.FormatInt(index, 16)
}

// NextPeriod returns the window length rounded up to whole seconds, or the
// configured override. Waiting that long always crosses into the next
// window.
func (w *FixedWindow) NextPeriod() string {
	return w.retryAfter
}

// Duration returns the window length.
func (w *FixedWindow) Duration() time.Duration {
	return w.duration
}
