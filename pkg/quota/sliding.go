package quota

import "net/http"

// Mode names an admission mode.
type Mode string

const (
	// ModeFixedWindow admits against per-window quota records.
	ModeFixedWindow Mode = "fixed_window"

	// ModeSlidingWindow admits against a continuously moving window.
	// Not implemented yet.
	ModeSlidingWindow Mode = "sliding_window"
)

// Modes lists every admission mode, implemented or not.
var Modes = []Mode{ModeFixedWindow, ModeSlidingWindow}

// Supports reports whether the tracker implements mode.
func (t *Tracker) Supports(mode Mode) bool {
	return mode == ModeFixedWindow
}

// Limit is the sliding-window admission check. It always fails with
// ErrUnimplemented; check Supports(ModeSlidingWindow) before relying on it.
func (t *Tracker) Limit(r *http.Request) (Decision, error) {
	t.metrics.recordError(reasonFor(ErrUnimplemented))
	return Decision{}, ErrUnimplemented
}
