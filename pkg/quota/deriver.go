package quota

import "net/http"

// Deriver supplies the window and identity policies the tracker consumes.
// Implementations must be safe for concurrent use.
type Deriver interface {
	// Consumer returns a stable identity for the caller of r. The tracker
	// never calls it with a nil request.
	Consumer(r *http.Request) string

	// Period returns a token for the current fixed window. Two calls in
	// the same window return the same token; calls in different windows
	// return different tokens.
	Period() string

	// NextPeriod returns the wait until a new window begins, in the unit
	// the transport surfaces (seconds for Retry-After).
	NextPeriod() string
}

// DeriverFuncs adapts three plain functions to a Deriver.
type DeriverFuncs struct {
	ConsumerFunc   func(r *http.Request) string
	PeriodFunc     func() string
	NextPeriodFunc func() string
}

// Consumer calls ConsumerFunc.
func (f DeriverFuncs) Consumer(r *http.Request) string { return f.ConsumerFunc(r) }

// Period calls PeriodFunc.
func (f DeriverFuncs) Period() string { return f.PeriodFunc() }

// NextPeriod calls NextPeriodFunc.
func (f DeriverFuncs) NextPeriod() string { return f.NextPeriodFunc() }

// Key combines a period token and a consumer identity into a lookup key.
// Uniqueness of (period, consumer) pairs is left to the Deriver.
func Key(period, consumer string) string {
	return period + "-" + consumer
}
