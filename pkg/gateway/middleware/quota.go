package middleware

import (
	"errors"
	"net/http"
	"strconv"

	"mercator-hq/tollgate/pkg/gateway"
	"mercator-hq/tollgate/pkg/quota"
	"mercator-hq/tollgate/pkg/telemetry/logging"
)

// Response headers written by Quota.
const (
	HeaderRequestQuota = "Request-Quota"
	HeaderRequestCost  = "Request-Cost"
	HeaderRemaining    = "Remaining"
	HeaderRetryAfter   = "Retry-After"
)

// Decider makes admission decisions. *quota.Tracker implements it.
type Decider interface {
	Decide(r *http.Request, group string) (quota.Decision, error)
	DecideWithCost(r *http.Request, group string, cost int64) (quota.Decision, error)
}

var _ Decider = (*quota.Tracker)(nil)

// QuotaOption configures Quota.
type QuotaOption func(*quotaOptions)

type quotaOptions struct {
	cost    int64
	hasCost bool
}

// WithCost charges cost per request instead of the group's cost.
func WithCost(cost int64) QuotaOption {
	return func(o *quotaOptions) {
		o.cost = cost
		o.hasCost = true
	}
}

// Quota admits requests against group. Admitted requests reach next with the
// consumer identity on their context; rejected requests get a 429. A group
// missing from the catalog is a server misconfiguration and yields a 500.
func Quota(d Decider, group string, opts ...QuotaOption) func(http.Handler) http.Handler {
	var o quotaOptions
	for _, opt := range opts {
		opt(&o)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var (
				decision quota.Decision
				err      error
			)
			if o.hasCost {
				decision, err = d.DecideWithCost(r, group, o.cost)
			} else {
				decision, err = d.Decide(r, group)
			}

			if err != nil {
				handleDecideError(w, r, group, err)
				return
			}

			h := w.Header()
			h.Set(HeaderRequestQuota, strconv.FormatInt(decision.Quota, 10))
			h.Set(HeaderRequestCost, strconv.FormatInt(decision.Cost, 10))

			if !decision.Admitted {
				h.Set(HeaderRetryAfter, decision.RetryAfter)
				gateway.WriteError(w, http.StatusTooManyRequests, "")
				return
			}

			h.Set(HeaderRemaining, strconv.FormatInt(decision.Remaining, 10))

			ctx := logging.WithConsumer(r.Context(), decision.Consumer)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func handleDecideError(w http.ResponseWriter, r *http.Request, group string, err error) {
	logger := logging.FromContext(r.Context(), nil)

	if errors.Is(err, quota.ErrUnknownQuotaGroup) {
		logger.Error("route references unknown quota group", "group", group, "error", err)
	} else {
		logger.Error("admission check failed", "group", group, "error", err)
	}

	gateway.WriteError(w, http.StatusInternalServerError, "")
}

// Limiter is the sliding-window admission check.
type Limiter interface {
	Limit(r *http.Request) (quota.Decision, error)
}

// Limit admits requests with a sliding-window Limiter. While that mode is
// unimplemented every request gets a 501.
func Limit(l Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision, err := l.Limit(r)
			if errors.Is(err, quota.ErrUnimplemented) {
				gateway.WriteError(w, http.StatusNotImplemented, "")
				return
			}
			if err != nil {
				handleDecideError(w, r, "", err)
				return
			}
			if !decision.Admitted {
				w.Header().Set(HeaderRetryAfter, decision.RetryAfter)
				gateway.WriteError(w, http.StatusTooManyRequests, "")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
