package window

import (
	"fmt"
	"net/http"
	"time"

	"mercator-hq/tollgate/pkg/clock"
	"mercator-hq/tollgate/pkg/quota"
)

// Strategy names accepted by ConsumerStrategy.
const (
	StrategyPath   = "path"
	StrategyAPIKey = "api_key"
	StrategyIP     = "ip"
	StrategyHeader = "header"
	StrategyJWT    = "jwt"
)

// PeriodPolicy produces window tokens and retry values.
type PeriodPolicy interface {
	Period() string
	NextPeriod() string
}

// Deriver composes a consumer strategy and a period policy into a
// quota.Deriver.
type Deriver struct {
	consumer ConsumerFunc
	period   PeriodPolicy
}

var _ quota.Deriver = (*Deriver)(nil)

// NewDeriver creates a Deriver.
func NewDeriver(consumer ConsumerFunc, period PeriodPolicy) *Deriver {
	return &Deriver{consumer: consumer, period: period}
}

// Consumer implements quota.Deriver.
func (d *Deriver) Consumer(r *http.Request) string {
	return d.consumer(r)
}

// Period implements quota.Deriver.
func (d *Deriver) Period() string {
	return d.period.Period()
}

// NextPeriod implements quota.Deriver.
func (d *Deriver) NextPeriod() string {
	return d.period.NextPeriod()
}

// Options selects the policies for FromOptions.
type Options struct {
	Strategy       string
	Header         string
	JWTSecret      string
	TrustedProxies []string
	Duration       time.Duration
	RetryAfter     string
	Clock          clock.Clock
}

// ConsumerStrategy returns the consumer function named by opts.Strategy.
func ConsumerStrategy(opts Options) (ConsumerFunc, error) {
	switch opts.Strategy {
	case StrategyPath, "":
		return ByPath, nil
	case StrategyAPIKey:
		return ByAPIKey, nil
	case StrategyIP:
		if len(opts.TrustedProxies) == 0 {
			return ByIP, nil
		}
		trusted, err := ParseTrustedProxies(opts.TrustedProxies)
		if err != nil {
			return nil, err
		}
		return TrustedIP(trusted), nil
	case StrategyHeader:
		if opts.Header == "" {
			return nil, fmt.Errorf("consumer strategy %q requires a header name", opts.Strategy)
		}
		return ByHeader(opts.Header), nil
	case StrategyJWT:
		if opts.JWTSecret == "" {
			return nil, fmt.Errorf("consumer strategy %q requires a secret", opts.Strategy)
		}
		return ByJWTSubject([]byte(opts.JWTSecret)), nil
	default:
		return nil, fmt.Errorf("unknown consumer strategy: %s", opts.Strategy)
	}
}

// FromOptions builds a Deriver from a consumer strategy and a fixed window.
func FromOptions(opts Options) (*Deriver, error) {
	consumer, err := ConsumerStrategy(opts)
	if err != nil {
		return nil, err
	}

	var windowOpts []FixedWindowOption
	if opts.RetryAfter != "" {
		windowOpts = append(windowOpts, WithRetryAfter(opts.RetryAfter))
	}
	return NewDeriver(consumer, NewFixedWindow(opts.Duration, opts.Clock, windowOpts...)), nil
}
