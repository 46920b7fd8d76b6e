package quota

import (
	"errors"
	"fmt"
)

// DefaultCost is charged when neither the caller nor the group sets a cost.
const DefaultCost int64 = 1

// GroupConfig is the static configuration of one quota group.
type GroupConfig struct {
	// Total is the number of cost units allowed per window per consumer.
	Total int64 `yaml:"total" json:"total"`

	// Cost is the default charge per call. 0 means unset.
	Cost int64 `yaml:"cost,omitempty" json:"cost,omitempty"`
}

// Record is the live counter for one (window, consumer) key.
type Record struct {
	// Quota is the group total captured when the record was created.
	Quota int64

	// Remaining is the allowance left in this window. It never increases.
	Remaining int64

	// NextPeriod is the retry value captured when the record was created.
	NextPeriod string
}

// Decision is the outcome of one admission check.
type Decision struct {
	// Admitted reports whether the work may proceed.
	Admitted bool

	// Group is the quota group that was checked.
	Group string

	// Key is the lookup key the decision was made against.
	Key string

	// Consumer is the identity derived from the request.
	Consumer string

	// Quota is the record's captured total.
	Quota int64

	// Cost is the effective cost of the call.
	Cost int64

	// Remaining is the balance after the decision. Only meaningful when
	// Admitted is true; a rejection leaves the record untouched.
	Remaining int64

	// RetryAfter is the record's frozen retry value. Set only on rejection.
	RetryAfter string
}

// Result returns "admitted" or "rejected".
func (d Decision) Result() string {
	if d.Admitted {
		return "admitted"
	}
	return "rejected"
}

var (
	// ErrUnknownQuotaGroup is returned when a caller names a group that is
	// not in the catalog. It is a configuration error, not a rejection.
	ErrUnknownQuotaGroup = errors.New("unknown quota group")

	// ErrInvalidGroup is returned when a group configuration is malformed.
	ErrInvalidGroup = errors.New("invalid quota group")

	// ErrUnimplemented is returned by admission modes that do not exist yet.
	ErrUnimplemented = errors.New("not implemented")

	// ErrNilRequest is returned by Decide when it is given no request.
	ErrNilRequest = errors.New("nil request")
)

// GroupError adds the group name to a catalog error.
type GroupError struct {
	Group string
	Err   error
}

func (e *GroupError) Error() string {
	return fmt.Sprintf("quota group %q: %v", e.Group, e.Err)
}

func (e *GroupError) Unwrap() error {
	return e.Err
}
