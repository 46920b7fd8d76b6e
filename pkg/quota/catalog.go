package quota

import (
	"fmt"
	"sort"
)

// Catalog maps quota group names to their configuration.
// It is immutable once built and needs no locking.
type Catalog struct {
	groups map[string]GroupConfig
}

// NewCatalog validates groups and returns a catalog holding a private copy.
//
// Each entry is merged over the defaults {Total: 0, Cost: unset}. Total
// must not be negative; Cost must not be negative (0 leaves it unset so the
// per-call override or DefaultCost applies).
func NewCatalog(groups map[string]GroupConfig) (*Catalog, error) {
	c := &Catalog{groups: make(map[string]GroupConfig, len(groups))}

	for name, group := range groups {
		if name == "" {
			return nil, &GroupError{Group: name, Err: fmt.Errorf("%w: empty name", ErrInvalidGroup)}
		}
		if group.Total < 0 {
			return nil, &GroupError{Group: name, Err: fmt.Errorf("%w: total must be non-negative, got %d", ErrInvalidGroup, group.Total)}
		}
		if group.Cost < 0 {
			return nil, &GroupError{Group: name, Err: fmt.Errorf("%w: cost must be positive, got %d", ErrInvalidGroup, group.Cost)}
		}
		c.groups[name] = group
	}

	return c, nil
}

// MustCatalog is like NewCatalog but panics on error. Intended for tests
// and static wiring.
func MustCatalog(groups map[string]GroupConfig) *Catalog {
	c, err := NewCatalog(groups)
	if err != nil {
		panic(err)
	}
	return c
}

// Resolve returns the configuration for name.
func (c *Catalog) Resolve(name string) (GroupConfig, error) {
	group, ok := c.groups[name]
	if !ok {
		return GroupConfig{}, &GroupError{Group: name, Err: ErrUnknownQuotaGroup}
	}
	return group, nil
}

// Names returns the group names in sorted order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.groups))
	for name := range c.groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of groups.
func (c *Catalog) Len() int {
	return len(c.groups)
}

// EffectiveCost applies the cost precedence for one call: an explicit
// non-negative override wins, then the group's configured cost, then
// DefaultCost. Pass override=false when the caller supplied no cost.
func (g GroupConfig) EffectiveCost(cost int64, override bool) int64 {
	if override && cost >= 0 {
		return cost
	}
	if g.Cost > 0 {
		return g.Cost
	}
	return DefaultCost
}
