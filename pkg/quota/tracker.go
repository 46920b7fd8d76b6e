package quota

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"
)

// Observer receives every decision the tracker makes. Observe is called
// synchronously from Decide and must not block.
type Observer interface {
	Observe(ctx context.Context, d Decision)
}

// Tracker is the admission decision engine.
//
// # Example
//
//	tracker := quota.NewTracker(deriver, catalog,
//	    quota.WithMetrics(quota.NewMetrics(prometheus.NewRegistry())),
//	)
//
//	decision, err := tracker.Decide(r, "default")
//	if err != nil {
//	    // unknown group
//	}
//	if decision.Admitted {
//	    // proceed; decision.Remaining is the new balance
//	}
type Tracker struct {
	deriver  Deriver
	catalog  atomic.Pointer[Catalog]
	store    Store
	metrics  *Metrics
	observer Observer
	logger   *slog.Logger
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithStore replaces the default MemoryStore.
func WithStore(s Store) Option {
	return func(t *Tracker) {
		t.store = s
	}
}

// WithMetrics records decisions to Prometheus collectors.
func WithMetrics(m *Metrics) Option {
	return func(t *Tracker) {
		t.metrics = m
	}
}

// WithObserver forwards every decision to o.
func WithObserver(o Observer) Option {
	return func(t *Tracker) {
		t.observer = o
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(t *Tracker) {
		t.logger = l
	}
}

// NewTracker creates a tracker over catalog using deriver for keys.
func NewTracker(deriver Deriver, catalog *Catalog, opts ...Option) *Tracker {
	t := &Tracker{
		deriver: deriver,
		store:   NewMemoryStore(),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.logger == nil {
		t.logger = slog.Default()
	}
	t.logger = t.logger.With("component", "quota.tracker")

	if catalog == nil {
		catalog = MustCatalog(nil)
	}
	t.catalog.Store(catalog)

	return t
}

// Decide checks admission for one unit of work against group, charging the
// group's cost (or DefaultCost). r must not be nil; a nil request fails with
// ErrNilRequest and touches no record.
func (t *Tracker) Decide(r *http.Request, group string) (Decision, error) {
	return t.decide(r, group, 0, false)
}

// DecideWithCost is like Decide but charges cost when it is non-negative.
// A negative cost falls back to the group's cost.
func (t *Tracker) DecideWithCost(r *http.Request, group string, cost int64) (Decision, error) {
	return t.decide(r, group, cost, true)
}

func (t *Tracker) decide(r *http.Request, group string, cost int64, override bool) (Decision, error) {
	start := time.Now()
	defer func() {
		t.metrics.observeDuration(time.Since(start))
	}()

	if r == nil {
		t.metrics.recordError(reasonFor(ErrNilRequest))
		return Decision{}, ErrNilRequest
	}

	cfg, err := t.catalog.Load().Resolve(group)
	if err != nil {
		t.metrics.recordError(reasonFor(err))
		t.logger.Warn("quota group lookup failed", "group", group, "error", err)
		return Decision{}, err
	}
	effective := cfg.EffectiveCost(cost, override)

	consumer := t.deriver.Consumer(r)
	key := Key(t.deriver.Period(), consumer)

	rec, admitted, created := t.store.Admit(key, func() Record {
		return Record{
			Quota:      cfg.Total,
			Remaining:  cfg.Total,
			NextPeriod: t.deriver.NextPeriod(),
		}
	}, effective)

	if created {
		t.metrics.recordCreated(group)
	}

	d := Decision{
		Admitted:  admitted,
		Group:     group,
		Key:       key,
		Consumer:  consumer,
		Quota:     rec.Quota,
		Cost:      effective,
		Remaining: rec.Remaining,
	}
	if !admitted {
		d.RetryAfter = rec.NextPeriod
	}

	t.metrics.recordDecision(group, d.Admitted)

	ctx := r.Context()
	if !admitted {
		t.logger.DebugContext(ctx, "quota exhausted",
			"group", group,
			"key", key,
			"cost", effective,
			"remaining", rec.Remaining,
			"retry_after", rec.NextPeriod,
		)
	}
	if t.observer != nil {
		t.observer.Observe(ctx, d)
	}

	return d, nil
}

// ReplaceCatalog swaps in a new catalog. Records created under the old
// catalog keep the quota they captured.
func (t *Tracker) ReplaceCatalog(c *Catalog) {
	if c == nil {
		return
	}
	t.catalog.Store(c)
	t.logger.Info("quota catalog replaced", "groups", c.Len())
}

// Catalog returns the catalog currently in use.
func (t *Tracker) Catalog() *Catalog {
	return t.catalog.Load()
}

// Store returns the tracker's record store.
func (t *Tracker) Store() Store {
	return t.store
}

func reasonFor(err error) string {
	switch {
	case errors.Is(err, ErrUnknownQuotaGroup):
		return "unknown_group"
	case errors.Is(err, ErrUnimplemented):
		return "unimplemented"
	case errors.Is(err, ErrNilRequest):
		return "nil_request"
	default:
		return "other"
	}
}
