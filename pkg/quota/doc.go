// Package quota implements fixed-window quota admission for the gateway.
//
// # Overview
//
// A quota group names a total allowance and a default per-call cost. For
// every unit of work the Tracker derives a lookup key from the current
// window token and the consumer identity, creates the record for that key on
// first touch, and either admits the work (charging its cost) or rejects it
// with the wait value captured when the record was created.
//
//	catalog, err := quota.NewCatalog(map[string]quota.GroupConfig{
//	    "default": {Total: 5, Cost: 1},
//	})
//	tracker := quota.NewTracker(deriver, catalog)
//
//	decision, err := tracker.Decide(r, "default")
//	if errors.Is(err, quota.ErrUnknownQuotaGroup) {
//	    // configuration error, not a rejection
//	}
//	if !decision.Admitted {
//	    w.Header().Set("Retry-After", decision.RetryAfter)
//	}
//
// # Records
//
// Records are created lazily and never evicted. The quota and the retry
// value are frozen at creation: replacing the catalog mid-window does not
// change records that already exist, and every rejection within one window
// reports the same retry value.
//
// # Thread Safety
//
// Decide is safe for concurrent use. Record creation and the
// check-then-decrement on a record happen under the store's lock for that
// key, so parallel callers can never be admitted past the quota.
package quota
