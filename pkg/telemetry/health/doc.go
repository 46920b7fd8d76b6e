// Package health runs readiness checks for the gateway's components.
//
// Components register a CheckFunc by name. CheckReadiness runs every check
// concurrently, each bounded by the checker's timeout, and reports the
// gateway as degraded when any of them fails:
//
//	checker := health.New(2*time.Second, nil)
//	checker.RegisterCheck("journal", func(ctx context.Context) error {
//		_, err := j.Count(ctx)
//		return err
//	})
//	r.Get("/ready", checker.ReadinessHandler())
//
// Liveness is served separately by the gateway handlers; a live process is
// not necessarily ready to admit traffic.
package health
