// Package window provides the policies a quota.Deriver is built from:
// fixed time windows that produce period tokens and retry values, and
// consumer strategies that derive an identity from a request.
//
//	deriver := window.NewDeriver(
//	    window.ByAPIKey,
//	    window.NewFixedWindow(time.Minute, clock.NewSystemClock()),
//	)
package window
