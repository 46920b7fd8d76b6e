// Package middleware provides the HTTP middleware that sits in front of
// protected routes.
//
// Quota is the admission adapter: it asks a tracker for a decision and turns
// it into headers and, on rejection, a 429 response. RequestID, Logging and
// Recovery are the ambient chain applied to every route:
//
//	r := chi.NewRouter()
//	r.Use(middleware.RequestID, middleware.Logging(logger), middleware.Recovery)
//	r.With(middleware.Quota(tracker, "default")).Get("/quota", handler)
//
// Headers written by Quota on every decided request:
//
//	Request-Quota  the record's total for the window
//	Request-Cost   the effective cost of this call
//
// plus Remaining on admission, or Retry-After with status 429 and the body
// {"message":"Too Many Requests"} on rejection.
package middleware
