// Package handlers implements the HTTP handlers served behind the gateway
// middleware: the success responder used by protected demo routes, and the
// liveness and capabilities endpoints.
package handlers
