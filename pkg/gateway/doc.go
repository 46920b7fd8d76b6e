// Package gateway holds the HTTP surface of Tollgate: the admission
// middleware in gateway/middleware, the demo and operational handlers in
// gateway/handlers, and the JSON helpers both share.
package gateway
