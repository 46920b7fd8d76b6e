// Tollgate is a quota-admission gateway.
//
// It sits in front of HTTP routes and admits or rejects each request against
// a per-consumer quota that resets every window. Rejected requests get a 429
// with a Retry-After header.
//
// Usage:
//
//	# Start the gateway with ./config.yaml
//	tollgate run
//
//	# Start with a custom configuration file
//	tollgate run --config /etc/tollgate/config.yaml
//
//	# Check a configuration file and list its quota groups
//	tollgate validate --config config.yaml
//
//	# Show version information
//	tollgate version
package main

func main() {
	Execute()
}
