// Package config loads and validates the Tollgate configuration.
//
// Configuration is read from a YAML file, filled in with defaults, overridden
// from the environment and validated, in that order:
//
//	cfg, err := config.LoadConfigWithEnvOverrides("config.yaml")
//
// Environment variables follow the naming convention TOLLGATE_SECTION_FIELD,
// for example TOLLGATE_SERVER_LISTEN_ADDRESS or TOLLGATE_WINDOW_DURATION.
// Quota groups and routes can only be set in the file.
//
// Validate collects every problem it finds and returns them together as a
// ValidationError, so an operator sees the whole list at once.
//
// # Singleton
//
// Initialize loads the file once at startup; GetConfig returns it from
// anywhere. ReloadConfig replaces it only when the new file is valid. A
// Watcher calls a reload function whenever the file changes on disk.
//
// # Quota groups
//
//	quotas:
//	  default:
//	    total: 5
//	    cost: 1
//	  search:
//	    total: 100
//
// Catalog builds the immutable quota.Catalog the tracker consults.
package config
