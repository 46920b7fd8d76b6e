package config

import (
	"fmt"
	"net"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/robfig/cron/v3"

	"mercator-hq/tollgate/pkg/quota/window"
	"mercator-hq/tollgate/pkg/telemetry/logging"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "server.listen_address").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any rule fails. All errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateWindow(&cfg.Window)...)
	errs = append(errs, validateConsumer(&cfg.Consumer)...)
	errs = append(errs, validateQuotas(cfg)...)
	errs = append(errs, validateRoutes(cfg)...)
	errs = append(errs, validateJournal(&cfg.Journal)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if cfg.Reload.Debounce < 0 {
		errs = append(errs, FieldError{Field: "reload.debounce", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func validateServer(cfg *ServerConfig) []FieldError {
	var errs []FieldError

	if _, port, err := net.SplitHostPort(cfg.ListenAddress); err != nil {
		errs = append(errs, FieldError{
			Field:   "server.listen_address",
			Message: fmt.Sprintf("must be host:port, got %q", cfg.ListenAddress),
		})
	} else if p, err := strconv.Atoi(port); err != nil || p < 0 || p > 65535 {
		errs = append(errs, FieldError{
			Field:   "server.listen_address",
			Message: fmt.Sprintf("invalid port %q", port),
		})
	}

	if cfg.ReadTimeout < 0 {
		errs = append(errs, FieldError{Field: "server.read_timeout", Message: "must be non-negative"})
	}
	if cfg.WriteTimeout < 0 {
		errs = append(errs, FieldError{Field: "server.write_timeout", Message: "must be non-negative"})
	}
	if cfg.IdleTimeout < 0 {
		errs = append(errs, FieldError{Field: "server.idle_timeout", Message: "must be non-negative"})
	}
	if cfg.ShutdownTimeout < 0 {
		errs = append(errs, FieldError{Field: "server.shutdown_timeout", Message: "must be non-negative"})
	}
	if cfg.MaxHeaderBytes < 0 {
		errs = append(errs, FieldError{Field: "server.max_header_bytes", Message: "must be non-negative"})
	}
	if cfg.ReadinessTimeout < 0 {
		errs = append(errs, FieldError{Field: "server.readiness_timeout", Message: "must be non-negative"})
	}

	return errs
}

func validateWindow(cfg *WindowConfig) []FieldError {
	var errs []FieldError

	if cfg.Duration <= 0 {
		errs = append(errs, FieldError{Field: "window.duration", Message: "must be positive"})
	}
	if strings.ContainsAny(cfg.RetryAfter, "\r\n") {
		errs = append(errs, FieldError{Field: "window.retry_after", Message: "must not contain line breaks"})
	}

	return errs
}

func validateConsumer(cfg *ConsumerConfig) []FieldError {
	var errs []FieldError

	switch cfg.Strategy {
	case window.StrategyPath, window.StrategyAPIKey, window.StrategyIP:
	case window.StrategyHeader:
		if cfg.Header == "" {
			errs = append(errs, FieldError{Field: "consumer.header", Message: "required when strategy is \"header\""})
		}
	case window.StrategyJWT:
		if cfg.JWTSecret == "" {
			errs = append(errs, FieldError{Field: "consumer.jwt_secret", Message: "required when strategy is \"jwt\""})
		}
	default:
		errs = append(errs, FieldError{
			Field:   "consumer.strategy",
			Message: fmt.Sprintf("must be one of path, api_key, ip, header, jwt; got %q", cfg.Strategy),
		})
	}

	if _, err := window.ParseTrustedProxies(cfg.TrustedProxies); err != nil {
		errs = append(errs, FieldError{Field: "consumer.trusted_proxies", Message: err.Error()})
	}

	return errs
}

func validateQuotas(cfg *Config) []FieldError {
	var errs []FieldError

	for name, g := range cfg.Quotas {
		prefix := fmt.Sprintf("quotas.%s", name)
		if strings.TrimSpace(name) == "" {
			errs = append(errs, FieldError{Field: "quotas", Message: "group name cannot be empty"})
		}
		if g.Total < 0 {
			errs = append(errs, FieldError{Field: prefix + ".total", Message: "must be non-negative"})
		}
		if g.Cost < 0 {
			errs = append(errs, FieldError{Field: prefix + ".cost", Message: "must be non-negative"})
		}
	}

	sortFieldErrors(errs)
	return errs
}

var validMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodHead:    true,
	http.MethodPost:    true,
	http.MethodPut:     true,
	http.MethodPatch:   true,
	http.MethodDelete:  true,
	http.MethodOptions: true,
}

// Paths served by the gateway itself. Configured routes may not use them.
const (
	PathHealth       = "/health"
	PathReady        = "/ready"
	PathVersion      = "/version"
	PathCapabilities = "/capabilities"
	PathLimit        = "/limit"
)

// ReservedPaths returns the built-in paths of cfg, including the metrics
// path when metrics are enabled.
func (c *Config) ReservedPaths() []string {
	paths := []string{PathHealth, PathReady, PathVersion, PathCapabilities, PathLimit}
	if c.MetricsEnabled() {
		paths = append(paths, c.Telemetry.Metrics.Path)
	}
	return paths
}

func validateRoutes(cfg *Config) []FieldError {
	var errs []FieldError
	seen := make(map[string]bool)

	reserved := make(map[string]bool)
	for _, p := range cfg.ReservedPaths() {
		reserved[p] = true
	}

	for i, r := range cfg.Routes {
		prefix := fmt.Sprintf("routes[%d]", i)

		if !validMethods[r.Method] {
			errs = append(errs, FieldError{Field: prefix + ".method", Message: fmt.Sprintf("unsupported method %q", r.Method)})
		}
		if !strings.HasPrefix(r.Path, "/") {
			errs = append(errs, FieldError{Field: prefix + ".path", Message: "must start with /"})
		} else if reserved[r.Path] {
			errs = append(errs, FieldError{Field: prefix + ".path", Message: fmt.Sprintf("%s is served by the gateway itself", r.Path)})
		}
		if _, ok := cfg.Quotas[r.Group]; !ok {
			errs = append(errs, FieldError{Field: prefix + ".group", Message: fmt.Sprintf("unknown quota group %q", r.Group)})
		}
		if r.Cost != nil && *r.Cost < 0 {
			errs = append(errs, FieldError{Field: prefix + ".cost", Message: "must be non-negative"})
		}
		if r.Status < 100 || r.Status > 599 {
			errs = append(errs, FieldError{Field: prefix + ".status", Message: fmt.Sprintf("invalid status code %d", r.Status)})
		}

		route := r.Method + " " + r.Path
		if seen[route] {
			errs = append(errs, FieldError{Field: prefix, Message: fmt.Sprintf("duplicate route %s", route)})
		}
		seen[route] = true
	}

	return errs
}

func validateJournal(cfg *JournalConfig) []FieldError {
	if !cfg.Enabled {
		return nil
	}

	var errs []FieldError

	switch cfg.Backend {
	case "memory":
	case "sqlite":
		if cfg.SQLite.Path == "" {
			errs = append(errs, FieldError{Field: "journal.sqlite.path", Message: "required for sqlite backend"})
		}
		if cfg.SQLite.BusyTimeout < 0 {
			errs = append(errs, FieldError{Field: "journal.sqlite.busy_timeout", Message: "must be non-negative"})
		}
	default:
		errs = append(errs, FieldError{
			Field:   "journal.backend",
			Message: fmt.Sprintf("must be memory or sqlite, got %q", cfg.Backend),
		})
	}

	if cfg.AsyncBuffer <= 0 {
		errs = append(errs, FieldError{Field: "journal.async_buffer", Message: "must be positive"})
	}
	if cfg.WriteTimeout <= 0 {
		errs = append(errs, FieldError{Field: "journal.write_timeout", Message: "must be positive"})
	}
	if cfg.Retention < 0 {
		errs = append(errs, FieldError{Field: "journal.retention", Message: "must be non-negative"})
	}
	if _, err := cron.ParseStandard(cfg.PruneSchedule); err != nil {
		errs = append(errs, FieldError{
			Field:   "journal.prune_schedule",
			Message: fmt.Sprintf("invalid cron expression: %v", err),
		})
	}

	return errs
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	if _, err := logging.ParseLevel(cfg.Logging.Level); err != nil {
		errs = append(errs, FieldError{Field: "telemetry.logging.level", Message: err.Error()})
	}
	if _, err := logging.ParseFormat(cfg.Logging.Format); err != nil {
		errs = append(errs, FieldError{Field: "telemetry.logging.format", Message: err.Error()})
	}
	if !strings.HasPrefix(cfg.Metrics.Path, "/") {
		errs = append(errs, FieldError{Field: "telemetry.metrics.path", Message: "must start with /"})
	}

	return errs
}

func sortFieldErrors(errs []FieldError) {
	sort.Slice(errs, func(i, j int) bool { return errs[i].Field < errs[j].Field })
}
