package config

import (
	"time"

	"mercator-hq/tollgate/pkg/quota"
	"mercator-hq/tollgate/pkg/quota/window"
)

// Config is the root configuration structure for Tollgate.
type Config struct {
	// Server contains HTTP listener settings.
	Server ServerConfig `yaml:"server"`

	// Window controls how requests are bucketed in time.
	Window WindowConfig `yaml:"window"`

	// Consumer selects how a consumer identity is derived from a request.
	Consumer ConsumerConfig `yaml:"consumer"`

	// Quotas maps group names to their totals and default costs.
	Quotas map[string]quota.GroupConfig `yaml:"quotas"`

	// Routes lists the protected routes and the group each one charges.
	Routes []RouteConfig `yaml:"routes"`

	// Journal configures the decision journal.
	Journal JournalConfig `yaml:"journal"`

	// Reload configures watching the configuration file.
	Reload ReloadSettings `yaml:"reload"`

	// Telemetry contains logging and metrics settings.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains configuration for the HTTP server.
type ServerConfig struct {
	// ListenAddress is the address and port to listen on.
	// Default: "127.0.0.1:8080"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes.
	// Default: 30s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the keep-alive idle timeout.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes limits request header size.
	// Default: 1MB
	MaxHeaderBytes int `yaml:"max_header_bytes"`

	// ReadinessTimeout bounds each /ready component check.
	// Default: 2s
	ReadinessTimeout time.Duration `yaml:"readiness_timeout"`
}

// WindowConfig controls the fixed admission window.
type WindowConfig struct {
	// Duration is the window length. Windows shorter than a second are
	// rounded up to one second.
	// Default: 1s
	Duration time.Duration `yaml:"duration"`

	// RetryAfter overrides the Retry-After value sent on rejection. Empty
	// means the window length in whole seconds.
	RetryAfter string `yaml:"retry_after"`
}

// ConsumerConfig selects the consumer identity strategy.
type ConsumerConfig struct {
	// Strategy is one of "path", "api_key", "ip", "header", "jwt".
	// Default: "path"
	Strategy string `yaml:"strategy"`

	// Header is the header read by the "header" strategy.
	Header string `yaml:"header"`

	// JWTSecret is the HS256 key used by the "jwt" strategy.
	JWTSecret string `yaml:"jwt_secret"`

	// TrustedProxies lists the CIDRs or addresses whose X-Forwarded-For and
	// X-Real-IP headers the "ip" strategy believes. Empty means the
	// connection address is always used.
	TrustedProxies []string `yaml:"trusted_proxies"`
}

// RouteConfig is one protected route.
type RouteConfig struct {
	// Method is the HTTP method. Default: "GET"
	Method string `yaml:"method"`

	// Path is the route pattern as understood by the router.
	Path string `yaml:"path"`

	// Group is the quota group charged by the route.
	Group string `yaml:"group"`

	// Cost overrides the group cost for this route when set.
	Cost *int64 `yaml:"cost,omitempty"`

	// Status is the status code returned when the request is admitted.
	// Default: 201 for POST, 200 otherwise.
	Status int `yaml:"status"`
}

// JournalConfig configures the decision journal.
type JournalConfig struct {
	// Enabled turns the journal on.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Backend is "memory" or "sqlite".
	// Default: "sqlite"
	Backend string `yaml:"backend"`

	// SQLite configures the sqlite backend.
	SQLite SQLiteConfig `yaml:"sqlite"`

	// AsyncBuffer is the recorder channel capacity.
	// Default: 1000
	AsyncBuffer int `yaml:"async_buffer"`

	// WriteTimeout bounds a single journal write.
	// Default: 5s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// RedactConsumers stores masked consumer identities.
	// Default: true
	RedactConsumers *bool `yaml:"redact_consumers"`

	// Retention is how long entries are kept. Zero keeps them forever.
	// Default: 168h
	Retention time.Duration `yaml:"retention"`

	// PruneSchedule is the cron expression for pruning.
	// Default: "0 3 * * *"
	PruneSchedule string `yaml:"prune_schedule"`
}

// SQLiteConfig configures the SQLite journal backend.
type SQLiteConfig struct {
	// Path is the database file.
	// Default: "data/decisions.db"
	Path string `yaml:"path"`

	// BusyTimeout is how long to wait for locks.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// ReloadSettings configures hot reload of the configuration file.
type ReloadSettings struct {
	// Watch enables reloading quota groups when the file changes.
	// Default: false
	Watch bool `yaml:"watch"`

	// Debounce coalesces bursts of file events.
	// Default: 100ms
	Debounce time.Duration `yaml:"debounce"`
}

// TelemetryConfig contains observability settings.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	// Level is one of "debug", "info", "warn", "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is one of "json", "text", "console".
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file:line in log records.
	AddSource bool `yaml:"add_source"`

	// RedactConsumers masks consumer identities in logs.
	// Default: true
	RedactConsumers *bool `yaml:"redact_consumers"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	// Enabled exposes metrics.
	// Default: true
	Enabled *bool `yaml:"enabled"`

	// Path is the metrics endpoint path.
	// Default: "/metrics"
	Path string `yaml:"path"`
}

// Catalog builds the quota catalog from the configured groups.
func (c *Config) Catalog() (*quota.Catalog, error) {
	return quota.NewCatalog(c.Quotas)
}

// WindowOptions returns the deriver options for the configured window and
// consumer strategy.
func (c *Config) WindowOptions() window.Options {
	return window.Options{
		Strategy:       c.Consumer.Strategy,
		Header:         c.Consumer.Header,
		JWTSecret:      c.Consumer.JWTSecret,
		TrustedProxies: c.Consumer.TrustedProxies,
		Duration:       c.Window.Duration,
		RetryAfter:     c.Window.RetryAfter,
	}
}

// CostOverride reports the route's cost override.
func (r RouteConfig) CostOverride() (int64, bool) {
	if r.Cost == nil {
		return 0, false
	}
	return *r.Cost, true
}

// boolValue dereferences b, returning def when b is nil.
func boolValue(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}

// RedactJournalConsumers reports whether the journal stores masked consumers.
func (c *Config) RedactJournalConsumers() bool {
	return boolValue(c.Journal.RedactConsumers, DefaultJournalRedactConsumers)
}

// RedactLogConsumers reports whether logs mask consumer identities.
func (c *Config) RedactLogConsumers() bool {
	return boolValue(c.Telemetry.Logging.RedactConsumers, DefaultLoggingRedactConsumers)
}

// MetricsEnabled reports whether the metrics endpoint is exposed.
func (c *Config) MetricsEnabled() bool {
	return boolValue(c.Telemetry.Metrics.Enabled, DefaultMetricsEnabled)
}
