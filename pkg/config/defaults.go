package config

import (
	"net/http"
	"time"

	"mercator-hq/tollgate/pkg/quota"
)

// Default values for configuration fields.
const (
	// Server defaults
	DefaultListenAddress    = "127.0.0.1:8080"
	DefaultReadTimeout      = 30 * time.Second
	DefaultWriteTimeout     = 30 * time.Second
	DefaultIdleTimeout      = 120 * time.Second
	DefaultShutdownTimeout  = 30 * time.Second
	DefaultMaxHeaderBytes   = 1048576 // 1MB
	DefaultReadinessTimeout = 2 * time.Second

	// Window defaults
	DefaultWindowDuration = time.Second

	// Consumer defaults
	DefaultConsumerStrategy = "path"

	// Quota defaults
	DefaultGroupName  = "default"
	DefaultGroupTotal = int64(5)
	DefaultGroupCost  = int64(1)

	// Journal defaults
	DefaultJournalBackend         = "sqlite"
	DefaultJournalSQLitePath      = "data/decisions.db"
	DefaultJournalBusyTimeout     = 5 * time.Second
	DefaultJournalAsyncBuffer     = 1000
	DefaultJournalWriteTimeout    = 5 * time.Second
	DefaultJournalRedactConsumers = true
	DefaultJournalRetention       = 7 * 24 * time.Hour
	DefaultJournalPruneSchedule   = "0 3 * * *"

	// Reload defaults
	DefaultReloadDebounce = 100 * time.Millisecond

	// Telemetry defaults
	DefaultLoggingLevel           = "info"
	DefaultLoggingFormat          = "json"
	DefaultLoggingRedactConsumers = true
	DefaultMetricsEnabled         = true
	DefaultMetricsPath            = "/metrics"
)

// ApplyDefaults fills in zero-valued fields. Fields that were set are left
// alone.
func ApplyDefaults(cfg *Config) {
	// Server defaults
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.MaxHeaderBytes == 0 {
		cfg.Server.MaxHeaderBytes = DefaultMaxHeaderBytes
	}
	if cfg.Server.ReadinessTimeout == 0 {
		cfg.Server.ReadinessTimeout = DefaultReadinessTimeout
	}

	// Window defaults
	if cfg.Window.Duration == 0 {
		cfg.Window.Duration = DefaultWindowDuration
	}

	// Consumer defaults
	if cfg.Consumer.Strategy == "" {
		cfg.Consumer.Strategy = DefaultConsumerStrategy
	}

	// Quota defaults: the demo group
	if cfg.Quotas == nil {
		cfg.Quotas = map[string]quota.GroupConfig{
			DefaultGroupName: {Total: DefaultGroupTotal, Cost: DefaultGroupCost},
		}
	}

	applyRouteDefaults(cfg)

	// Journal defaults
	if cfg.Journal.Backend == "" {
		cfg.Journal.Backend = DefaultJournalBackend
	}
	if cfg.Journal.SQLite.Path == "" {
		cfg.Journal.SQLite.Path = DefaultJournalSQLitePath
	}
	if cfg.Journal.SQLite.BusyTimeout == 0 {
		cfg.Journal.SQLite.BusyTimeout = DefaultJournalBusyTimeout
	}
	if cfg.Journal.AsyncBuffer == 0 {
		cfg.Journal.AsyncBuffer = DefaultJournalAsyncBuffer
	}
	if cfg.Journal.WriteTimeout == 0 {
		cfg.Journal.WriteTimeout = DefaultJournalWriteTimeout
	}
	if cfg.Journal.Retention == 0 {
		cfg.Journal.Retention = DefaultJournalRetention
	}
	if cfg.Journal.PruneSchedule == "" {
		cfg.Journal.PruneSchedule = DefaultJournalPruneSchedule
	}

	// Reload defaults
	if cfg.Reload.Debounce == 0 {
		cfg.Reload.Debounce = DefaultReloadDebounce
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
}

// applyRouteDefaults installs the demo routes when none are configured and
// fills in method and status on the configured ones.
func applyRouteDefaults(cfg *Config) {
	if cfg.Routes == nil {
		postCost := int64(2)
		cfg.Routes = []RouteConfig{
			{Method: http.MethodGet, Path: "/quota", Group: DefaultGroupName},
			{Method: http.MethodPost, Path: "/quota", Group: DefaultGroupName, Cost: &postCost},
		}
	}

	for i := range cfg.Routes {
		r := &cfg.Routes[i]
		if r.Method == "" {
			r.Method = http.MethodGet
		}
		if r.Status == 0 {
			if r.Method == http.MethodPost {
				r.Status = http.StatusCreated
			} else {
				r.Status = http.StatusOK
			}
		}
	}
}
