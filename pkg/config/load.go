package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// envPrefix is prepended to every environment override.
const envPrefix = "TOLLGATE_"

// LoadConfig loads configuration from a YAML file, applies defaults and
// validates it. Environment variables are not consulted; use
// LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Parse decodes YAML and applies defaults without validating.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	ApplyDefaults(&cfg)
	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides (TOLLGATE_SECTION_FIELD). Environment
// variables take precedence over the file.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// envSetter applies one environment variable to the configuration.
type envSetter func(cfg *Config, val string) error

var envOverrides = map[string]envSetter{
	// Server
	"SERVER_LISTEN_ADDRESS":    func(c *Config, v string) error { c.Server.ListenAddress = v; return nil },
	"SERVER_READ_TIMEOUT":      durationSetter(func(c *Config) *time.Duration { return &c.Server.ReadTimeout }),
	"SERVER_WRITE_TIMEOUT":     durationSetter(func(c *Config) *time.Duration { return &c.Server.WriteTimeout }),
	"SERVER_IDLE_TIMEOUT":      durationSetter(func(c *Config) *time.Duration { return &c.Server.IdleTimeout }),
	"SERVER_SHUTDOWN_TIMEOUT":  durationSetter(func(c *Config) *time.Duration { return &c.Server.ShutdownTimeout }),
	"SERVER_READINESS_TIMEOUT": durationSetter(func(c *Config) *time.Duration { return &c.Server.ReadinessTimeout }),

	// Window
	"WINDOW_DURATION":    durationSetter(func(c *Config) *time.Duration { return &c.Window.Duration }),
	"WINDOW_RETRY_AFTER": func(c *Config, v string) error { c.Window.RetryAfter = v; return nil },

	// Consumer
	"CONSUMER_STRATEGY":   func(c *Config, v string) error { c.Consumer.Strategy = v; return nil },
	"CONSUMER_HEADER":     func(c *Config, v string) error { c.Consumer.Header = v; return nil },
	"CONSUMER_JWT_SECRET": func(c *Config, v string) error { c.Consumer.JWTSecret = v; return nil },

	// Journal
	"JOURNAL_ENABLED": func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		c.Journal.Enabled = b
		return err
	},
	"JOURNAL_BACKEND":        func(c *Config, v string) error { c.Journal.Backend = v; return nil },
	"JOURNAL_SQLITE_PATH":    func(c *Config, v string) error { c.Journal.SQLite.Path = v; return nil },
	"JOURNAL_RETENTION":      durationSetter(func(c *Config) *time.Duration { return &c.Journal.Retention }),
	"JOURNAL_PRUNE_SCHEDULE": func(c *Config, v string) error { c.Journal.PruneSchedule = v; return nil },

	// Reload
	"RELOAD_WATCH": func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		c.Reload.Watch = b
		return err
	},

	// Telemetry
	"TELEMETRY_LOGGING_LEVEL":  func(c *Config, v string) error { c.Telemetry.Logging.Level = v; return nil },
	"TELEMETRY_LOGGING_FORMAT": func(c *Config, v string) error { c.Telemetry.Logging.Format = v; return nil },
	"TELEMETRY_METRICS_ENABLED": func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		c.Telemetry.Metrics.Enabled = &b
		return err
	},
	"TELEMETRY_METRICS_PATH": func(c *Config, v string) error { c.Telemetry.Metrics.Path = v; return nil },
}

func durationSetter(field func(*Config) *time.Duration) envSetter {
	return func(c *Config, v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		*field(c) = d
		return nil
	}
}

// applyEnvOverrides applies TOLLGATE_* variables. Unparseable values are
// reported rather than silently ignored.
func applyEnvOverrides(cfg *Config) error {
	var errs []FieldError
	for suffix, set := range envOverrides {
		val, ok := os.LookupEnv(envPrefix + suffix)
		if !ok || val == "" {
			continue
		}
		if err := set(cfg, val); err != nil {
			errs = append(errs, FieldError{
				Field:   envPrefix + suffix,
				Message: fmt.Sprintf("invalid value %q: %v", val, err),
			})
		}
	}
	if len(errs) > 0 {
		sortFieldErrors(errs)
		return ValidationError{Errors: errs}
	}
	return nil
}

// EnvName returns the environment variable that overrides a dotted field
// path, e.g. "server.listen_address" -> "TOLLGATE_SERVER_LISTEN_ADDRESS".
func EnvName(field string) string {
	return envPrefix + strings.ToUpper(strings.ReplaceAll(field, ".", "_"))
}
