package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"mercator-hq/tollgate/pkg/clock"
	"mercator-hq/tollgate/pkg/config"
	"mercator-hq/tollgate/pkg/journal"
	"mercator-hq/tollgate/pkg/quota"
	"mercator-hq/tollgate/pkg/quota/window"
	"mercator-hq/tollgate/pkg/telemetry/health"
	"mercator-hq/tollgate/pkg/telemetry/metrics"
)

// App is a fully wired gateway.
type App struct {
	Config   *config.Config
	Tracker  *quota.Tracker
	Registry *prometheus.Registry
	Server   *Server

	configPath string
	clock      clock.Clock
	journal    journal.Journal
	recorder   *journal.Recorder
	pruner     *journal.Pruner
	logger     *slog.Logger
	version    health.VersionInfo
}

// AppOption configures an App.
type AppOption func(*App)

// WithAppClock sets the clock shared by the window, journal and health
// endpoint.
func WithAppClock(c clock.Clock) AppOption {
	return func(a *App) { a.clock = c }
}

// WithVersionInfo sets the build information served on /version.
func WithVersionInfo(info health.VersionInfo) AppOption {
	return func(a *App) { a.version = info }
}

// NewApp builds every component described by cfg. configPath is the file
// reloaded by Reload and watched when reload.watch is set; it may be empty.
func NewApp(cfg *config.Config, configPath string, opts ...AppOption) (*App, error) {
	a := &App{
		Config:     cfg,
		Registry:   metrics.NewRegistry(),
		configPath: configPath,
		clock:      clock.NewSystemClock(),
		logger:     slog.Default().With("component", "app"),
	}
	for _, opt := range opts {
		opt(a)
	}

	catalog, err := cfg.Catalog()
	if err != nil {
		return nil, fmt.Errorf("failed to build quota catalog: %w", err)
	}

	windowOpts := cfg.WindowOptions()
	windowOpts.Clock = a.clock
	deriver, err := window.FromOptions(windowOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to build window deriver: %w", err)
	}

	trackerOpts := []quota.Option{
		quota.WithMetrics(quota.NewMetrics(a.Registry)),
	}

	if cfg.Journal.Enabled {
		if err := a.openJournal(); err != nil {
			return nil, err
		}
		trackerOpts = append(trackerOpts, quota.WithObserver(a.recorder))
	}

	a.Tracker = quota.NewTracker(deriver, catalog, trackerOpts...)
	serverOpts := []Option{
		WithGatherer(a.Registry),
		WithClock(a.clock),
		WithVersion(a.version),
	}
	if cfg.MetricsEnabled() {
		serverOpts = append(serverOpts, WithRequestMetrics(metrics.NewRequestMetrics(a.Registry, 0)))
	}
	a.Server = NewServer(cfg, a.Tracker, serverOpts...)
	if a.journal != nil {
		a.Server.Checker().RegisterCheck("journal", func(ctx context.Context) error {
			_, err := a.journal.Count(ctx)
			return err
		})
	}

	a.logger.Info("tollgate assembled",
		"groups", catalog.Names(),
		"routes", len(cfg.Routes),
		"consumer_strategy", cfg.Consumer.Strategy,
		"window", cfg.Window.Duration,
		"journal", cfg.Journal.Enabled,
	)

	return a, nil
}

func (a *App) openJournal() error {
	jc := a.Config.Journal

	switch jc.Backend {
	case "memory":
		a.journal = journal.NewMemoryJournal()
	case "sqlite":
		j, err := journal.NewSQLiteJournalWithConfig(journal.SQLiteConfig{
			Path:        jc.SQLite.Path,
			BusyTimeout: jc.SQLite.BusyTimeout,
		})
		if err != nil {
			return fmt.Errorf("failed to open decision journal: %w", err)
		}
		a.journal = j
	default:
		return fmt.Errorf("unsupported journal backend: %s", jc.Backend)
	}

	a.recorder = journal.NewRecorder(a.journal, &journal.RecorderConfig{
		AsyncBuffer:     jc.AsyncBuffer,
		WriteTimeout:    jc.WriteTimeout,
		RedactConsumers: a.Config.RedactJournalConsumers(),
		Clock:           a.clock,
		Registerer:      a.Registry,
	})

	pruner, err := journal.NewPruner(a.journal, journal.PrunerConfig{
		Retention: jc.Retention,
		Schedule:  jc.PruneSchedule,
		Clock:     a.clock,
	})
	if err != nil {
		a.recorder.Close()
		a.journal.Close()
		return fmt.Errorf("failed to create journal pruner: %w", err)
	}
	a.pruner = pruner

	return nil
}

// Reload re-reads the configuration file and swaps in its quota groups.
func (a *App) Reload() error {
	if a.configPath == "" {
		return errors.New("no configuration file to reload")
	}

	cfg, err := config.ReloadConfig(a.configPath)
	if err != nil {
		return err
	}
	return a.ApplyQuotas(cfg)
}

// ApplyQuotas replaces the tracker catalog with the groups in cfg. Routes
// that reference a group missing from cfg answer 500 until it returns.
func (a *App) ApplyQuotas(cfg *config.Config) error {
	catalog, err := cfg.Catalog()
	if err != nil {
		return fmt.Errorf("failed to build quota catalog: %w", err)
	}

	for _, rt := range a.Config.Routes {
		if _, err := catalog.Resolve(rt.Group); err != nil {
			a.logger.Warn("reloaded configuration drops a routed quota group",
				"method", rt.Method,
				"path", rt.Path,
				"group", rt.Group,
			)
		}
	}

	a.Tracker.ReplaceCatalog(catalog)
	a.logger.Info("quota groups reloaded", "groups", catalog.Names())
	return nil
}

// Run starts the pruner, the config watcher and the HTTP server, and blocks
// until ctx is done or one of them fails. Resources are released before it
// returns.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	g, ctx := errgroup.WithContext(ctx)

	if a.pruner != nil {
		if err := a.pruner.Start(ctx); err != nil {
			return err
		}
	}

	if a.Config.Reload.Watch && a.configPath != "" {
		w, err := config.NewWatcher(a.configPath, a.Config.Reload.Debounce)
		if err != nil {
			return err
		}
		g.Go(func() error {
			defer w.Stop()
			return w.Watch(ctx, a.Reload)
		})
	}

	g.Go(func() error {
		return a.Server.Start(ctx)
	})

	return g.Wait()
}

// Close stops background work and closes the journal. Safe to call more
// than once.
func (a *App) Close() error {
	if a.pruner != nil {
		a.pruner.Stop()
	}
	if a.recorder != nil {
		a.recorder.Close()
	}
	if a.journal != nil {
		return a.journal.Close()
	}
	return nil
}
