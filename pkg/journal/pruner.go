package journal

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"mercator-hq/tollgate/pkg/clock"
)

// PrunerConfig configures a Pruner.
type PrunerConfig struct {
	// Retention is how long entries are kept. Zero disables pruning.
	Retention time.Duration

	// Schedule is a standard five-field cron expression.
	// Default: "0 3 * * *"
	Schedule string

	// Clock is used to compute the cutoff. Defaults to the system clock.
	Clock clock.Clock
}

// Pruner deletes expired journal entries on a cron schedule.
type Pruner struct {
	journal Journal
	config  PrunerConfig
	clock   clock.Clock
	cron    *cron.Cron
	mu      sync.Mutex
	running bool
	logger  *slog.Logger
}

// NewPruner creates a Pruner for j. The schedule is validated here so that a
// bad expression fails at startup.
func NewPruner(j Journal, config PrunerConfig) (*Pruner, error) {
	if config.Schedule == "" {
		config.Schedule = "0 3 * * *"
	}
	if _, err := cron.ParseStandard(config.Schedule); err != nil {
		return nil, fmt.Errorf("invalid cron schedule %q: %w", config.Schedule, err)
	}
	if config.Retention < 0 {
		return nil, fmt.Errorf("retention must be non-negative, got %s", config.Retention)
	}

	clk := config.Clock
	if clk == nil {
		clk = clock.NewSystemClock()
	}

	return &Pruner{
		journal: j,
		config:  config,
		clock:   clk,
		cron:    cron.New(),
		logger:  slog.Default().With("component", "journal.pruner"),
	}, nil
}

// PruneNow deletes entries older than the retention period.
func (p *Pruner) PruneNow(ctx context.Context) (int64, error) {
	if p.config.Retention == 0 {
		return 0, nil
	}

	cutoff := p.clock.Now().Add(-p.config.Retention)
	deleted, err := p.journal.Prune(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune journal: %w", err)
	}
	return deleted, nil
}

// Start schedules pruning. The schedule stops when ctx is done or Stop is
// called.
func (p *Pruner) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return nil
	}
	if p.config.Retention == 0 {
		p.logger.Info("journal retention not configured, skipping pruner")
		return nil
	}

	if _, err := p.cron.AddFunc(p.config.Schedule, func() { p.run(ctx) }); err != nil {
		return fmt.Errorf("failed to schedule pruning: %w", err)
	}

	p.cron.Start()
	p.running = true

	p.logger.Info("journal pruner started",
		"schedule", p.config.Schedule,
		"retention", p.config.Retention,
	)

	go func() {
		<-ctx.Done()
		p.Stop()
	}()

	return nil
}

func (p *Pruner) run(ctx context.Context) {
	deleted, err := p.PruneNow(ctx)
	if err != nil {
		p.logger.Error("scheduled pruning failed", "error", err)
		return
	}
	p.logger.Debug("scheduled pruning completed", "deleted_count", deleted)
}

// Stop stops the schedule and waits for a running prune to finish.
func (p *Pruner) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		<-p.cron.Stop().Done()
		p.running = false
		p.logger.Info("journal pruner stopped")
	}
}

// IsRunning reports whether the schedule is active.
func (p *Pruner) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// NextRun returns the next scheduled run, or nil when not scheduled.
func (p *Pruner) NextRun() *time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()

	entries := p.cron.Entries()
	if len(entries) == 0 {
		return nil
	}
	next := entries[0].Next
	return &next
}
