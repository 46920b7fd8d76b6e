package journal

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"mercator-hq/tollgate/pkg/clock"
	"mercator-hq/tollgate/pkg/quota"
	"mercator-hq/tollgate/pkg/telemetry/logging"
)

// RecorderConfig configures a Recorder.
type RecorderConfig struct {
	// AsyncBuffer is the capacity of the entry channel. Entries observed
	// while the channel is full are dropped.
	AsyncBuffer int

	// WriteTimeout bounds a single journal write.
	WriteTimeout time.Duration

	// RedactConsumers stores masked consumer identities and keys.
	RedactConsumers bool

	// Clock stamps entries. Defaults to the system clock.
	Clock clock.Clock

	// Registerer receives the recorder metrics. Nil disables them.
	Registerer prometheus.Registerer
}

// DefaultRecorderConfig returns the default recorder configuration.
func DefaultRecorderConfig() *RecorderConfig {
	return &RecorderConfig{
		AsyncBuffer:  1000,
		WriteTimeout: 5 * time.Second,
	}
}

// Recorder turns quota decisions into journal entries and writes them from a
// background goroutine. It implements quota.Observer.
type Recorder struct {
	journal Journal
	config  *RecorderConfig
	clock   clock.Clock
	entries chan *Entry
	done    chan struct{}
	wg      sync.WaitGroup
	logger  *slog.Logger

	mu      sync.RWMutex
	closed  bool
	dropped atomic.Int64
	written atomic.Int64

	outcomes *prometheus.CounterVec
}

var _ quota.Observer = (*Recorder)(nil)

// NewRecorder starts a Recorder writing to j. A nil config uses
// DefaultRecorderConfig.
func NewRecorder(j Journal, config *RecorderConfig) *Recorder {
	if config == nil {
		config = DefaultRecorderConfig()
	}
	if config.AsyncBuffer <= 0 {
		config.AsyncBuffer = 1000
	}
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = 5 * time.Second
	}

	clk := config.Clock
	if clk == nil {
		clk = clock.NewSystemClock()
	}

	r := &Recorder{
		journal: j,
		config:  config,
		clock:   clk,
		entries: make(chan *Entry, config.AsyncBuffer),
		done:    make(chan struct{}),
		logger:  slog.Default().With("component", "journal.recorder"),
	}

	if config.Registerer != nil {
		r.outcomes = promauto.With(config.Registerer).NewCounterVec(
			prometheus.CounterOpts{
				Name: "tollgate_journal_entries_total",
				Help: "Journal entries by outcome (written, dropped, failed)",
			},
			[]string{"outcome"},
		)
	}

	r.wg.Add(1)
	go r.worker()

	r.logger.Info("decision recorder initialized",
		"async_buffer", config.AsyncBuffer,
		"write_timeout", config.WriteTimeout,
	)

	return r
}

// Observe enqueues d for writing. It never blocks: when the buffer is full or
// the recorder is closed the entry is dropped and counted.
func (r *Recorder) Observe(ctx context.Context, d quota.Decision) {
	entry := r.newEntry(ctx, d)

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		r.drop(entry, "recorder closed")
		return
	}

	select {
	case r.entries <- entry:
	default:
		r.drop(entry, "buffer full")
	}
}

// Dropped returns the number of entries that were never written because the
// buffer was full or the recorder was closed.
func (r *Recorder) Dropped() int64 {
	return r.dropped.Load()
}

// Written returns the number of entries successfully written.
func (r *Recorder) Written() int64 {
	return r.written.Load()
}

// Close stops accepting entries, drains the buffer and waits for the worker.
// It does not close the underlying journal.
func (r *Recorder) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	close(r.done)
	r.mu.Unlock()

	r.logger.Info("shutting down decision recorder")
	r.wg.Wait()
	r.logger.Info("decision recorder shut down complete",
		"written", r.written.Load(),
		"dropped", r.dropped.Load(),
	)
	return nil
}

func (r *Recorder) worker() {
	defer r.wg.Done()

	for {
		select {
		case entry := <-r.entries:
			r.write(entry)

		case <-r.done:
			for {
				select {
				case entry := <-r.entries:
					r.write(entry)
				default:
					return
				}
			}
		}
	}
}

func (r *Recorder) write(entry *Entry) {
	ctx, cancel := context.WithTimeout(context.Background(), r.config.WriteTimeout)
	defer cancel()

	if err := r.journal.Record(ctx, entry); err != nil {
		r.logger.Error("failed to record decision",
			"entry_id", entry.ID,
			"request_id", entry.RequestID,
			"error", err,
		)
		r.count("failed")
		return
	}

	r.written.Add(1)
	r.count("written")
}

func (r *Recorder) drop(entry *Entry, reason string) {
	r.dropped.Add(1)
	r.count("dropped")
	r.logger.Warn("dropping decision entry",
		"entry_id", entry.ID,
		"request_id", entry.RequestID,
		"reason", reason,
	)
}

func (r *Recorder) count(outcome string) {
	if r.outcomes != nil {
		r.outcomes.WithLabelValues(outcome).Inc()
	}
}

func (r *Recorder) newEntry(ctx context.Context, d quota.Decision) *Entry {
	consumer, key := d.Consumer, d.Key
	if r.config.RedactConsumers {
		consumer = logging.MaskValue(consumer)
		key = logging.MaskValue(key)
	}

	return &Entry{
		ID:         uuid.New().String(),
		RequestID:  logging.GetRequestID(ctx),
		Timestamp:  r.clock.Now(),
		Group:      d.Group,
		Consumer:   consumer,
		Key:        key,
		Admitted:   d.Admitted,
		Quota:      d.Quota,
		Cost:       d.Cost,
		Remaining:  d.Remaining,
		RetryAfter: d.RetryAfter,
	}
}
