package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS decisions (
	id TEXT PRIMARY KEY,
	request_id TEXT,
	recorded_at INTEGER NOT NULL,
	quota_group TEXT NOT NULL,
	consumer TEXT NOT NULL,
	lookup_key TEXT NOT NULL,
	admitted INTEGER NOT NULL,
	quota INTEGER NOT NULL,
	cost INTEGER NOT NULL,
	remaining INTEGER NOT NULL,
	retry_after TEXT
);

CREATE INDEX IF NOT EXISTS idx_decisions_recorded_at ON decisions(recorded_at);
CREATE INDEX IF NOT EXISTS idx_decisions_group ON decisions(quota_group);
`

// SQLiteJournal stores entries in a SQLite database.
type SQLiteJournal struct {
	db        *sql.DB
	logger    *slog.Logger
	closeOnce sync.Once
}

// SQLiteConfig configures NewSQLiteJournalWithConfig.
type SQLiteConfig struct {
	// Path is the database file.
	Path string

	// BusyTimeout is how long to wait for locks before failing.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// NewSQLiteJournal opens (or creates) the database at path.
func NewSQLiteJournal(path string) (*SQLiteJournal, error) {
	return NewSQLiteJournalWithConfig(SQLiteConfig{Path: path})
}

// NewSQLiteJournalWithConfig opens the database described by cfg.
func NewSQLiteJournalWithConfig(cfg SQLiteConfig) (*SQLiteJournal, error) {
	if cfg.Path == "" {
		return nil, newStorageError("sqlite", "open", errors.New("db path cannot be empty"))
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)",
		cfg.Path, cfg.BusyTimeout.Milliseconds())

	if dir := filepath.Dir(cfg.Path); dir != "." && cfg.Path != ":memory:" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, newStorageError("sqlite", "open", err)
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, newStorageError("sqlite", "open", err)
	}

	// SQLite only supports a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	j, err := NewSQLiteJournalFromDB(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return j, nil
}

// NewSQLiteJournalFromDB wraps an open database and creates the schema.
// The journal takes ownership of db.
func NewSQLiteJournalFromDB(db *sql.DB) (*SQLiteJournal, error) {
	if _, err := db.Exec(sqliteSchema); err != nil {
		return nil, newStorageError("sqlite", "create_schema", err)
	}

	return &SQLiteJournal{
		db:     db,
		logger: slog.Default().With("component", "journal.sqlite"),
	}, nil
}

// Record implements Journal.
func (s *SQLiteJournal) Record(ctx context.Context, e *Entry) error {
	if e == nil {
		return newStorageError("sqlite", "record", errors.New("entry cannot be nil"))
	}

	admitted := 0
	if e.Admitted {
		admitted = 1
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO decisions (id, request_id, recorded_at, quota_group, consumer, lookup_key,
			admitted, quota, cost, remaining, retry_after)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.RequestID, e.Timestamp.UnixNano(), e.Group, e.Consumer, e.Key,
		admitted, e.Quota, e.Cost, e.Remaining, e.RetryAfter,
	)
	if err != nil {
		return newStorageError("sqlite", "record", err)
	}
	return nil
}

// Count implements Journal.
func (s *SQLiteJournal) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM decisions`).Scan(&n); err != nil {
		return 0, newStorageError("sqlite", "count", err)
	}
	return n, nil
}

// Prune implements Journal.
func (s *SQLiteJournal) Prune(ctx context.Context, olderThan time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM decisions WHERE recorded_at < ?`, olderThan.UnixNano())
	if err != nil {
		return 0, newStorageError("sqlite", "prune", err)
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, newStorageError("sqlite", "prune", err)
	}

	s.logger.Debug("pruned decisions", "deleted", deleted, "older_than", olderThan)
	return deleted, nil
}

// Close implements Journal.
func (s *SQLiteJournal) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = s.db.Close()
	})
	return err
}
