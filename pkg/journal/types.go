package journal

import (
	"context"
	"fmt"
	"time"
)

// Entry is one journaled admission decision.
type Entry struct {
	ID         string    `json:"id"`
	RequestID  string    `json:"request_id,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	Group      string    `json:"group"`
	Consumer   string    `json:"consumer"`
	Key        string    `json:"key"`
	Admitted   bool      `json:"admitted"`
	Quota      int64     `json:"quota"`
	Cost       int64     `json:"cost"`
	Remaining  int64     `json:"remaining"`
	RetryAfter string    `json:"retry_after,omitempty"`
}

// Journal stores entries. Implementations must be safe for concurrent use.
type Journal interface {
	// Record appends an entry.
	Record(ctx context.Context, e *Entry) error

	// Count returns the number of stored entries.
	Count(ctx context.Context) (int64, error)

	// Prune deletes entries recorded before olderThan and returns how many
	// were removed.
	Prune(ctx context.Context, olderThan time.Time) (int64, error)

	// Close releases resources. The journal must not be used afterwards.
	Close() error
}

// StorageError wraps a failed journal operation.
type StorageError struct {
	Backend   string
	Operation string
	Err       error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("journal %s %s: %v", e.Backend, e.Operation, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func newStorageError(backend, op string, err error) *StorageError {
	return &StorageError{Backend: backend, Operation: op, Err: err}
}
