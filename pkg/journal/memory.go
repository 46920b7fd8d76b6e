package journal

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrClosed is returned by a journal after Close.
var ErrClosed = errors.New("journal closed")

// MemoryJournal keeps entries in a slice. Useful for tests and for running
// without a database.
type MemoryJournal struct {
	mu      sync.RWMutex
	entries []Entry
	closed  bool
}

// NewMemoryJournal creates an empty MemoryJournal.
func NewMemoryJournal() *MemoryJournal {
	return &MemoryJournal{}
}

// Record implements Journal.
func (m *MemoryJournal) Record(_ context.Context, e *Entry) error {
	if e == nil {
		return newStorageError("memory", "record", errors.New("entry cannot be nil"))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return newStorageError("memory", "record", ErrClosed)
	}
	m.entries = append(m.entries, *e)
	return nil
}

// Count implements Journal.
func (m *MemoryJournal) Count(_ context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.entries)), nil
}

// Prune implements Journal.
func (m *MemoryJournal) Prune(_ context.Context, olderThan time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.entries[:0]
	for _, e := range m.entries {
		if !e.Timestamp.Before(olderThan) {
			kept = append(kept, e)
		}
	}
	deleted := int64(len(m.entries) - len(kept))
	m.entries = kept
	return deleted, nil
}

// Entries returns a copy of the stored entries in insertion order.
func (m *MemoryJournal) Entries() []Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Close implements Journal.
func (m *MemoryJournal) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}
