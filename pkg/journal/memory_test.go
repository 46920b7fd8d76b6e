package journal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryJournal_RecordAndCount(t *testing.T) {
	ctx := context.Background()
	j := NewMemoryJournal()

	require.NoError(t, j.Record(ctx, &Entry{ID: "a", Group: "default"}))
	require.NoError(t, j.Record(ctx, &Entry{ID: "b", Group: "default"}))

	n, err := j.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	entries := j.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].ID)
	assert.Equal(t, "b", entries[1].ID)
}

func TestMemoryJournal_RecordNil(t *testing.T) {
	err := NewMemoryJournal().Record(context.Background(), nil)

	var se *StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "memory", se.Backend)
}

func TestMemoryJournal_Prune(t *testing.T) {
	ctx := context.Background()
	j := NewMemoryJournal()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		require.NoError(t, j.Record(ctx, &Entry{ID: string(rune('a' + i)), Timestamp: base.Add(time.Duration(i) * time.Hour)}))
	}

	deleted, err := j.Prune(ctx, base.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	entries := j.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "c", entries[0].ID)
}

func TestMemoryJournal_Closed(t *testing.T) {
	j := NewMemoryJournal()
	require.NoError(t, j.Close())

	err := j.Record(context.Background(), &Entry{ID: "a"})
	assert.True(t, errors.Is(err, ErrClosed))
}
