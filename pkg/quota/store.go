package quota

import (
	"hash/fnv"
	"sync"
)

// Store owns the key to record mapping.
//
// Admit must perform get-or-create and check-then-decrement as one atomic
// step with respect to other calls on the same key.
type Store interface {
	// Admit returns the record for key, creating it with init if it does
	// not exist, and consumes cost when the remaining balance covers it.
	// The returned record reflects the state after the call.
	Admit(key string, init func() Record, cost int64) (rec Record, admitted bool, created bool)

	// Get returns the record for key without modifying it.
	Get(key string) (Record, bool)

	// Len returns the number of records held.
	Len() int
}

const defaultShardCount = 32

// MemoryStore is an in-process Store. Keys are spread over shards so
// unrelated consumers do not contend on one lock. Records are never evicted.
type MemoryStore struct {
	shards []*shard
}

type shard struct {
	mu      sync.Mutex
	records map[string]*Record
}

// NewMemoryStore creates a MemoryStore with the default shard count.
func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWithShards(defaultShardCount)
}

// NewMemoryStoreWithShards creates a MemoryStore with n shards (minimum 1).
func NewMemoryStoreWithShards(n int) *MemoryStore {
	if n < 1 {
		n = 1
	}
	s := &MemoryStore{shards: make([]*shard, n)}
	for i := range s.shards {
		s.shards[i] = &shard{records: make(map[string]*Record)}
	}
	return s
}

func (s *MemoryStore) shardFor(key string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return s.shards[h.Sum32()%uint32(len(s.shards))]
}

// Admit implements Store.
func (s *MemoryStore) Admit(key string, init func() Record, cost int64) (Record, bool, bool) {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	rec, ok := sh.records[key]
	created := false
	if !ok {
		r := init()
		rec = &r
		sh.records[key] = rec
		created = true
	}

	if rec.Remaining < cost {
		return *rec, false, created
	}

	rec.Remaining -= cost
	return *rec, true, created
}

// Get implements Store.
func (s *MemoryStore) Get(key string) (Record, bool) {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	rec, ok := sh.records[key]
	if !ok {
		return Record{}, false
	}
	return *rec, true
}

// Len implements Store.
func (s *MemoryStore) Len() int {
	n := 0
	for _, sh := range s.shards {
		sh.mu.Lock()
		n += len(sh.records)
		sh.mu.Unlock()
	}
	return n
}
