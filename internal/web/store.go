package web

import (
	"sync"
	"time"

	"attendgen/internal/batch"

	"github.com/google/uuid"
)

// Entry is one generated batch kept for download
type Entry struct {
	ID      string
	Created time.Time
	Result  *batch.Result
	Err     error // Joined group failures, nil when every group rendered
}

// Store keeps the most recent batches in memory. When full, the oldest
// batch is evicted. Nothing is written to disk.
type Store struct {
	mu      sync.RWMutex
	limit   int
	order   []string
	entries map[string]*Entry
}

// NewStore creates a store holding at most limit batches
func NewStore(limit int) *Store {
	if limit < 1 {
		limit = 1
	}
	return &Store{
		limit:   limit,
		entries: make(map[string]*Entry),
	}
}

// Put stores a batch result under a new id
func (s *Store) Put(result *batch.Result, err error) *Entry {
	e := &Entry{
		ID:      uuid.NewString(),
		Created: time.Now(),
		Result:  result,
		Err:     err,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for len(s.order) >= s.limit {
		delete(s.entries, s.order[0])
		s.order = s.order[1:]
	}
	s.order = append(s.order, e.ID)
	s.entries[e.ID] = e
	return e
}

// Get returns a stored batch
func (s *Store) Get(id string) (*Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	return e, ok
}

// Len returns the number of stored batches
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
