package cache

import (
	"context"
	"sync"
)

// MemoryStore is a concurrent-safe, capacity-bounded in-process entry store
// with LRU eviction. A zero or negative maxEntries means unbounded.
type MemoryStore struct {
	mu         sync.Mutex
	entries    map[string]*Entry
	order      []string // LRU order: front=oldest, back=newest
	maxEntries int
}

// NewMemoryStore creates a MemoryStore bounded to maxEntries entries.
func NewMemoryStore(maxEntries int) *MemoryStore {
	return &MemoryStore{
		entries:    make(map[string]*Entry),
		maxEntries: maxEntries,
	}
}

// Get retrieves an entry and marks it most recently used. TTL is not
// checked here; expiry is the tiering layer's concern.
func (s *MemoryStore) Get(_ context.Context, key string) (*Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	s.removeFromOrder(key)
	s.order = append(s.order, key)
	return e, true
}

// Put stores an entry, evicting least-recently-used entries when at
// capacity. Evicted entries are returned for possible demotion.
func (s *MemoryStore) Put(_ context.Context, key string, e *Entry) []*Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[key]; ok {
		s.entries[key] = e
		s.removeFromOrder(key)
		s.order = append(s.order, key)
		return nil
	}

	var evicted []*Entry
	for s.maxEntries > 0 && len(s.entries) >= s.maxEntries && len(s.order) > 0 {
		oldest := s.order[0]
		s.order = s.order[1:]
		if old, ok := s.entries[oldest]; ok {
			evicted = append(evicted, old)
			delete(s.entries, oldest)
		}
	}

	s.entries[key] = e
	s.order = append(s.order, key)
	return evicted
}

// Delete removes an entry if present.
func (s *MemoryStore) Delete(_ context.Context, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[key]; ok {
		delete(s.entries, key)
		s.removeFromOrder(key)
	}
}

// Len returns the number of resident entries.
func (s *MemoryStore) Len(_ context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *MemoryStore) removeFromOrder(key string) {
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}
