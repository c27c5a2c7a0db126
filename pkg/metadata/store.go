package metadata

import (
	"maps"
	"slices"
	"sync"
)

// Store is the shared key-value metadata the loader merges into. PutIfAbsent
// must check and insert as one atomic step.
type Store interface {
	Has(key string) bool
	PutIfAbsent(key string, value any) bool
}

// MapStore is a Store backed by a mutex-guarded map.
type MapStore struct {
	mu      sync.RWMutex
	entries map[string]any
}

// NewMapStore creates a store, optionally seeded with existing entries.
func NewMapStore(seed map[string]any) *MapStore {
	entries := make(map[string]any, len(seed))
	maps.Copy(entries, seed)
	return &MapStore{entries: entries}
}

// Has reports whether key is present.
func (s *MapStore) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entries[key]
	return ok
}

// PutIfAbsent stores value under key unless the key is already taken.
// It returns false, leaving the store unchanged, when the key exists.
func (s *MapStore) PutIfAbsent(key string, value any) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[key]; ok {
		return false
	}
	s.entries[key] = value
	return true
}

// Get returns the value stored under key.
func (s *MapStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.entries[key]
	return v, ok
}

// Keys returns all keys (sorted).
func (s *MapStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.entries))
}

// Len returns the number of entries.
func (s *MapStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Snapshot returns a shallow copy of the entries.
func (s *MapStore) Snapshot() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.entries)
}
