package cache

import (
	"context"
	"sync"

	"cryptobuddy/internal/feature/market/usecase"
)

// MemoryStore is a process-local CacheStore. Entries are never evicted;
// the key space is bounded by the coins and listing sizes the client can ask for.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]usecase.CacheEntry
}

var _ usecase.CacheStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]usecase.CacheEntry)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (usecase.CacheEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	return e, ok
}

func (s *MemoryStore) Set(_ context.Context, key string, entry usecase.CacheEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry
	return nil
}

func (s *MemoryStore) Len(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
