package weathercache

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/yanqian/ecosense/internal/domain/weather"
)

type entry struct {
	payload   []byte
	expiresAt time.Time
}

// MemoryStore caches provider responses in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// NewMemoryStore constructs a store backed by process memory.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]entry), now: time.Now}
}

// Get implements weather.Cache.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !e.expiresAt.IsZero() && !e.expiresAt.After(s.now()) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return nil, false, nil
	}
	return slices.Clone(e.payload), true, nil
}

// Set stores value for ttl. A non-positive ttl stores nothing.
func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry{payload: slices.Clone(value), expiresAt: s.now().Add(ttl)}
	return nil
}

var _ weather.Cache = (*MemoryStore)(nil)
