package chatrepo

import (
	"context"
	"slices"
	"sync"

	"github.com/yanqian/ecosense/internal/domain/chat"
)

// MemoryRepository keeps conversations in process memory.
type MemoryRepository struct {
	mu      sync.RWMutex
	history map[int64][]chat.Message
}

// NewMemoryRepository constructs an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{history: make(map[int64][]chat.Message)}
}

// History returns a copy of the stored conversation, oldest first.
func (r *MemoryRepository) History(_ context.Context, userID int64) ([]chat.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.history[userID]), nil
}

// Append stores messages and drops the oldest beyond limit.
func (r *MemoryRepository) Append(_ context.Context, userID int64, messages []chat.Message, limit int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	h := append(r.history[userID], messages...)
	if limit > 0 && len(h) > limit {
		h = slices.Clone(h[len(h)-limit:])
	}
	r.history[userID] = h
	return nil
}

var _ chat.Repository = (*MemoryRepository)(nil)
