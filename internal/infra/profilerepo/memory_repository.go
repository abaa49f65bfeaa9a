package profilerepo

import (
	"context"
	"sync"

	"github.com/yanqian/ecosense/internal/domain/profile"
)

// MemoryRepository keeps profiles in process memory for dev and tests.
type MemoryRepository struct {
	mu       sync.RWMutex
	profiles map[int64]profile.UserProfile
}

// NewMemoryRepository constructs an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{profiles: make(map[int64]profile.UserProfile)}
}

// Get returns a copy of the stored profile.
func (r *MemoryRepository) Get(_ context.Context, userID int64) (profile.UserProfile, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[userID]
	if !ok {
		return profile.UserProfile{}, false, nil
	}
	return p.Clone(), true, nil
}

// Update runs mutate under the write lock so concurrent writers never interleave.
func (r *MemoryRepository) Update(_ context.Context, userID int64, mutate func(*profile.UserProfile) error) (profile.UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current := r.profiles[userID].Clone()
	current.UserID = userID
	if err := mutate(&current); err != nil {
		return profile.UserProfile{}, err
	}
	r.profiles[userID] = current
	return current.Clone(), nil
}

var _ profile.Repository = (*MemoryRepository)(nil)
