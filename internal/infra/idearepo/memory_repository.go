package idearepo

import (
	"context"
	"sort"
	"sync"

	"github.com/yanqian/ecosense/internal/domain/idea"
)

// MemoryRepository keeps ideas in process memory.
type MemoryRepository struct {
	mu     sync.RWMutex
	nextID int64
	ideas  []idea.Idea
}

// NewMemoryRepository constructs a repository holding the seed ideas.
func NewMemoryRepository(seed []idea.Idea) *MemoryRepository {
	r := &MemoryRepository{nextID: 1}
	for _, i := range seed {
		r.insert(i)
	}
	return r
}

// List returns ideas newest first.
func (r *MemoryRepository) List(_ context.Context) ([]idea.Idea, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := append([]idea.Idea(nil), r.ideas...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Create stores an idea and assigns its id.
func (r *MemoryRepository) Create(_ context.Context, i idea.Idea) (idea.Idea, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.insert(i), nil
}

func (r *MemoryRepository) insert(i idea.Idea) idea.Idea {
	i.ID = r.nextID
	r.nextID++
	r.ideas = append(r.ideas, i)
	return i
}

var _ idea.Repository = (*MemoryRepository)(nil)
