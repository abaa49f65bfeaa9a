package pollrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/yanqian/ecosense/internal/domain/poll"
)

type voteKey struct {
	pollID int64
	userID int64
}

// MemoryRepository keeps polls in process memory. Ids are assigned sequentially from 1.
type MemoryRepository struct {
	mu     sync.RWMutex
	nextID int64
	polls  map[int64]poll.Poll
	votes  map[voteKey]int
}

// NewMemoryRepository constructs a repository holding the seed polls.
func NewMemoryRepository(seed []poll.Poll) *MemoryRepository {
	r := &MemoryRepository{
		nextID: 1,
		polls:  make(map[int64]poll.Poll),
		votes:  make(map[voteKey]int),
	}
	for _, p := range seed {
		r.insert(p)
	}
	return r
}

// List returns polls ordered by id.
func (r *MemoryRepository) List(_ context.Context) ([]poll.Poll, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]poll.Poll, 0, len(r.polls))
	for _, p := range r.polls {
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Create stores a new poll and assigns its id.
func (r *MemoryRepository) Create(_ context.Context, p poll.Poll) (poll.Poll, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.insert(p).Clone(), nil
}

// Vote increments one option under the write lock.
func (r *MemoryRepository) Vote(_ context.Context, pollID int64, optionIndex int, userID *int64) (poll.Poll, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.polls[pollID]
	if !ok {
		return poll.Poll{}, poll.ErrPollNotFound
	}
	if err := checkOption(optionIndex, len(p.Options)); err != nil {
		return poll.Poll{}, err
	}
	if userID != nil {
		key := voteKey{pollID: pollID, userID: *userID}
		if _, voted := r.votes[key]; voted {
			return poll.Poll{}, poll.ErrAlreadyVoted
		}
		r.votes[key] = optionIndex
	}
	p.Options[optionIndex].Votes++
	r.polls[pollID] = p
	return p.Clone(), nil
}

// VotesByUser returns the option index voted per poll.
func (r *MemoryRepository) VotesByUser(_ context.Context, userID int64) (map[int64]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[int64]int)
	for key, idx := range r.votes {
		if key.userID == userID {
			out[key.pollID] = idx
		}
	}
	return out, nil
}

func (r *MemoryRepository) insert(p poll.Poll) poll.Poll {
	p = p.Clone()
	p.ID = r.nextID
	r.nextID++
	r.polls[p.ID] = p
	return p
}

var _ poll.Repository = (*MemoryRepository)(nil)

// checkOption is applied before the duplicate vote check in every repository.
func checkOption(optionIndex, options int) error {
	if optionIndex < 0 || optionIndex >= options {
		return poll.ErrInvalidOption
	}
	return nil
}
