package pollrepo

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/ecosense/internal/domain/poll"
)

func TestMemoryRepositoryConcurrentVotesKeepEveryIncrement(t *testing.T) {
	repo := NewMemoryRepository(poll.SeedPolls(time.Now()))
	ctx := context.Background()

	const voters = 50
	var wg sync.WaitGroup
	wg.Add(voters)
	for i := 0; i < voters; i++ {
		go func() {
			defer wg.Done()
			_, err := repo.Vote(ctx, 1, 2, nil)
			require.NoError(t, err)
		}()
	}
	wg.Wait()

	polls, err := repo.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []int64{1, 2}, []int64{polls[0].ID, polls[1].ID})
	require.Equal(t, 18+voters, polls[0].Options[2].Votes)
}

func TestMemoryRepositoryTracksUserVotes(t *testing.T) {
	repo := NewMemoryRepository(nil)
	ctx := context.Background()
	created, err := repo.Create(ctx, poll.Poll{Question: "Q", Options: []poll.Option{{Text: "A"}, {Text: "B"}}})
	require.NoError(t, err)
	require.Equal(t, int64(1), created.ID)

	user := int64(4)
	_, err = repo.Vote(ctx, created.ID, 1, &user)
	require.NoError(t, err)
	_, err = repo.Vote(ctx, created.ID, 0, &user)
	require.ErrorIs(t, err, poll.ErrAlreadyVoted)
	_, err = repo.Vote(ctx, created.ID, 5, nil)
	require.ErrorIs(t, err, poll.ErrInvalidOption)
	_, err = repo.Vote(ctx, 42, 0, nil)
	require.ErrorIs(t, err, poll.ErrPollNotFound)

	votes, err := repo.VotesByUser(ctx, user)
	require.NoError(t, err)
	require.Equal(t, map[int64]int{created.ID: 1}, votes)
}

func TestVoteRejectsBadOptionBeforeDuplicate(t *testing.T) {
	repo := NewMemoryRepository(nil)
	ctx := context.Background()
	created, err := repo.Create(ctx, poll.Poll{Question: "Q", Options: []poll.Option{{Text: "A"}, {Text: "B"}}})
	require.NoError(t, err)

	user := int64(4)
	_, err = repo.Vote(ctx, created.ID, 0, &user)
	require.NoError(t, err)
	_, err = repo.Vote(ctx, created.ID, 2, &user)
	require.ErrorIs(t, err, poll.ErrInvalidOption)
	_, err = repo.Vote(ctx, created.ID, -1, &user)
	require.ErrorIs(t, err, poll.ErrInvalidOption)

	require.ErrorIs(t, checkOption(2, 2), poll.ErrInvalidOption)
	require.NoError(t, checkOption(1, 2))
}

func TestMemoryRepositoryReturnsCopies(t *testing.T) {
	repo := NewMemoryRepository(nil)
	ctx := context.Background()
	created, err := repo.Create(ctx, poll.Poll{Question: "Q", Options: []poll.Option{{Text: "A"}, {Text: "B"}}})
	require.NoError(t, err)
	created.Options[0].Votes = 100

	polls, err := repo.List(ctx)
	require.NoError(t, err)
	require.Zero(t, polls[0].Options[0].Votes)
}
