package pollrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/ecosense/internal/domain/poll"
)

const uniqueViolation = "23505"

// PostgresRepository stores polls in the polls, poll_options and poll_votes tables.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Seed inserts polls when the table is empty.
func (r *PostgresRepository) Seed(ctx context.Context, polls []poll.Poll) error {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM polls`).Scan(&count); err != nil {
		return fmt.Errorf("count polls: %w", err)
	}
	if count > 0 {
		return nil
	}
	for _, p := range polls {
		if _, err := r.Create(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// List returns every poll with its options, ordered by id.
func (r *PostgresRepository) List(ctx context.Context) ([]poll.Poll, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT p.id, p.question, p.expires_at, p.created_at, o.text, o.votes
		FROM polls p
		JOIN poll_options o ON o.poll_id = p.id
		ORDER BY p.id, o.position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []poll.Poll
	for rows.Next() {
		var (
			p   poll.Poll
			opt poll.Option
		)
		if err := rows.Scan(&p.ID, &p.Question, &p.ExpiresAt, &p.CreatedAt, &opt.Text, &opt.Votes); err != nil {
			return nil, err
		}
		if n := len(out); n > 0 && out[n-1].ID == p.ID {
			out[n-1].Options = append(out[n-1].Options, opt)
			continue
		}
		p.Options = []poll.Option{opt}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Create inserts a poll and its options in one transaction.
func (r *PostgresRepository) Create(ctx context.Context, p poll.Poll) (poll.Poll, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return poll.Poll{}, fmt.Errorf("begin poll tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := tx.QueryRow(ctx, `
		INSERT INTO polls (question, expires_at, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`, p.Question, p.ExpiresAt, p.CreatedAt).Scan(&p.ID); err != nil {
		return poll.Poll{}, fmt.Errorf("insert poll: %w", err)
	}
	batch := &pgx.Batch{}
	for i, o := range p.Options {
		batch.Queue(`
			INSERT INTO poll_options (poll_id, position, text, votes)
			VALUES ($1, $2, $3, $4)
		`, p.ID, i, o.Text, o.Votes)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return poll.Poll{}, fmt.Errorf("insert poll options: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return poll.Poll{}, fmt.Errorf("commit poll tx: %w", err)
	}
	return p.Clone(), nil
}

// Vote records the vote and increments the option in one transaction.
func (r *PostgresRepository) Vote(ctx context.Context, pollID int64, optionIndex int, userID *int64) (poll.Poll, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return poll.Poll{}, fmt.Errorf("begin vote tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var (
		exists  bool
		options int
	)
	if err := tx.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM polls WHERE id = $1),
		       (SELECT count(*) FROM poll_options WHERE poll_id = $1)
	`, pollID).Scan(&exists, &options); err != nil {
		return poll.Poll{}, err
	}
	if !exists {
		return poll.Poll{}, poll.ErrPollNotFound
	}
	if err := checkOption(optionIndex, options); err != nil {
		return poll.Poll{}, err
	}

	if userID != nil {
		_, err := tx.Exec(ctx, `
			INSERT INTO poll_votes (poll_id, user_id, option_index)
			VALUES ($1, $2, $3)
		`, pollID, *userID, optionIndex)
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return poll.Poll{}, poll.ErrAlreadyVoted
		}
		if err != nil {
			return poll.Poll{}, fmt.Errorf("insert vote: %w", err)
		}
	}

	tag, err := tx.Exec(ctx, `
		UPDATE poll_options SET votes = votes + 1
		WHERE poll_id = $1 AND position = $2
	`, pollID, optionIndex)
	if err != nil {
		return poll.Poll{}, fmt.Errorf("increment option: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return poll.Poll{}, poll.ErrInvalidOption
	}

	updated, err := loadPoll(ctx, tx, pollID)
	if err != nil {
		return poll.Poll{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return poll.Poll{}, fmt.Errorf("commit vote tx: %w", err)
	}
	return updated, nil
}

// VotesByUser returns the option index voted per poll.
func (r *PostgresRepository) VotesByUser(ctx context.Context, userID int64) (map[int64]int, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT poll_id, option_index FROM poll_votes WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[int64]int)
	for rows.Next() {
		var (
			pollID int64
			idx    int
		)
		if err := rows.Scan(&pollID, &idx); err != nil {
			return nil, err
		}
		out[pollID] = idx
	}
	return out, rows.Err()
}

func loadPoll(ctx context.Context, tx pgx.Tx, pollID int64) (poll.Poll, error) {
	var p poll.Poll
	if err := tx.QueryRow(ctx, `
		SELECT id, question, expires_at, created_at FROM polls WHERE id = $1
	`, pollID).Scan(&p.ID, &p.Question, &p.ExpiresAt, &p.CreatedAt); err != nil {
		return poll.Poll{}, err
	}
	rows, err := tx.Query(ctx, `
		SELECT text, votes FROM poll_options WHERE poll_id = $1 ORDER BY position
	`, pollID)
	if err != nil {
		return poll.Poll{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var o poll.Option
		if err := rows.Scan(&o.Text, &o.Votes); err != nil {
			return poll.Poll{}, err
		}
		p.Options = append(p.Options, o)
	}
	return p, rows.Err()
}

var _ poll.Repository = (*PostgresRepository)(nil)
