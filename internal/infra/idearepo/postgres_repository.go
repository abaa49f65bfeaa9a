package idearepo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/ecosense/internal/domain/idea"
)

// PostgresRepository stores ideas in the ideas table.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Seed inserts ideas when the table is empty.
func (r *PostgresRepository) Seed(ctx context.Context, ideas []idea.Idea) error {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM ideas`).Scan(&count); err != nil {
		return fmt.Errorf("count ideas: %w", err)
	}
	if count > 0 {
		return nil
	}
	for _, i := range ideas {
		if _, err := r.Create(ctx, i); err != nil {
			return err
		}
	}
	return nil
}

// List returns ideas newest first.
func (r *PostgresRepository) List(ctx context.Context) ([]idea.Idea, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, author, content, created_at, likes, comments
		FROM ideas
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []idea.Idea
	for rows.Next() {
		var i idea.Idea
		if err := rows.Scan(&i.ID, &i.Author, &i.Content, &i.CreatedAt, &i.Likes, &i.Comments); err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

// Create inserts an idea.
func (r *PostgresRepository) Create(ctx context.Context, i idea.Idea) (idea.Idea, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO ideas (author, content, created_at, likes, comments)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, i.Author, i.Content, i.CreatedAt, i.Likes, i.Comments).Scan(&i.ID)
	if err != nil {
		return idea.Idea{}, fmt.Errorf("insert idea: %w", err)
	}
	return i, nil
}

var _ idea.Repository = (*PostgresRepository)(nil)
