package chatrepo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/ecosense/internal/domain/chat"
)

// PostgresRepository stores conversations in the chat_messages table.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// History returns the conversation oldest first.
func (r *PostgresRepository) History(ctx context.Context, userID int64) ([]chat.Message, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT role, content, token_count, created_at
		FROM chat_messages
		WHERE user_id = $1
		ORDER BY id
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []chat.Message
	for rows.Next() {
		var m chat.Message
		if err := rows.Scan(&m.Role, &m.Content, &m.TokenCount, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Append inserts messages and prunes rows beyond limit in one transaction.
func (r *PostgresRepository) Append(ctx context.Context, userID int64, messages []chat.Message, limit int) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin chat tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	batch := &pgx.Batch{}
	for _, m := range messages {
		batch.Queue(`
			INSERT INTO chat_messages (user_id, role, content, token_count, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`, userID, m.Role, m.Content, m.TokenCount, m.CreatedAt)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert chat messages: %w", err)
	}
	if limit > 0 {
		if _, err := tx.Exec(ctx, `
			DELETE FROM chat_messages
			WHERE user_id = $1 AND id NOT IN (
				SELECT id FROM chat_messages WHERE user_id = $1 ORDER BY id DESC LIMIT $2
			)
		`, userID, limit); err != nil {
			return fmt.Errorf("prune chat messages: %w", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit chat tx: %w", err)
	}
	return nil
}

var _ chat.Repository = (*PostgresRepository)(nil)
