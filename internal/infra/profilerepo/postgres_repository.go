package profilerepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/ecosense/internal/domain/profile"
)

// PostgresRepository persists profiles in the user_profiles table, one jsonb column per section.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Get fetches the profile of one user.
func (r *PostgresRepository) Get(ctx context.Context, userID int64) (profile.UserProfile, bool, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT user_id, health, lifestyle, sensitivities, interests, survey, updated_at
		FROM user_profiles
		WHERE user_id = $1
	`, userID)
	p, err := scanProfile(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return profile.UserProfile{}, false, nil
	}
	if err != nil {
		return profile.UserProfile{}, false, err
	}
	return p, true, nil
}

// Update locks the user's row for the duration of mutate and writes the result back.
func (r *PostgresRepository) Update(ctx context.Context, userID int64, mutate func(*profile.UserProfile) error) (profile.UserProfile, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return profile.UserProfile{}, fmt.Errorf("begin profile tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// The placeholder row gives first writers something to lock.
	if _, err := tx.Exec(ctx, `
		INSERT INTO user_profiles (user_id) VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING
	`, userID); err != nil {
		return profile.UserProfile{}, fmt.Errorf("ensure profile row: %w", err)
	}
	current, err := scanProfile(tx.QueryRow(ctx, `
		SELECT user_id, health, lifestyle, sensitivities, interests, survey, updated_at
		FROM user_profiles
		WHERE user_id = $1
		FOR UPDATE
	`, userID))
	if err != nil {
		return profile.UserProfile{}, fmt.Errorf("lock profile row: %w", err)
	}
	if err := mutate(&current); err != nil {
		return profile.UserProfile{}, err
	}

	health, err := encodeSection(current.Health)
	if err != nil {
		return profile.UserProfile{}, err
	}
	lifestyle, err := encodeSection(current.Lifestyle)
	if err != nil {
		return profile.UserProfile{}, err
	}
	sensitivities, err := encodeSection(current.Sensitivities)
	if err != nil {
		return profile.UserProfile{}, err
	}
	interests, err := encodeSection(current.Interests)
	if err != nil {
		return profile.UserProfile{}, err
	}
	survey, err := encodeSection(current.Survey)
	if err != nil {
		return profile.UserProfile{}, err
	}
	updated := current.UpdatedAt
	if updated.IsZero() {
		updated = time.Now().UTC()
	}
	if _, err := tx.Exec(ctx, `
		UPDATE user_profiles
		SET health = $2, lifestyle = $3, sensitivities = $4, interests = $5, survey = $6, updated_at = $7
		WHERE user_id = $1
	`, userID, health, lifestyle, sensitivities, interests, survey, updated); err != nil {
		return profile.UserProfile{}, fmt.Errorf("write profile row: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return profile.UserProfile{}, fmt.Errorf("commit profile tx: %w", err)
	}
	current.UpdatedAt = updated
	return current, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (profile.UserProfile, error) {
	var (
		p       profile.UserProfile
		updated time.Time
	)
	var health, lifestyle, sensitivities, interests, survey []byte
	if err := row.Scan(&p.UserID, &health, &lifestyle, &sensitivities, &interests, &survey, &updated); err != nil {
		return profile.UserProfile{}, err
	}
	var err error
	if p.Health, err = decodeSection[profile.HealthProfile](health); err != nil {
		return profile.UserProfile{}, err
	}
	if p.Lifestyle, err = decodeSection[profile.LifestyleHabits](lifestyle); err != nil {
		return profile.UserProfile{}, err
	}
	if p.Sensitivities, err = decodeSection[profile.EnvironmentalSensitivities](sensitivities); err != nil {
		return profile.UserProfile{}, err
	}
	if p.Interests, err = decodeSection[profile.Interests](interests); err != nil {
		return profile.UserProfile{}, err
	}
	if p.Survey, err = decodeSection[profile.Survey](survey); err != nil {
		return profile.UserProfile{}, err
	}
	p.UpdatedAt = updated.UTC()
	return p, nil
}

func encodeSection[T any](v *T) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode profile section: %w", err)
	}
	return data, nil
}

func decodeSection[T any](raw []byte) (*T, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("decode profile section: %w", err)
	}
	return &v, nil
}

var _ profile.Repository = (*PostgresRepository)(nil)
