package auth

import "context"

// Repository abstracts user persistence. Create returns ErrUsernameExists on a duplicate.
type Repository interface {
	Create(ctx context.Context, username, passwordHash string) (User, error)
	GetByUsername(ctx context.Context, username string) (User, bool, error)
	GetByID(ctx context.Context, id int64) (User, bool, error)
}
