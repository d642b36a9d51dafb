package domain

import "context"

// UserRepository is the record store keyed by UserID.
// Implementations return ErrNotFound from FindByID when the record is absent;
// DeleteByID on a missing record is not an error.
type UserRepository interface {
	FindAllOrderByScoreDesc(ctx context.Context) ([]*User, error)
	FindByID(ctx context.Context, userID string) (*User, error)
	ExistsByID(ctx context.Context, userID string) (bool, error)
	Save(ctx context.Context, u *User) error // upsert
	DeleteByID(ctx context.Context, userID string) error
}
