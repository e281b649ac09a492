package repository

import (
	"context"

	"geoatlas/internal/domain/entity"
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// List returns up to limit users with email greater than afterEmail,
	// ordered by email. afterEmail == "" starts from the beginning.
	List(ctx context.Context, afterEmail string, limit int) ([]*entity.User, error)
	EmailTaken(ctx context.Context, email string) (bool, error)
	Delete(ctx context.Context, id string) error
}
