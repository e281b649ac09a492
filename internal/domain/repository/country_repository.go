package repository

import (
	"context"

	"geoatlas/internal/domain/entity"
)

// CountryRepository provides owner-scoped access to countries. Every read
// and write carries the caller's user id; rows owned by someone else behave
// as if they do not exist.
type CountryRepository interface {
	List(ctx context.Context, ownerID string) ([]*entity.Country, error)
	GetByCode(ctx context.Context, ownerID, countryCode string) (*entity.Country, error)
	Create(ctx context.Context, c *entity.Country) error
	// CreateBatch inserts all countries in a single transaction.
	CreateBatch(ctx context.Context, cs []*entity.Country) error
	Update(ctx context.Context, c *entity.Country) error
	Delete(ctx context.Context, ownerID, countryCode string) error

	CountryCodeTaken(ctx context.Context, code, excludeID string) (bool, error)
	PhoneCodeTaken(ctx context.Context, code, excludeID string) (bool, error)
}
