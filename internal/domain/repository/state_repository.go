package repository

import (
	"context"

	"geoatlas/internal/domain/entity"
)

// StateRepository scopes states by their parent country id; the caller
// resolves the country through CountryRepository first, which enforces
// ownership.
type StateRepository interface {
	ListByCountry(ctx context.Context, countryID string) ([]*entity.State, error)
	GetByCode(ctx context.Context, countryID, stateCode string) (*entity.State, error)
	Create(ctx context.Context, s *entity.State) error
	// CreateBatch inserts all states in a single transaction.
	CreateBatch(ctx context.Context, ss []*entity.State) error
	Update(ctx context.Context, s *entity.State) error
	Delete(ctx context.Context, id string) error

	StateCodeTaken(ctx context.Context, code, excludeID string) (bool, error)
	GSTCodeTaken(ctx context.Context, code, excludeID string) (bool, error)
	NameTakenInCountry(ctx context.Context, name, countryID, excludeID string) (bool, error)

	// Tree-path variants: rows held by countryID are about to be replaced
	// inside the same transaction and must not count as conflicts.
	StateCodeHeldOutsideCountry(ctx context.Context, code, countryID string) (bool, error)
	GSTCodeHeldOutsideCountry(ctx context.Context, code, countryID string) (bool, error)
}
