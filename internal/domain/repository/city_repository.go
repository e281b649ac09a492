package repository

import (
	"context"

	"geoatlas/internal/domain/entity"
)

// CityFilter narrows city listings by population. Bounds are inclusive and
// applied only when present.
type CityFilter struct {
	MinPopulation *int64
	MaxPopulation *int64
}

// CityRepository scopes cities by their parent state (or whole country for
// the country-wide listing).
type CityRepository interface {
	ListByState(ctx context.Context, stateID string, f CityFilter) ([]*entity.City, error)
	ListByCountry(ctx context.Context, countryID string, f CityFilter) ([]*entity.City, error)
	GetByCode(ctx context.Context, stateID, cityCode string) (*entity.City, error)
	Create(ctx context.Context, c *entity.City) error
	Update(ctx context.Context, c *entity.City) error
	Delete(ctx context.Context, id string) error

	CityCodeTaken(ctx context.Context, code, excludeID string) (bool, error)
	PhoneCodeTaken(ctx context.Context, code, excludeID string) (bool, error)
	NameTakenInState(ctx context.Context, name, stateID, excludeID string) (bool, error)

	// Tree-path variants, see StateRepository.
	CityCodeHeldOutsideCountry(ctx context.Context, code, countryID string) (bool, error)
	PhoneCodeHeldOutsideCountry(ctx context.Context, code, countryID string) (bool, error)
}
