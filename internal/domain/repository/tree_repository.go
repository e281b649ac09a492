package repository

import (
	"context"

	"geoatlas/internal/domain/entity"
)

// CountryTreeRepository reads and writes whole country aggregates. Both
// write operations run inside a single transaction: nothing partial may
// remain visible after a failure.
type CountryTreeRepository interface {
	ListTrees(ctx context.Context, ownerID string) ([]*entity.CountryTree, error)
	GetTree(ctx context.Context, ownerID, countryCode string) (*entity.CountryTree, error)
	// CreateTree inserts the country, then its states, then their cities.
	CreateTree(ctx context.Context, t *entity.CountryTree) error
	// ReplaceTree updates the country's scalar fields. When states is
	// non-nil it deletes every existing state of the country (cascading to
	// cities) and recreates the given subtree; a nil states slice leaves
	// the existing subtree untouched.
	ReplaceTree(ctx context.Context, c *entity.Country, states []*entity.StateTree) error
}
