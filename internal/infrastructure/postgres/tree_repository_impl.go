package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"geoatlas/internal/domain/entity"
	"geoatlas/internal/domain/repository"
)

// CountryTreeRepository writes whole country aggregates inside a single
// transaction and reads them back fully expanded.
type CountryTreeRepository struct {
	pool *pgxpool.Pool
}

func NewCountryTreeRepository(pool *pgxpool.Pool) *CountryTreeRepository {
	return &CountryTreeRepository{pool: pool}
}

func (r *CountryTreeRepository) ListTrees(ctx context.Context, ownerID string) ([]*entity.CountryTree, error) {
	countries := NewCountryRepository(r.pool)
	cs, err := countries.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	out := make([]*entity.CountryTree, 0, len(cs))
	for _, c := range cs {
		states, err := r.loadSubtree(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, &entity.CountryTree{Country: *c, States: states})
	}
	return out, nil
}

func (r *CountryTreeRepository) GetTree(ctx context.Context, ownerID, countryCode string) (*entity.CountryTree, error) {
	countries := NewCountryRepository(r.pool)
	c, err := countries.GetByCode(ctx, ownerID, countryCode)
	if err != nil {
		return nil, err
	}
	states, err := r.loadSubtree(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	return &entity.CountryTree{Country: *c, States: states}, nil
}

func (r *CountryTreeRepository) loadSubtree(ctx context.Context, countryID string) ([]*entity.StateTree, error) {
	srepo := NewStateRepository(r.pool)
	ss, err := srepo.ListByCountry(ctx, countryID)
	if err != nil {
		return nil, err
	}

	cities := NewCityRepository(r.pool)
	out := make([]*entity.StateTree, 0, len(ss))
	for _, s := range ss {
		cs, err := cities.ListByState(ctx, s.ID, repository.CityFilter{})
		if err != nil {
			return nil, err
		}
		out = append(out, &entity.StateTree{State: *s, Cities: cs})
	}
	return out, nil
}

// CreateTree inserts the country first, then each state, then each state's
// cities. Any error rolls the whole aggregate back.
func (r *CountryTreeRepository) CreateTree(ctx context.Context, t *entity.CountryTree) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := insertCountry(ctx, tx, &t.Country); err != nil {
		return err
	}
	if err := insertSubtree(ctx, tx, t.States); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// ReplaceTree applies scalar country changes and, when states is non-nil,
// drops the existing subtree (cascade removes its cities) and recreates the
// given one. A nil states slice means the payload omitted states entirely:
// the existing subtree stays.
func (r *CountryTreeRepository) ReplaceTree(ctx context.Context, c *entity.Country, states []*entity.StateTree) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	c.UpdatedAt = time.Now()
	res, err := tx.Exec(ctx, `
		UPDATE countries
		SET name = $1, country_code = $2, curr_symbol = $3, phone_code = $4, updated_at = $5
		WHERE id = $6
	`, c.Name, c.CountryCode, c.CurrSymbol, c.PhoneCode, c.UpdatedAt, c.ID)
	if err != nil {
		return mapWriteError(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	if states != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM states WHERE country_id = $1`, c.ID); err != nil {
			return err
		}
		if err := insertSubtree(ctx, tx, states); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func insertSubtree(ctx context.Context, q querier, states []*entity.StateTree) error {
	for _, st := range states {
		if err := insertState(ctx, q, &st.State); err != nil {
			return err
		}
		for _, city := range st.Cities {
			city.StateID = st.ID
			if err := insertCity(ctx, q, city); err != nil {
				return err
			}
		}
	}
	return nil
}

var _ repository.CountryTreeRepository = (*CountryTreeRepository)(nil)
