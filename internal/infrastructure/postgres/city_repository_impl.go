package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"geoatlas/internal/domain/entity"
	"geoatlas/internal/domain/repository"
)

type CityRepository struct {
	pool *pgxpool.Pool
}

func NewCityRepository(pool *pgxpool.Pool) *CityRepository {
	return &CityRepository{pool: pool}
}

const cityColumns = `id, name, city_code, phone_code, population, avg_age,
	num_of_adults_males, num_of_adults_females, state_id, created_at, updated_at`

func scanCity(row pgx.Row) (*entity.City, error) {
	c := &entity.City{}
	err := row.Scan(&c.ID, &c.Name, &c.CityCode, &c.PhoneCode, &c.Population, &c.AvgAge,
		&c.AdultMales, &c.AdultFemales, &c.StateID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func collectCities(rows pgx.Rows) ([]*entity.City, error) {
	defer rows.Close()
	var out []*entity.City
	for rows.Next() {
		c, err := scanCity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CityRepository) ListByState(ctx context.Context, stateID string, f repository.CityFilter) ([]*entity.City, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+cityColumns+`
		FROM cities
		WHERE state_id = $1
		  AND ($2::bigint IS NULL OR population >= $2)
		  AND ($3::bigint IS NULL OR population <= $3)
		ORDER BY created_at
	`, stateID, f.MinPopulation, f.MaxPopulation)
	if err != nil {
		return nil, err
	}
	return collectCities(rows)
}

func (r *CityRepository) ListByCountry(ctx context.Context, countryID string, f repository.CityFilter) ([]*entity.City, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT c.id, c.name, c.city_code, c.phone_code, c.population, c.avg_age,
			c.num_of_adults_males, c.num_of_adults_females, c.state_id, c.created_at, c.updated_at
		FROM cities c
		JOIN states s ON s.id = c.state_id
		WHERE s.country_id = $1
		  AND ($2::bigint IS NULL OR c.population >= $2)
		  AND ($3::bigint IS NULL OR c.population <= $3)
		ORDER BY c.created_at
	`, countryID, f.MinPopulation, f.MaxPopulation)
	if err != nil {
		return nil, err
	}
	return collectCities(rows)
}

func (r *CityRepository) GetByCode(ctx context.Context, stateID, cityCode string) (*entity.City, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+cityColumns+`
		FROM cities
		WHERE state_id = $1 AND city_code = $2
	`, stateID, cityCode)
	return scanCity(row)
}

func insertCity(ctx context.Context, q querier, c *entity.City) error {
	row := q.QueryRow(ctx, `
		INSERT INTO cities (id, name, city_code, phone_code, population, avg_age,
			num_of_adults_males, num_of_adults_females, state_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`, c.ID, c.Name, c.CityCode, c.PhoneCode, c.Population, c.AvgAge,
		c.AdultMales, c.AdultFemales, c.StateID)
	return mapWriteError(row.Scan(&c.CreatedAt, &c.UpdatedAt))
}

func (r *CityRepository) Create(ctx context.Context, c *entity.City) error {
	return insertCity(ctx, r.pool, c)
}

func (r *CityRepository) Update(ctx context.Context, c *entity.City) error {
	c.UpdatedAt = time.Now()
	res, err := r.pool.Exec(ctx, `
		UPDATE cities
		SET name = $1, city_code = $2, phone_code = $3, population = $4, avg_age = $5,
			num_of_adults_males = $6, num_of_adults_females = $7, updated_at = $8
		WHERE id = $9
	`, c.Name, c.CityCode, c.PhoneCode, c.Population, c.AvgAge,
		c.AdultMales, c.AdultFemales, c.UpdatedAt, c.ID)
	if err != nil {
		return mapWriteError(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *CityRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM cities WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *CityRepository) CityCodeTaken(ctx context.Context, code, excludeID string) (bool, error) {
	var taken bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM cities WHERE city_code = $1 AND id <> $2)
	`, code, excludeID).Scan(&taken)
	return taken, err
}

func (r *CityRepository) PhoneCodeTaken(ctx context.Context, code, excludeID string) (bool, error) {
	var taken bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM cities WHERE phone_code = $1 AND id <> $2)
	`, code, excludeID).Scan(&taken)
	return taken, err
}

func (r *CityRepository) NameTakenInState(ctx context.Context, name, stateID, excludeID string) (bool, error) {
	var taken bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM cities WHERE name = $1 AND state_id = $2 AND id <> $3)
	`, name, stateID, excludeID).Scan(&taken)
	return taken, err
}

func (r *CityRepository) CityCodeHeldOutsideCountry(ctx context.Context, code, countryID string) (bool, error) {
	var taken bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM cities c
			JOIN states s ON s.id = c.state_id
			WHERE c.city_code = $1 AND s.country_id <> $2
		)
	`, code, countryID).Scan(&taken)
	return taken, err
}

func (r *CityRepository) PhoneCodeHeldOutsideCountry(ctx context.Context, code, countryID string) (bool, error) {
	var taken bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM cities c
			JOIN states s ON s.id = c.state_id
			WHERE c.phone_code = $1 AND s.country_id <> $2
		)
	`, code, countryID).Scan(&taken)
	return taken, err
}

var _ repository.CityRepository = (*CityRepository)(nil)
