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

type CountryRepository struct {
	pool *pgxpool.Pool
}

func NewCountryRepository(pool *pgxpool.Pool) *CountryRepository {
	return &CountryRepository{pool: pool}
}

const countryColumns = `id, name, country_code, curr_symbol, phone_code, my_user, created_at, updated_at`

func scanCountry(row pgx.Row) (*entity.Country, error) {
	c := &entity.Country{}
	err := row.Scan(&c.ID, &c.Name, &c.CountryCode, &c.CurrSymbol, &c.PhoneCode,
		&c.OwnerID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *CountryRepository) List(ctx context.Context, ownerID string) ([]*entity.Country, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+countryColumns+`
		FROM countries
		WHERE my_user = $1
		ORDER BY created_at
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.Country
	for rows.Next() {
		c, err := scanCountry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CountryRepository) GetByCode(ctx context.Context, ownerID, countryCode string) (*entity.Country, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+countryColumns+`
		FROM countries
		WHERE my_user = $1 AND country_code = $2
	`, ownerID, countryCode)
	return scanCountry(row)
}

func insertCountry(ctx context.Context, q querier, c *entity.Country) error {
	row := q.QueryRow(ctx, `
		INSERT INTO countries (id, name, country_code, curr_symbol, phone_code, my_user)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`, c.ID, c.Name, c.CountryCode, c.CurrSymbol, c.PhoneCode, c.OwnerID)
	return mapWriteError(row.Scan(&c.CreatedAt, &c.UpdatedAt))
}

func (r *CountryRepository) Create(ctx context.Context, c *entity.Country) error {
	return insertCountry(ctx, r.pool, c)
}

// CreateBatch inserts every country in one transaction; a failure on any
// row leaves nothing behind.
func (r *CountryRepository) CreateBatch(ctx context.Context, cs []*entity.Country) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, c := range cs {
		if err := insertCountry(ctx, tx, c); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *CountryRepository) Update(ctx context.Context, c *entity.Country) error {
	c.UpdatedAt = time.Now()
	res, err := r.pool.Exec(ctx, `
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
	return nil
}

func (r *CountryRepository) Delete(ctx context.Context, ownerID, countryCode string) error {
	// states and cities go with it via ON DELETE CASCADE
	res, err := r.pool.Exec(ctx, `
		DELETE FROM countries WHERE my_user = $1 AND country_code = $2
	`, ownerID, countryCode)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *CountryRepository) CountryCodeTaken(ctx context.Context, code, excludeID string) (bool, error) {
	var taken bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM countries WHERE country_code = $1 AND id <> $2)
	`, code, excludeID).Scan(&taken)
	return taken, err
}

func (r *CountryRepository) PhoneCodeTaken(ctx context.Context, code, excludeID string) (bool, error) {
	var taken bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM countries WHERE phone_code = $1 AND id <> $2)
	`, code, excludeID).Scan(&taken)
	return taken, err
}

var _ repository.CountryRepository = (*CountryRepository)(nil)
