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

type StateRepository struct {
	pool *pgxpool.Pool
}

func NewStateRepository(pool *pgxpool.Pool) *StateRepository {
	return &StateRepository{pool: pool}
}

const stateColumns = `id, name, state_code, gst_code, country_id, created_at, updated_at`

func scanState(row pgx.Row) (*entity.State, error) {
	s := &entity.State{}
	err := row.Scan(&s.ID, &s.Name, &s.StateCode, &s.GSTCode, &s.CountryID,
		&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *StateRepository) ListByCountry(ctx context.Context, countryID string) ([]*entity.State, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+stateColumns+`
		FROM states
		WHERE country_id = $1
		ORDER BY created_at
	`, countryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.State
	for rows.Next() {
		s, err := scanState(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *StateRepository) GetByCode(ctx context.Context, countryID, stateCode string) (*entity.State, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+stateColumns+`
		FROM states
		WHERE country_id = $1 AND state_code = $2
	`, countryID, stateCode)
	return scanState(row)
}

func insertState(ctx context.Context, q querier, s *entity.State) error {
	row := q.QueryRow(ctx, `
		INSERT INTO states (id, name, state_code, gst_code, country_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`, s.ID, s.Name, s.StateCode, s.GSTCode, s.CountryID)
	return mapWriteError(row.Scan(&s.CreatedAt, &s.UpdatedAt))
}

func (r *StateRepository) Create(ctx context.Context, s *entity.State) error {
	return insertState(ctx, r.pool, s)
}

func (r *StateRepository) CreateBatch(ctx context.Context, ss []*entity.State) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, s := range ss {
		if err := insertState(ctx, tx, s); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *StateRepository) Update(ctx context.Context, s *entity.State) error {
	s.UpdatedAt = time.Now()
	res, err := r.pool.Exec(ctx, `
		UPDATE states
		SET name = $1, state_code = $2, gst_code = $3, updated_at = $4
		WHERE id = $5
	`, s.Name, s.StateCode, s.GSTCode, s.UpdatedAt, s.ID)
	if err != nil {
		return mapWriteError(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *StateRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM states WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *StateRepository) StateCodeTaken(ctx context.Context, code, excludeID string) (bool, error) {
	var taken bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM states WHERE state_code = $1 AND id <> $2)
	`, code, excludeID).Scan(&taken)
	return taken, err
}

func (r *StateRepository) GSTCodeTaken(ctx context.Context, code, excludeID string) (bool, error) {
	var taken bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM states WHERE gst_code = $1 AND id <> $2)
	`, code, excludeID).Scan(&taken)
	return taken, err
}

func (r *StateRepository) NameTakenInCountry(ctx context.Context, name, countryID, excludeID string) (bool, error) {
	var taken bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM states WHERE name = $1 AND country_id = $2 AND id <> $3)
	`, name, countryID, excludeID).Scan(&taken)
	return taken, err
}

func (r *StateRepository) StateCodeHeldOutsideCountry(ctx context.Context, code, countryID string) (bool, error) {
	var taken bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM states WHERE state_code = $1 AND country_id <> $2)
	`, code, countryID).Scan(&taken)
	return taken, err
}

func (r *StateRepository) GSTCodeHeldOutsideCountry(ctx context.Context, code, countryID string) (bool, error) {
	var taken bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM states WHERE gst_code = $1 AND country_id <> $2)
	`, code, countryID).Scan(&taken)
	return taken, err
}

var _ repository.StateRepository = (*StateRepository)(nil)
