package place

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/onnwee/places/internal/tracing"
)

const placesTable = "places"

// Postgres error codes inspected by the repository.
const (
	pqUniqueViolation = "23505"
	pqInvalidTextRepr = "22P02"
)

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new PostgresRepository.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const placeColumns = `id, nome, descricao, latitude, longitude, imagem`

// Save inserts p and returns the stored row.
func (r *PostgresRepository) Save(ctx context.Context, p *Place) (saved *Place, err error) {
	ctx, endSpan := tracing.StartDBSpan(ctx, placesTable, tracing.DBOperationInsert)
	defer func() { endSpan(err) }()

	query := `
		INSERT INTO places (id, nome, descricao, latitude, longitude, imagem)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + placeColumns

	row := r.db.QueryRowContext(ctx, query,
		p.ID().String(),
		p.Name(),
		p.Description(),
		p.Latitude(),
		p.Longitude(),
		p.Image().String(),
	)

	saved, err = scanPlace(row)
	if err != nil {
		if pqCode(err) == pqUniqueViolation {
			return nil, fmt.Errorf("save place %s: %w", p.ID(), ErrAlreadyExists)
		}
		return nil, fmt.Errorf("failed to save place: %w", err)
	}
	return saved, nil
}

// FindByID returns the place with the given id, or (nil, nil) when no row
// matches. Ids that are not valid UUIDs cannot match any row.
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (found *Place, err error) {
	ctx, endSpan := tracing.StartDBSpan(ctx, placesTable, tracing.DBOperationQuery)
	defer func() { endSpan(err) }()

	query := `SELECT ` + placeColumns + ` FROM places WHERE id = $1`

	found, err = scanPlace(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) || pqCode(err) == pqInvalidTextRepr {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find place: %w", err)
	}
	return found, nil
}

// FindAll returns every place ordered by creation time.
func (r *PostgresRepository) FindAll(ctx context.Context) (places []*Place, err error) {
	ctx, endSpan := tracing.StartDBSpan(ctx, placesTable, tracing.DBOperationQuery)
	defer func() { endSpan(err) }()

	query := `SELECT ` + placeColumns + ` FROM places ORDER BY created_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list places: %w", err)
	}
	defer rows.Close()

	places = []*Place{}
	for rows.Next() {
		p, scanErr := scanPlace(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan place: %w", scanErr)
		}
		places = append(places, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating places: %w", err)
	}
	return places, nil
}

// Update overwrites the mutable columns of the row stored under id.
func (r *PostgresRepository) Update(ctx context.Context, id string, p *Place) (updated *Place, err error) {
	ctx, endSpan := tracing.StartDBSpan(ctx, placesTable, tracing.DBOperationUpdate)
	defer func() { endSpan(err) }()

	query := `
		UPDATE places
		SET nome = $2, descricao = $3, latitude = $4, longitude = $5, imagem = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + placeColumns

	row := r.db.QueryRowContext(ctx, query,
		id,
		p.Name(),
		p.Description(),
		p.Latitude(),
		p.Longitude(),
		p.Image().String(),
	)

	updated, err = scanPlace(row)
	if errors.Is(err, sql.ErrNoRows) || pqCode(err) == pqInvalidTextRepr {
		return nil, fmt.Errorf("update place %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update place: %w", err)
	}
	return updated, nil
}

// Delete removes the row stored under id.
func (r *PostgresRepository) Delete(ctx context.Context, id string) (err error) {
	ctx, endSpan := tracing.StartDBSpan(ctx, placesTable, tracing.DBOperationDelete)
	defer func() { endSpan(err) }()

	res, err := r.db.ExecContext(ctx, `DELETE FROM places WHERE id = $1`, id)
	if pqCode(err) == pqInvalidTextRepr {
		return fmt.Errorf("delete place %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to delete place: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("delete place %s: %w", id, ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlace(row rowScanner) (*Place, error) {
	var (
		id    string
		props Props
	)
	if err := row.Scan(&id, &props.Name, &props.Description, &props.Latitude, &props.Longitude, &props.Image); err != nil {
		return nil, err
	}

	p, err := Reconstitute(id, props).Unwrap()
	if err != nil {
		return nil, fmt.Errorf("stored place %s is invalid: %w", id, err)
	}
	return p, nil
}

func pqCode(err error) pq.ErrorCode {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code
	}
	return ""
}
