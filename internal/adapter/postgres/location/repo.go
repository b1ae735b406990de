// Package location implements the location repository using PostgreSQL.
// Seeding is additive: a seed batch inserts new rows and updates existing
// ones, and never deletes rows missing from the batch.
package location

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/opencivil/registry-backend/internal/adapter/postgres"
	"github.com/opencivil/registry-backend/internal/domain"
)

// Repo provides location persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new location repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const upsertLocationSQL = `
INSERT INTO locations (id, parent_id, name, location_type, valid_until)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id) DO UPDATE SET
    parent_id     = EXCLUDED.parent_id,
    name          = EXCLUDED.name,
    location_type = EXCLUDED.location_type,
    valid_until   = EXCLUDED.valid_until`

const upsertAdminAreaSQL = `
INSERT INTO admin_areas (id, parent_id, name)
VALUES ($1, $2, $3)
ON CONFLICT (id) DO UPDATE SET
    parent_id = EXCLUDED.parent_id,
    name      = EXCLUDED.name`

// UpsertBatch writes the seed batch in input order so parents land before
// their children. ADMIN_STRUCTURE rows are mirrored into the admin_areas
// lookup table. Existing rows absent from the batch are left untouched.
func (r *Repo) UpsertBatch(ctx context.Context, locations []domain.Location) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	for i := range locations {
		loc := &locations[i]
		_, err := q.Exec(ctx, upsertLocationSQL,
			loc.ID, loc.ParentID, loc.Name, string(loc.LocationType), loc.ValidUntil,
		)
		if err != nil {
			return mapError(err, "location", loc.ID)
		}

		if loc.LocationType == domain.LocationTypeAdminStructure {
			if _, err := q.Exec(ctx, upsertAdminAreaSQL, loc.ID, loc.ParentID, loc.Name); err != nil {
				return mapError(err, "admin_area", loc.ID)
			}
		}
	}

	return nil
}

const selectLocationSQL = `
SELECT id, parent_id, name, location_type, valid_until
FROM locations
WHERE id = $1`

// GetByID returns a single location or domain.ErrNotFound.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Location, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var (
		loc     domain.Location
		locType string
	)
	err := q.QueryRow(ctx, selectLocationSQL, id).Scan(
		&loc.ID, &loc.ParentID, &loc.Name, &locType, &loc.ValidUntil,
	)
	if err != nil {
		return nil, mapError(err, "location", id)
	}
	loc.LocationType = domain.LocationType(locType)

	return &loc, nil
}

const listLocationsSQL = `
SELECT id, parent_id, name, location_type, valid_until
FROM locations
ORDER BY seq`

// List returns every location in seed order.
func (r *Repo) List(ctx context.Context) ([]domain.Location, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, listLocationsSQL)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()

	var locations []domain.Location
	for rows.Next() {
		var (
			loc     domain.Location
			locType string
		)
		err := rows.Scan(&loc.ID, &loc.ParentID, &loc.Name, &locType, &loc.ValidUntil)
		if err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		loc.LocationType = domain.LocationType(locType)
		locations = append(locations, loc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}

	return locations, nil
}

const listAdminAreasSQL = `
SELECT id, parent_id, name
FROM admin_areas
ORDER BY seq`

// ListAdminAreas returns the denormalized administrative-area lookup rows.
func (r *Repo) ListAdminAreas(ctx context.Context) ([]domain.AdministrativeArea, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, listAdminAreasSQL)
	if err != nil {
		return nil, fmt.Errorf("list admin_areas: %w", err)
	}
	defer rows.Close()

	var areas []domain.AdministrativeArea
	for rows.Next() {
		var a domain.AdministrativeArea
		if err := rows.Scan(&a.ID, &a.ParentID, &a.Name); err != nil {
			return nil, fmt.Errorf("scan admin_area: %w", err)
		}
		areas = append(areas, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list admin_areas: %w", err)
	}

	return areas, nil
}

// mapError converts pgx/pgconn errors into domain errors.
func mapError(err error, entity string, id uuid.UUID) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s %s: %w", entity, id, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrConflict)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
		case "23514": // check_violation
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrValidation)
		}
	}

	return fmt.Errorf("%s %s: %w", entity, id, err)
}
