// Package draft implements the draft repository using PostgreSQL.
// Each event has at most one draft slot; saving a new draft replaces the
// previous one wholesale.
package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/opencivil/registry-backend/internal/adapter/postgres"
	"github.com/opencivil/registry-backend/internal/domain"
)

// Repo provides draft persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new draft repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const selectDraftSQL = `
SELECT event_id, action_type, transaction_id, declaration, annotation, created_by, created_at, updated_at
FROM drafts
WHERE event_id = $1`

// GetByEventID returns the draft occupying the event's slot.
// Returns domain.ErrNotFound when the slot is empty.
func (r *Repo) GetByEventID(ctx context.Context, eventID uuid.UUID) (*domain.Draft, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	d, err := scanDraft(q.QueryRow(ctx, selectDraftSQL, eventID))
	if err != nil {
		return nil, mapError(err, "draft", eventID)
	}

	return d, nil
}

const listDraftsByUserSQL = `
SELECT event_id, action_type, transaction_id, declaration, annotation, created_by, created_at, updated_at
FROM drafts
WHERE created_by = $1
ORDER BY updated_at DESC`

// ListByUser returns all drafts authored by the given user, newest first.
func (r *Repo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Draft, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, listDraftsByUserSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}
	defer rows.Close()

	var drafts []*domain.Draft
	for rows.Next() {
		d, err := scanDraft(rows)
		if err != nil {
			return nil, fmt.Errorf("scan draft: %w", err)
		}
		drafts = append(drafts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}

	return drafts, nil
}

const upsertDraftSQL = `
INSERT INTO drafts (event_id, action_type, transaction_id, declaration, annotation, created_by, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
ON CONFLICT (event_id) DO UPDATE SET
    action_type    = EXCLUDED.action_type,
    transaction_id = EXCLUDED.transaction_id,
    declaration    = EXCLUDED.declaration,
    annotation     = EXCLUDED.annotation,
    created_by     = EXCLUDED.created_by,
    updated_at     = EXCLUDED.updated_at`

// Save writes the draft into the event's slot, replacing any previous
// draft entirely.
func (r *Repo) Save(ctx context.Context, d *domain.Draft) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	decl, err := json.Marshal(d.Declaration)
	if err != nil {
		return fmt.Errorf("encode declaration: %w", err)
	}
	var annotation []byte
	if d.Annotation != nil {
		if annotation, err = json.Marshal(d.Annotation); err != nil {
			return fmt.Errorf("encode annotation: %w", err)
		}
	}

	_, err = q.Exec(ctx, upsertDraftSQL,
		d.EventID, string(d.Type), d.TransactionID, decl, annotation, d.CreatedBy, d.UpdatedAt,
	)
	if err != nil {
		return mapError(err, "draft", d.EventID)
	}

	return nil
}

const deleteDraftSQL = `DELETE FROM drafts WHERE event_id = $1`

// DeleteByEventID clears the event's draft slot. Idempotent: deleting an
// empty slot is not an error.
func (r *Repo) DeleteByEventID(ctx context.Context, eventID uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := q.Exec(ctx, deleteDraftSQL, eventID); err != nil {
		return mapError(err, "draft", eventID)
	}

	return nil
}

func scanDraft(row pgx.Row) (*domain.Draft, error) {
	var (
		d          domain.Draft
		actionType string
		declRaw    []byte
		annRaw     []byte
	)
	err := row.Scan(
		&d.EventID, &actionType, &d.TransactionID, &declRaw, &annRaw,
		&d.CreatedBy, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	d.Type = domain.ActionType(actionType)

	if err := json.Unmarshal(declRaw, &d.Declaration); err != nil {
		return nil, fmt.Errorf("decode declaration: %w", err)
	}
	if len(annRaw) > 0 {
		if err := json.Unmarshal(annRaw, &d.Annotation); err != nil {
			return nil, fmt.Errorf("decode annotation: %w", err)
		}
	}

	return &d, nil
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
