// Package event implements the event repository using PostgreSQL.
// Events are a header row plus an append-only action log; rows in
// event_actions are never updated or deleted individually.
package event

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

// Repo provides event persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new event repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const selectEventSQL = `
SELECT id, event_type, transaction_id, tracking_id, assigned_to, created_by, created_at, updated_at
FROM events
WHERE id = $1`

const selectEventByTxSQL = `
SELECT id, event_type, transaction_id, tracking_id, assigned_to, created_by, created_at, updated_at
FROM events
WHERE transaction_id = $1`

const selectEventForUpdateSQL = selectEventSQL + `
FOR UPDATE`

const selectActionsSQL = `
SELECT id, event_id, action_type, status, transaction_id, declaration, annotation, identifiers, request_id, created_by, created_at
FROM event_actions
WHERE event_id = $1
ORDER BY seq`

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns an event with its full action log in append order.
// Returns domain.ErrNotFound if the event does not exist.
func (r *Repo) GetByID(ctx context.Context, eventID uuid.UUID) (*domain.Event, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)
	return r.getEvent(ctx, q, selectEventSQL, eventID)
}

// GetByTransactionID returns the event created with the given idempotency
// key, or domain.ErrNotFound.
func (r *Repo) GetByTransactionID(ctx context.Context, txID uuid.UUID) (*domain.Event, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)
	return r.getEvent(ctx, q, selectEventByTxSQL, txID)
}

// LockForAppend loads an event and takes a row lock on its header, so that
// a legality check made against the returned log cannot be invalidated by
// a concurrent append. Must be called inside a transaction.
func (r *Repo) LockForAppend(ctx context.Context, eventID uuid.UUID) (*domain.Event, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)
	return r.getEvent(ctx, q, selectEventForUpdateSQL, eventID)
}

func (r *Repo) getEvent(ctx context.Context, q postgres.Querier, query string, arg any) (*domain.Event, error) {
	id, _ := arg.(uuid.UUID)

	var e domain.Event
	err := q.QueryRow(ctx, query, arg).Scan(
		&e.ID, &e.Type, &e.TransactionID, &e.TrackingID, &e.AssignedTo,
		&e.CreatedBy, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, mapError(err, "event", id)
	}

	actions, err := r.loadActions(ctx, q, e.ID)
	if err != nil {
		return nil, err
	}
	e.Actions = actions

	return &e, nil
}

func (r *Repo) loadActions(ctx context.Context, q postgres.Querier, eventID uuid.UUID) ([]domain.Action, error) {
	rows, err := q.Query(ctx, selectActionsSQL, eventID)
	if err != nil {
		return nil, fmt.Errorf("list event_actions: %w", err)
	}
	defer rows.Close()

	var actions []domain.Action
	for rows.Next() {
		a, err := scanAction(rows)
		if err != nil {
			return nil, err
		}
		actions = append(actions, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list event_actions: %w", err)
	}

	return actions, nil
}

func scanAction(row pgx.Row) (domain.Action, error) {
	var (
		a           domain.Action
		declRaw     []byte
		annRaw      []byte
		identRaw    []byte
		actionType  string
		statusValue string
	)
	err := row.Scan(
		&a.ID, &a.EventID, &actionType, &statusValue, &a.TransactionID,
		&declRaw, &annRaw, &identRaw, &a.RequestID, &a.CreatedBy, &a.CreatedAt,
	)
	if err != nil {
		return domain.Action{}, fmt.Errorf("scan event_action: %w", err)
	}
	a.Type = domain.ActionType(actionType)
	a.Status = domain.ActionStatus(statusValue)

	if err := json.Unmarshal(declRaw, &a.Declaration); err != nil {
		return domain.Action{}, fmt.Errorf("decode declaration: %w", err)
	}
	if len(annRaw) > 0 {
		if err := json.Unmarshal(annRaw, &a.Annotation); err != nil {
			return domain.Action{}, fmt.Errorf("decode annotation: %w", err)
		}
	}
	if len(identRaw) > 0 {
		var ident domain.ActionIdentifiers
		if err := json.Unmarshal(identRaw, &ident); err != nil {
			return domain.Action{}, fmt.Errorf("decode identifiers: %w", err)
		}
		a.Identifiers = &ident
	}

	return a, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

const insertEventSQL = `
INSERT INTO events (id, event_type, transaction_id, created_by, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $5)`

// Create inserts the event header together with its actions (normally just
// the accepted CREATE action). Returns domain.ErrConflict if the
// idempotency key is already used by another event.
func (r *Repo) Create(ctx context.Context, event *domain.Event) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	_, err := q.Exec(ctx, insertEventSQL,
		event.ID, event.Type, event.TransactionID, event.CreatedBy, event.CreatedAt,
	)
	if err != nil {
		return mapError(err, "event", event.ID)
	}

	for i := range event.Actions {
		if err := r.insertAction(ctx, q, &event.Actions[i]); err != nil {
			return err
		}
	}

	return nil
}

const insertActionSQL = `
INSERT INTO event_actions (id, event_id, action_type, status, transaction_id, declaration, annotation, identifiers, request_id, created_by, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

const touchEventSQL = `
UPDATE events SET updated_at = $2 WHERE id = $1`

// AppendAction inserts a new action row and bumps the event's updated_at.
// Returns domain.ErrConflict when the (event, transaction) pair was already
// recorded.
func (r *Repo) AppendAction(ctx context.Context, action *domain.Action) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	if err := r.insertAction(ctx, q, action); err != nil {
		return err
	}

	if _, err := q.Exec(ctx, touchEventSQL, action.EventID, action.CreatedAt); err != nil {
		return mapError(err, "event", action.EventID)
	}

	return nil
}

func (r *Repo) insertAction(ctx context.Context, q postgres.Querier, action *domain.Action) error {
	decl, err := json.Marshal(action.Declaration)
	if err != nil {
		return fmt.Errorf("encode declaration: %w", err)
	}

	var annotation []byte
	if action.Annotation != nil {
		if annotation, err = json.Marshal(action.Annotation); err != nil {
			return fmt.Errorf("encode annotation: %w", err)
		}
	}

	var identifiers []byte
	if action.Identifiers != nil {
		if identifiers, err = json.Marshal(action.Identifiers); err != nil {
			return fmt.Errorf("encode identifiers: %w", err)
		}
	}

	_, err = q.Exec(ctx, insertActionSQL,
		action.ID, action.EventID, string(action.Type), string(action.Status),
		action.TransactionID, decl, annotation, identifiers, action.RequestID,
		action.CreatedBy, action.CreatedAt,
	)
	if err != nil {
		return mapError(err, "event_action", action.ID)
	}

	return nil
}

const setAssignmentSQL = `
UPDATE events SET assigned_to = $2, updated_at = now() WHERE id = $1`

// SetAssignment updates the derived assignment column on the header.
// assignedTo == nil releases the event.
func (r *Repo) SetAssignment(ctx context.Context, eventID uuid.UUID, assignedTo *uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, setAssignmentSQL, eventID, assignedTo)
	if err != nil {
		return mapError(err, "event", eventID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("event %s: %w", eventID, domain.ErrNotFound)
	}

	return nil
}

const setTrackingIDSQL = `
UPDATE events SET tracking_id = $2, updated_at = now() WHERE id = $1`

// SetTrackingID stores the server-issued tracking id on the header.
func (r *Repo) SetTrackingID(ctx context.Context, eventID uuid.UUID, trackingID string) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, setTrackingIDSQL, eventID, trackingID)
	if err != nil {
		return mapError(err, "event", eventID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("event %s: %w", eventID, domain.ErrNotFound)
	}

	return nil
}

const deleteEventSQL = `DELETE FROM events WHERE id = $1`

// Delete removes the event; the action log and draft cascade with it.
// Returns domain.ErrNotFound if the event does not exist.
func (r *Repo) Delete(ctx context.Context, eventID uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, deleteEventSQL, eventID)
	if err != nil {
		return mapError(err, "event", eventID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("event %s: %w", eventID, domain.ErrNotFound)
	}

	return nil
}

// ---------------------------------------------------------------------------
// Error mapping
// ---------------------------------------------------------------------------

// mapError converts pgx/pgconn errors into domain errors.
func mapError(err error, entity string, id uuid.UUID) error {
	if err == nil {
		return nil
	}

	// context errors pass through as-is
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s %s: %w", entity, id, err)
	}

	// pgx.ErrNoRows -> domain.ErrNotFound
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
	}

	// PgError codes
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

	// Everything else: wrap with context
	return fmt.Errorf("%s %s: %w", entity, id, err)
}
