package event

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	postgres "github.com/opencivil/registry-backend/internal/adapter/postgres"
	"github.com/opencivil/registry-backend/internal/domain"
)

const defaultListLimit = 50

// List returns events matching the filter, newest first, with their action
// logs loaded, plus the total match count before pagination.
func (r *Repo) List(ctx context.Context, filter domain.EventFilter) ([]*domain.Event, int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	base := sq.Select().From("events").PlaceholderFormat(sq.Dollar)
	base = applyFilter(base, filter)

	countSQL, countArgs, err := base.Column("count(*)").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}

	var total int
	if err := q.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count events: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	listSQL, listArgs, err := applyFilter(
		sq.Select(
			"id", "event_type", "transaction_id", "tracking_id", "assigned_to",
			"created_by", "created_at", "updated_at",
		).From("events").PlaceholderFormat(sq.Dollar),
		filter,
	).
		OrderBy("updated_at DESC", "id").
		Limit(uint64(limit)).
		Offset(uint64(max(filter.Offset, 0))).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list query: %w", err)
	}

	rows, err := q.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []*domain.Event
	for rows.Next() {
		var e domain.Event
		err := rows.Scan(
			&e.ID, &e.Type, &e.TransactionID, &e.TrackingID, &e.AssignedTo,
			&e.CreatedBy, &e.CreatedAt, &e.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	rows.Close()

	for _, e := range events {
		actions, err := r.loadActions(ctx, q, e.ID)
		if err != nil {
			return nil, 0, err
		}
		e.Actions = actions
	}

	return events, total, nil
}

func applyFilter(b sq.SelectBuilder, filter domain.EventFilter) sq.SelectBuilder {
	if filter.EventType != "" {
		b = b.Where(sq.Eq{"event_type": filter.EventType})
	}
	if filter.CreatedBy != uuid.Nil {
		b = b.Where(sq.Eq{"created_by": filter.CreatedBy})
	}
	if filter.AssignedTo != uuid.Nil {
		b = b.Where(sq.Eq{"assigned_to": filter.AssignedTo})
	}
	if filter.TrackingID != "" {
		b = b.Where(sq.Eq{"tracking_id": filter.TrackingID})
	}
	if !filter.UpdatedSince.IsZero() {
		b = b.Where(sq.GtOrEq{"updated_at": filter.UpdatedSince})
	}
	return b
}
