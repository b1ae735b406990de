// Package gcqueue implements the attachment garbage-collection queue on
// PostgreSQL. Orphaned attachment references are enqueued when a draft or
// event stops referencing them, and a background worker drains the queue.
package gcqueue

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/opencivil/registry-backend/internal/adapter/postgres"
	"github.com/opencivil/registry-backend/internal/domain"
)

// Item statuses.
const (
	StatusPending    = "PENDING"
	StatusProcessing = "PROCESSING"
	StatusDone       = "DONE"
	StatusFailed     = "FAILED"
)

// Item is one queued attachment deletion.
type Item struct {
	ID               int64
	Path             string
	OriginalFilename string
	Status           string
	Attempts         int
	ErrorMessage     *string
	RequestedAt      time.Time
	ProcessedAt      *time.Time
}

// Repo provides queue persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new queue repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const enqueueSQL = `
INSERT INTO attachment_gc_queue (path, original_filename, status, requested_at)
VALUES ($1, $2, 'PENDING', $3)`

// Enqueue adds file references to the queue for eventual deletion.
func (r *Repo) Enqueue(ctx context.Context, refs []domain.FileReference) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	now := time.Now().UTC()
	for _, ref := range refs {
		if _, err := q.Exec(ctx, enqueueSQL, ref.Path, ref.OriginalFilename, now); err != nil {
			return fmt.Errorf("enqueue attachment %s: %w", ref.Path, err)
		}
	}

	return nil
}

const claimBatchSQL = `
UPDATE attachment_gc_queue
SET status = 'PROCESSING', attempts = attempts + 1
WHERE id IN (
    SELECT id FROM attachment_gc_queue
    WHERE status = 'PENDING'
    ORDER BY requested_at
    LIMIT $1
    FOR UPDATE SKIP LOCKED
)
RETURNING id, path, original_filename, status, attempts, error_message, requested_at, processed_at`

// ClaimBatch atomically claims up to limit pending items for processing.
// Concurrent workers never claim the same item.
func (r *Repo) ClaimBatch(ctx context.Context, limit int) ([]Item, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, claimBatchSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("claim gc batch: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		err := rows.Scan(
			&it.ID, &it.Path, &it.OriginalFilename, &it.Status, &it.Attempts,
			&it.ErrorMessage, &it.RequestedAt, &it.ProcessedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan gc item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("claim gc batch: %w", err)
	}

	return items, nil
}

const markDoneSQL = `
UPDATE attachment_gc_queue
SET status = 'DONE', error_message = NULL, processed_at = $2
WHERE id = $1`

// MarkDone records a successful deletion.
func (r *Repo) MarkDone(ctx context.Context, id int64) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := q.Exec(ctx, markDoneSQL, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("mark gc item %d done: %w", id, err)
	}

	return nil
}

const markFailedSQL = `
UPDATE attachment_gc_queue
SET status = CASE WHEN attempts >= $3 THEN 'FAILED' ELSE 'PENDING' END,
    error_message = $2,
    processed_at  = $4
WHERE id = $1`

// MarkFailed records a failed attempt. The item returns to PENDING for a
// retry until maxAttempts is reached, after which it parks as FAILED.
func (r *Repo) MarkFailed(ctx context.Context, id int64, cause string, maxAttempts int) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := q.Exec(ctx, markFailedSQL, id, cause, maxAttempts, time.Now().UTC()); err != nil {
		return fmt.Errorf("mark gc item %d failed: %w", id, err)
	}

	return nil
}

const resetStuckSQL = `
UPDATE attachment_gc_queue
SET status = 'PENDING'
WHERE status = 'PROCESSING' AND requested_at < $1`

// ResetStuck returns PROCESSING items older than the cutoff to PENDING.
// Covers workers that died mid-batch. Returns the number of reset items.
func (r *Repo) ResetStuck(ctx context.Context, olderThan time.Duration) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	cutoff := time.Now().UTC().Add(-olderThan)
	tag, err := q.Exec(ctx, resetStuckSQL, cutoff)
	if err != nil {
		return 0, fmt.Errorf("reset stuck gc items: %w", err)
	}

	return int(tag.RowsAffected()), nil
}

const countPendingSQL = `
SELECT count(*) FROM attachment_gc_queue WHERE status = 'PENDING'`

// CountPending returns the queue depth, used for metrics.
func (r *Repo) CountPending(ctx context.Context) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var n int
	if err := q.QueryRow(ctx, countPendingSQL).Scan(&n); err != nil {
		return 0, fmt.Errorf("count pending gc items: %w", err)
	}

	return n, nil
}
