// Package cleanup drains the attachment garbage-collection queue: files no
// longer referenced by any draft or event are deleted from the document
// store in scheduled batches.
package cleanup

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/opencivil/registry-backend/internal/adapter/postgres/gcqueue"
	"github.com/opencivil/registry-backend/internal/config"
	"github.com/opencivil/registry-backend/internal/metrics"
)

type queue interface {
	ClaimBatch(ctx context.Context, limit int) ([]gcqueue.Item, error)
	MarkDone(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, cause string, maxAttempts int) error
	ResetStuck(ctx context.Context, olderThan time.Duration) (int, error)
	CountPending(ctx context.Context) (int, error)
}

type fileDeleter interface {
	Delete(ctx context.Context, path string) error
}

// Worker processes queued attachment deletions.
type Worker struct {
	log     *slog.Logger
	queue   queue
	files   fileDeleter
	metrics *metrics.Metrics
	cfg     config.CleanupConfig
}

// NewWorker creates a cleanup worker. metrics may be nil.
func NewWorker(
	logger *slog.Logger,
	q queue,
	files fileDeleter,
	m *metrics.Metrics,
	cfg config.CleanupConfig,
) *Worker {
	return &Worker{
		log:     logger.With("service", "cleanup"),
		queue:   q,
		files:   files,
		metrics: m,
		cfg:     cfg,
	}
}

// Schedule registers the worker on a cron scheduler using the configured
// spec. The scheduler is returned unstarted.
func (w *Worker) Schedule(ctx context.Context) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(w.cfg.Schedule, func() {
		if err := w.RunOnce(ctx); err != nil {
			w.log.ErrorContext(ctx, "cleanup run failed", "error", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("schedule cleanup %q: %w", w.cfg.Schedule, err)
	}
	return c, nil
}

// RunOnce performs one full drain: stuck items are returned to the queue,
// then pending items are claimed and processed batch by batch until the
// queue is empty. Individual failures never abort the run.
func (w *Worker) RunOnce(ctx context.Context) error {
	reset, err := w.queue.ResetStuck(ctx, w.cfg.StuckAfter)
	if err != nil {
		return fmt.Errorf("reset stuck items: %w", err)
	}
	if reset > 0 {
		w.log.WarnContext(ctx, "stuck cleanup items returned to queue", "count", reset)
	}

	var done, failed int
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		items, err := w.queue.ClaimBatch(ctx, w.cfg.BatchSize)
		if err != nil {
			return fmt.Errorf("claim batch: %w", err)
		}
		if len(items) == 0 {
			break
		}

		for _, item := range items {
			if err := w.processItem(ctx, item); err != nil {
				failed++
			} else {
				done++
			}
		}
	}

	if pending, err := w.queue.CountPending(ctx); err == nil {
		w.metrics.SetCleanupPending(pending)
	}

	if done > 0 || failed > 0 {
		w.log.InfoContext(ctx, "cleanup run finished", "deleted", done, "failed", failed)
	}

	return nil
}

func (w *Worker) processItem(ctx context.Context, item gcqueue.Item) error {
	if err := w.files.Delete(ctx, item.Path); err != nil {
		w.log.WarnContext(ctx, "attachment delete failed",
			"path", item.Path, "attempts", item.Attempts, "error", err)
		if markErr := w.queue.MarkFailed(ctx, item.ID, err.Error(), w.cfg.MaxAttempts); markErr != nil {
			w.log.ErrorContext(ctx, "mark failed", "id", item.ID, "error", markErr)
		}
		if item.Attempts >= w.cfg.MaxAttempts {
			w.metrics.IncrementCleanup("failed")
		} else {
			w.metrics.IncrementCleanup("retry")
		}
		return err
	}

	if err := w.queue.MarkDone(ctx, item.ID); err != nil {
		w.log.ErrorContext(ctx, "mark done", "id", item.ID, "error", err)
		return err
	}
	w.metrics.IncrementCleanup("done")
	return nil
}
