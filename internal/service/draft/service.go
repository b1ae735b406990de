// Package draft implements the single-slot staging area for actions not
// yet committed to an event's log.
package draft

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/opencivil/registry-backend/internal/domain"
)

type draftRepo interface {
	GetByEventID(ctx context.Context, eventID uuid.UUID) (*domain.Draft, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Draft, error)
	Save(ctx context.Context, d *domain.Draft) error
}

type eventRepo interface {
	GetByID(ctx context.Context, eventID uuid.UUID) (*domain.Event, error)
}

type gcEnqueuer interface {
	Enqueue(ctx context.Context, refs []domain.FileReference) error
}

type fileChecker interface {
	Exists(ctx context.Context, path string) (bool, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service implements the draft business logic.
type Service struct {
	log    *slog.Logger
	drafts draftRepo
	events eventRepo
	gc     gcEnqueuer
	files  fileChecker
	tx     txManager

	now func() time.Time
}

// NewService creates a new draft service.
func NewService(
	logger *slog.Logger,
	drafts draftRepo,
	events eventRepo,
	gc gcEnqueuer,
	files fileChecker,
	tx txManager,
) *Service {
	return &Service{
		log:    logger.With("service", "draft"),
		drafts: drafts,
		events: events,
		gc:     gc,
		files:  files,
		tx:     tx,
		now:    func() time.Time { return time.Now().UTC() },
	}
}
