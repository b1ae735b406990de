// Package event implements the registration workflow: the action log, the
// legality rules, assignment, and the projected event state.
package event

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/opencivil/registry-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type eventRepo interface {
	GetByID(ctx context.Context, eventID uuid.UUID) (*domain.Event, error)
	GetByTransactionID(ctx context.Context, txID uuid.UUID) (*domain.Event, error)
	LockForAppend(ctx context.Context, eventID uuid.UUID) (*domain.Event, error)
	List(ctx context.Context, filter domain.EventFilter) ([]*domain.Event, int, error)
	Create(ctx context.Context, event *domain.Event) error
	AppendAction(ctx context.Context, action *domain.Action) error
	SetAssignment(ctx context.Context, eventID uuid.UUID, assignedTo *uuid.UUID) error
	SetTrackingID(ctx context.Context, eventID uuid.UUID, trackingID string) error
	Delete(ctx context.Context, eventID uuid.UUID) error
}

type draftRepo interface {
	GetByEventID(ctx context.Context, eventID uuid.UUID) (*domain.Draft, error)
	DeleteByEventID(ctx context.Context, eventID uuid.UUID) error
}

type gcEnqueuer interface {
	Enqueue(ctx context.Context, refs []domain.FileReference) error
}

type configProvider interface {
	GetConfiguration(ctx context.Context, eventType string) (*domain.EventConfiguration, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the event workflow business logic.
type Service struct {
	log     *slog.Logger
	events  eventRepo
	drafts  draftRepo
	gc      gcEnqueuer
	configs configProvider
	tx      txManager

	now           func() time.Time
	newTrackingID func() string
}

// NewService creates a new event service.
func NewService(
	logger *slog.Logger,
	events eventRepo,
	drafts draftRepo,
	gc gcEnqueuer,
	configs configProvider,
	tx txManager,
) *Service {
	return &Service{
		log:           logger.With("service", "event"),
		events:        events,
		drafts:        drafts,
		gc:            gc,
		configs:       configs,
		tx:            tx,
		now:           func() time.Time { return time.Now().UTC() },
		newTrackingID: NewTrackingID,
	}
}
