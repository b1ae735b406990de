package event

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/opencivil/registry-backend/internal/domain"
	"github.com/opencivil/registry-backend/pkg/ctxutil"
)

// Get returns an event with its full action log.
func (s *Service) Get(ctx context.Context, eventID uuid.UUID) (*domain.Event, error) {
	if _, ok := ctxutil.IdentityFromCtx(ctx); !ok {
		return nil, domain.ErrUnauthorized
	}
	if eventID == uuid.Nil {
		return nil, domain.NewValidationError("eventId", "required")
	}
	return s.events.GetByID(ctx, eventID)
}

// GetState returns the event's projected state: the canonical declaration
// snapshot with hidden fields pruned, plus computed status and flags.
func (s *Service) GetState(ctx context.Context, eventID uuid.UUID) (*domain.EventState, error) {
	e, err := s.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}
	cfg, err := s.configs.GetConfiguration(ctx, e.Type)
	if err != nil {
		return nil, fmt.Errorf("load event configuration: %w", err)
	}
	return Project(e, cfg, s.now()), nil
}
