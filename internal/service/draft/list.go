package draft

import (
	"context"

	"github.com/google/uuid"

	"github.com/opencivil/registry-backend/internal/domain"
	"github.com/opencivil/registry-backend/pkg/ctxutil"
)

// List returns the caller's drafts, most recently updated first.
func (s *Service) List(ctx context.Context) ([]*domain.Draft, error) {
	identity, ok := ctxutil.IdentityFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return s.drafts.ListByUser(ctx, identity.UserID)
}

// Get returns the draft staged for the given event.
func (s *Service) Get(ctx context.Context, eventID uuid.UUID) (*domain.Draft, error) {
	if _, ok := ctxutil.IdentityFromCtx(ctx); !ok {
		return nil, domain.ErrUnauthorized
	}
	if eventID == uuid.Nil {
		return nil, domain.NewValidationError("eventId", "required")
	}
	return s.drafts.GetByEventID(ctx, eventID)
}
