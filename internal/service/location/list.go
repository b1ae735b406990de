package location

import (
	"context"

	"github.com/google/uuid"

	"github.com/opencivil/registry-backend/internal/domain"
	"github.com/opencivil/registry-backend/pkg/ctxutil"
)

// List returns every seeded location in seed order.
func (s *Service) List(ctx context.Context) ([]domain.Location, error) {
	if _, ok := ctxutil.IdentityFromCtx(ctx); !ok {
		return nil, domain.ErrUnauthorized
	}
	return s.locations.List(ctx)
}

// Get returns a single location.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Location, error) {
	if _, ok := ctxutil.IdentityFromCtx(ctx); !ok {
		return nil, domain.ErrUnauthorized
	}
	if id == uuid.Nil {
		return nil, domain.NewValidationError("id", "required")
	}
	return s.locations.GetByID(ctx, id)
}

// ListAdminAreas returns the denormalized administrative-area lookup.
func (s *Service) ListAdminAreas(ctx context.Context) ([]domain.AdministrativeArea, error) {
	if _, ok := ctxutil.IdentityFromCtx(ctx); !ok {
		return nil, domain.ErrUnauthorized
	}
	return s.locations.ListAdminAreas(ctx)
}
