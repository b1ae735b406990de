package location

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/opencivil/registry-backend/internal/domain"
	"github.com/opencivil/registry-backend/pkg/ctxutil"
)

// SetInput is a batch of locations to seed.
type SetInput struct {
	Locations []domain.Location
}

// Validate checks structural correctness of the batch. An empty batch is a
// conflict, not a field error: seeding nothing is never a meaningful write.
func (in SetInput) Validate() error {
	if len(in.Locations) == 0 {
		return fmt.Errorf("%w: at least one location required", domain.ErrConflict)
	}
	var errs []domain.FieldError
	seen := make(map[uuid.UUID]struct{}, len(in.Locations))
	for i, loc := range in.Locations {
		prefix := fmt.Sprintf("locations[%d]", i)
		if loc.ID == uuid.Nil {
			errs = append(errs, domain.FieldError{Field: prefix + ".id", Message: "required"})
		}
		if loc.Name == "" {
			errs = append(errs, domain.FieldError{Field: prefix + ".name", Message: "required"})
		}
		switch loc.LocationType {
		case domain.LocationTypeAdminStructure, domain.LocationTypeFacility, domain.LocationTypeOffice:
		default:
			errs = append(errs, domain.FieldError{Field: prefix + ".locationType", Message: "unknown location type"})
		}
		if _, dup := seen[loc.ID]; dup {
			errs = append(errs, domain.FieldError{Field: prefix + ".id", Message: "duplicate id in batch"})
		}
		seen[loc.ID] = struct{}{}
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// Set seeds a batch of locations. Existing records are updated in place;
// records absent from the batch are left untouched. Requires the
// data-seeding scope.
func (s *Service) Set(ctx context.Context, input SetInput) error {
	identity, ok := ctxutil.IdentityFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}
	if !identity.HasScope(domain.ScopeDataSeeding) {
		return domain.ErrForbidden
	}

	if err := input.Validate(); err != nil {
		return err
	}

	txErr := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.locations.UpsertBatch(txCtx, input.Locations); err != nil {
			return fmt.Errorf("upsert locations: %w", err)
		}
		return nil
	})
	if txErr != nil {
		return txErr
	}

	s.log.InfoContext(ctx, "locations seeded",
		"count", len(input.Locations), "user_id", identity.UserID)

	return nil
}
