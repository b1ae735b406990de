package event

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/opencivil/registry-backend/internal/domain"
	"github.com/opencivil/registry-backend/pkg/ctxutil"
)

// Create opens a new event of the given type and assigns it to its
// creator. Retrying with a seen transaction id returns the original event
// without creating another.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Event, error) {
	identity, ok := ctxutil.IdentityFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.configs.GetConfiguration(ctx, input.Type); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewValidationError("type", "unknown event type")
		}
		return nil, fmt.Errorf("load event configuration: %w", err)
	}

	// Idempotent replay: a retried create returns the stored event even if
	// its state has since moved on.
	existing, err := s.events.GetByTransactionID(ctx, input.TransactionID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("check transaction id: %w", err)
	}

	now := s.now()
	userID := identity.UserID
	event := &domain.Event{
		ID:            uuid.New(),
		Type:          input.Type,
		TransactionID: input.TransactionID,
		AssignedTo:    &userID,
		CreatedBy:     userID,
		CreatedAt:     now,
		UpdatedAt:     now,
		Actions: []domain.Action{{
			ID:            uuid.New(),
			Type:          domain.ActionCreate,
			Status:        domain.ActionStatusAccepted,
			TransactionID: input.TransactionID,
			Declaration:   domain.Declaration{},
			CreatedBy:     userID,
			CreatedAt:     now,
		}},
	}
	event.Actions[0].EventID = event.ID

	txErr := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.events.Create(txCtx, event); err != nil {
			return fmt.Errorf("create event: %w", err)
		}
		if err := s.events.SetAssignment(txCtx, event.ID, &userID); err != nil {
			return fmt.Errorf("assign creator: %w", err)
		}
		return nil
	})
	if txErr != nil {
		// A concurrent retry may have won the insert; serve its event.
		if errors.Is(txErr, domain.ErrConflict) {
			if existing, getErr := s.events.GetByTransactionID(ctx, input.TransactionID); getErr == nil {
				return existing, nil
			}
		}
		return nil, txErr
	}

	s.log.InfoContext(ctx, "event created",
		"event_id", event.ID, "event_type", event.Type, "user_id", userID)

	return event, nil
}
