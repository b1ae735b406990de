package event

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/opencivil/registry-backend/internal/domain"
	"github.com/opencivil/registry-backend/pkg/ctxutil"
)

// Assign takes the event's assignment lock for a user. Assigning an event
// already held by someone else fails with a conflict; re-assigning to the
// current holder is a no-op.
func (s *Service) Assign(ctx context.Context, input AssignInput) (*domain.Event, error) {
	identity, ok := ctxutil.IdentityFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	var result *domain.Event
	txErr := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		e, err := s.events.LockForAppend(txCtx, input.EventID)
		if err != nil {
			return err
		}

		if e.FindActionByTransactionID(input.TransactionID) != nil {
			result = e
			return nil
		}

		if e.AssignedTo != nil && *e.AssignedTo != input.AssignedTo {
			return fmt.Errorf("%w: event is assigned to another user", domain.ErrConflict)
		}

		assignee := input.AssignedTo
		if err := s.appendAssignmentAction(txCtx, e, domain.ActionAssign, input.TransactionID, identity.UserID); err != nil {
			return err
		}
		if err := s.events.SetAssignment(txCtx, e.ID, &assignee); err != nil {
			return fmt.Errorf("set assignment: %w", err)
		}
		e.AssignedTo = &assignee

		result = e
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.log.InfoContext(ctx, "event assigned",
		"event_id", input.EventID, "assigned_to", input.AssignedTo, "user_id", identity.UserID)

	return result, nil
}

// Unassign releases the event's assignment lock. Releasing an event nobody
// holds is a no-op; an event held by someone else may not be released.
func (s *Service) Unassign(ctx context.Context, input UnassignInput) (*domain.Event, error) {
	identity, ok := ctxutil.IdentityFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	var result *domain.Event
	txErr := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		e, err := s.events.LockForAppend(txCtx, input.EventID)
		if err != nil {
			return err
		}

		if e.FindActionByTransactionID(input.TransactionID) != nil {
			result = e
			return nil
		}

		if e.AssignedTo == nil {
			result = e
			return nil
		}
		if !e.IsAssignedTo(identity.UserID) {
			return domain.ErrNotAssigned
		}

		if err := s.appendAssignmentAction(txCtx, e, domain.ActionUnassign, input.TransactionID, identity.UserID); err != nil {
			return err
		}
		if err := s.events.SetAssignment(txCtx, e.ID, nil); err != nil {
			return fmt.Errorf("release assignment: %w", err)
		}
		e.AssignedTo = nil

		result = e
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.log.InfoContext(ctx, "event unassigned",
		"event_id", input.EventID, "user_id", identity.UserID)

	return result, nil
}

func (s *Service) appendAssignmentAction(ctx context.Context, e *domain.Event, t domain.ActionType, txID, userID uuid.UUID) error {
	action := domain.Action{
		ID:            uuid.New(),
		EventID:       e.ID,
		Type:          t,
		Status:        domain.ActionStatusAccepted,
		TransactionID: txID,
		Declaration:   domain.Declaration{},
		CreatedBy:     userID,
		CreatedAt:     s.now(),
	}
	if err := s.events.AppendAction(ctx, &action); err != nil {
		return fmt.Errorf("append %s: %w", t, err)
	}
	e.Actions = append(e.Actions, action)
	return nil
}
