package event

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/opencivil/registry-backend/internal/domain"
	"github.com/opencivil/registry-backend/pkg/ctxutil"
)

// ApproveCorrection accepts a pending correction request, merging its
// declaration diff into the event's projected snapshot.
func (s *Service) ApproveCorrection(ctx context.Context, input CorrectionDecisionInput) (*domain.Event, error) {
	return s.decideCorrection(ctx, input, domain.ActionApproveCorrection)
}

// RejectCorrection dismisses a pending correction request, discarding its
// declaration diff.
func (s *Service) RejectCorrection(ctx context.Context, input CorrectionDecisionInput) (*domain.Event, error) {
	return s.decideCorrection(ctx, input, domain.ActionRejectCorrection)
}

func (s *Service) decideCorrection(ctx context.Context, input CorrectionDecisionInput, decision domain.ActionType) (*domain.Event, error) {
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

		if !e.IsAssignedTo(identity.UserID) {
			return domain.ErrNotAssigned
		}

		st := ReduceState(e.Actions)
		if err := AssertAllowed(st, decision); err != nil {
			return err
		}

		if err := checkCorrectionRequest(e, input.RequestID); err != nil {
			return err
		}

		cfg, err := s.configs.GetConfiguration(txCtx, e.Type)
		if err != nil {
			return fmt.Errorf("load event configuration: %w", err)
		}

		if err := s.checkScopes(identity, cfg, decision); err != nil {
			return err
		}

		// The diff is re-validated against the current projection, not the
		// state at request time: the form may have changed since, and a
		// stale diff must not overwrite fields it can no longer describe.
		if decision == domain.ActionApproveCorrection {
			req := e.FindAction(input.RequestID)
			merged := Project(e, cfg, s.now()).Declaration.Merge(req.Declaration)
			if err := domain.ValidateDeclaration(cfg, merged, s.now(), true); err != nil {
				return err
			}
		}

		requestID := input.RequestID
		now := s.now()
		action := domain.Action{
			ID:            uuid.New(),
			EventID:       e.ID,
			Type:          decision,
			Status:        domain.ActionStatusAccepted,
			TransactionID: input.TransactionID,
			Declaration:   domain.Declaration{},
			RequestID:     &requestID,
			CreatedBy:     identity.UserID,
			CreatedAt:     now,
		}
		if err := s.events.AppendAction(txCtx, &action); err != nil {
			return fmt.Errorf("append %s: %w", decision, err)
		}
		e.Actions = append(e.Actions, action)
		e.UpdatedAt = now

		if !input.KeepAssignment {
			if err := s.events.SetAssignment(txCtx, e.ID, nil); err != nil {
				return fmt.Errorf("release assignment: %w", err)
			}
			e.AssignedTo = nil
		}

		result = e
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.log.InfoContext(ctx, "correction decided",
		"event_id", input.EventID, "decision", decision,
		"request_id", input.RequestID, "user_id", identity.UserID)

	return result, nil
}

// checkCorrectionRequest confirms the referenced action is an accepted
// REQUEST_CORRECTION that no earlier decision has already settled.
func checkCorrectionRequest(e *domain.Event, requestID uuid.UUID) error {
	req := e.FindAction(requestID)
	if req == nil || req.Type != domain.ActionRequestCorrection || req.Status != domain.ActionStatusAccepted {
		return domain.NewValidationError("requestId", "no pending correction request with this id")
	}
	for _, a := range e.AcceptedActions() {
		if a.RequestID == nil || *a.RequestID != requestID {
			continue
		}
		if a.Type == domain.ActionApproveCorrection || a.Type == domain.ActionRejectCorrection {
			return domain.NewValidationError("requestId", "correction request already decided")
		}
	}
	return nil
}
