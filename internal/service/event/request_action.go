package event

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/opencivil/registry-backend/internal/domain"
	"github.com/opencivil/registry-backend/pkg/ctxutil"
)

// actionsValidatingFull lists actions whose cumulative declaration
// snapshot must satisfy the full form, required fields included.
var actionsValidatingFull = map[domain.ActionType]bool{
	domain.ActionDeclare:  true,
	domain.ActionValidate: true,
	domain.ActionRegister: true,
}

// actionsValidatingPartial lists actions that carry an incomplete
// declaration on purpose: type checks apply, required-ness does not.
var actionsValidatingPartial = map[domain.ActionType]bool{
	domain.ActionNotify:            true,
	domain.ActionRequestCorrection: true,
}

// RequestAction appends a workflow action to the event's log after the
// assignment, legality, scope and declaration checks pass. Retrying with a
// seen (event, transaction) pair returns the stored outcome untouched.
func (s *Service) RequestAction(ctx context.Context, input RequestActionInput) (*domain.Event, error) {
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

		// Idempotent replay: the stored outcome wins, even if the action
		// would no longer be legal today.
		if e.FindActionByTransactionID(input.TransactionID) != nil {
			result = e
			return nil
		}

		if input.ActionType != domain.ActionRead && !e.IsAssignedTo(identity.UserID) {
			return domain.ErrNotAssigned
		}

		st := ReduceState(e.Actions)
		if err := AssertAllowed(st, input.ActionType); err != nil {
			return err
		}

		cfg, err := s.configs.GetConfiguration(txCtx, e.Type)
		if err != nil {
			return fmt.Errorf("load event configuration: %w", err)
		}

		if err := s.checkScopes(identity, cfg, input.ActionType); err != nil {
			return err
		}

		merged, err := s.checkDeclaration(e, cfg, input)
		if err != nil {
			return err
		}

		if input.ActionType == domain.ActionDelete {
			result = e
			return s.deleteEvent(txCtx, e)
		}

		now := s.now()
		action := domain.Action{
			ID:            uuid.New(),
			EventID:       e.ID,
			Type:          input.ActionType,
			Status:        domain.ActionStatusAccepted,
			TransactionID: input.TransactionID,
			Declaration:   input.Declaration,
			Annotation:    input.Annotation,
			CreatedBy:     identity.UserID,
			CreatedAt:     now,
		}
		if action.Declaration == nil {
			action.Declaration = domain.Declaration{}
		}

		if input.ActionType == domain.ActionRegister {
			identifiers, err := s.issueIdentifiers(txCtx, e)
			if err != nil {
				return err
			}
			action.Identifiers = identifiers
		}
		if input.ActionType == domain.ActionDeclare && e.TrackingID == nil {
			trackingID := s.newTrackingID()
			if err := s.events.SetTrackingID(txCtx, e.ID, trackingID); err != nil {
				return fmt.Errorf("set tracking id: %w", err)
			}
			e.TrackingID = &trackingID
		}

		if err := s.events.AppendAction(txCtx, &action); err != nil {
			return fmt.Errorf("append %s: %w", action.Type, err)
		}
		e.Actions = append(e.Actions, action)
		e.UpdatedAt = now

		if input.ActionType != domain.ActionRead {
			if err := s.settleAfterAccept(txCtx, e, merged); err != nil {
				return err
			}
			if !input.KeepAssignment {
				if err := s.events.SetAssignment(txCtx, e.ID, nil); err != nil {
					return fmt.Errorf("release assignment: %w", err)
				}
				e.AssignedTo = nil
			}
		}

		result = e
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.log.InfoContext(ctx, "action accepted",
		"event_id", input.EventID, "action", input.ActionType, "user_id", identity.UserID)

	return result, nil
}

// checkScopes enforces the per-action scope list from the event
// configuration. Actions without configuration are open to any
// authenticated caller.
func (s *Service) checkScopes(identity ctxutil.Identity, cfg *domain.EventConfiguration, t domain.ActionType) error {
	ac := cfg.ActionConfigFor(t)
	if ac == nil || len(ac.Scopes) == 0 {
		return nil
	}
	for _, scope := range ac.Scopes {
		if identity.HasScope(scope) {
			return nil
		}
	}
	return domain.ErrForbidden
}

// checkDeclaration validates the action's declaration against the form and
// returns the would-be cumulative snapshot.
func (s *Service) checkDeclaration(e *domain.Event, cfg *domain.EventConfiguration, input RequestActionInput) (domain.Declaration, error) {
	current := Project(e, cfg, s.now()).Declaration
	merged := current.Merge(input.Declaration)

	switch {
	case actionsValidatingFull[input.ActionType]:
		if err := domain.ValidateDeclaration(cfg, merged, s.now(), false); err != nil {
			return nil, err
		}
	case actionsValidatingPartial[input.ActionType]:
		if err := domain.ValidateDeclaration(cfg, merged, s.now(), true); err != nil {
			return nil, err
		}
	default:
		if len(input.Declaration) > 0 {
			return nil, domain.NewValidationError("declaration", "not allowed for this action")
		}
	}

	return merged, nil
}

// issueIdentifiers mints the tracking id (when the event never got one)
// and the registration number recorded on a REGISTER action.
func (s *Service) issueIdentifiers(ctx context.Context, e *domain.Event) (*domain.ActionIdentifiers, error) {
	trackingID := ""
	if e.TrackingID != nil {
		trackingID = *e.TrackingID
	} else {
		trackingID = s.newTrackingID()
		if err := s.events.SetTrackingID(ctx, e.ID, trackingID); err != nil {
			return nil, fmt.Errorf("set tracking id: %w", err)
		}
		e.TrackingID = &trackingID
	}

	return &domain.ActionIdentifiers{
		TrackingID:         trackingID,
		RegistrationNumber: newRegistrationNumber(s.now(), trackingID),
	}, nil
}

// settleAfterAccept clears the event's draft slot and garbage-collects
// attachments the accepted snapshot no longer references.
func (s *Service) settleAfterAccept(ctx context.Context, e *domain.Event, merged domain.Declaration) error {
	draft, err := s.drafts.GetByEventID(ctx, e.ID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load draft: %w", err)
	}

	if orphans := orphanedFiles(draft.Declaration, merged); len(orphans) > 0 {
		if err := s.gc.Enqueue(ctx, orphans); err != nil {
			return fmt.Errorf("enqueue orphaned attachments: %w", err)
		}
	}

	if err := s.drafts.DeleteByEventID(ctx, e.ID); err != nil {
		return fmt.Errorf("clear draft: %w", err)
	}

	return nil
}

// deleteEvent removes the event entirely, queueing every attachment its
// log or draft referenced for deletion.
func (s *Service) deleteEvent(ctx context.Context, e *domain.Event) error {
	refs := make([]domain.FileReference, 0)
	seen := make(map[string]struct{})
	collect := func(decl domain.Declaration) {
		for _, ref := range decl.FileReferences() {
			if _, ok := seen[ref.Path]; ok {
				continue
			}
			seen[ref.Path] = struct{}{}
			refs = append(refs, ref)
		}
	}

	for _, a := range e.Actions {
		collect(a.Declaration)
	}
	if draft, err := s.drafts.GetByEventID(ctx, e.ID); err == nil {
		collect(draft.Declaration)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("load draft: %w", err)
	}

	if len(refs) > 0 {
		if err := s.gc.Enqueue(ctx, refs); err != nil {
			return fmt.Errorf("enqueue attachments: %w", err)
		}
	}

	if err := s.events.Delete(ctx, e.ID); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}

	return nil
}

// orphanedFiles returns the file references present in old but absent
// from the kept snapshot.
func orphanedFiles(old, kept domain.Declaration) []domain.FileReference {
	keptPaths := make(map[string]struct{})
	for _, ref := range kept.FileReferences() {
		keptPaths[ref.Path] = struct{}{}
	}

	var orphans []domain.FileReference
	for _, ref := range old.FileReferences() {
		if _, ok := keptPaths[ref.Path]; !ok {
			orphans = append(orphans, ref)
		}
	}
	return orphans
}
