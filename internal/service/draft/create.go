package draft

import (
	"context"
	"errors"
	"fmt"

	"github.com/opencivil/registry-backend/internal/domain"
	"github.com/opencivil/registry-backend/internal/service/event"
	"github.com/opencivil/registry-backend/pkg/ctxutil"
)

// draftableTypes are the action types that may be staged. Engine-managed
// actions (CREATE, ASSIGN, READ, deletions, correction decisions) commit
// immediately and never sit in a draft.
var draftableTypes = map[domain.ActionType]bool{
	domain.ActionDeclare:           true,
	domain.ActionNotify:            true,
	domain.ActionValidate:          true,
	domain.ActionRegister:          true,
	domain.ActionRequestCorrection: true,
}

// Create stages a draft for the event, replacing any existing one
// wholesale. Attachments referenced only by the replaced draft are queued
// for deletion. Retrying with a seen transaction id returns the stored
// draft unchanged.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Draft, error) {
	identity, ok := ctxutil.IdentityFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}
	if !draftableTypes[input.Type] {
		return nil, domain.NewValidationError("type", "action type cannot be drafted")
	}

	var result *domain.Draft
	var retained []domain.FileReference
	txErr := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		e, err := s.events.GetByID(txCtx, input.EventID)
		if err != nil {
			return err
		}

		if !e.IsAssignedTo(identity.UserID) {
			return domain.ErrNotAssigned
		}

		// The staged action must be requestable right now; a draft for an
		// illegal action would be dead weight.
		if err := event.AssertAllowed(event.ReduceState(e.Actions), input.Type); err != nil {
			return err
		}

		existing, err := s.drafts.GetByEventID(txCtx, input.EventID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("load draft: %w", err)
		}

		if existing != nil && existing.TransactionID == input.TransactionID {
			result = existing
			return nil
		}

		now := s.now()
		draft := &domain.Draft{
			EventID:       input.EventID,
			Type:          input.Type,
			TransactionID: input.TransactionID,
			Declaration:   input.Declaration,
			Annotation:    input.Annotation,
			CreatedBy:     identity.UserID,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if draft.Declaration == nil {
			draft.Declaration = domain.Declaration{}
		}
		if existing != nil {
			draft.CreatedAt = existing.CreatedAt
		}

		if existing != nil {
			if orphans := orphanedFiles(e, existing, draft.Declaration); len(orphans) > 0 {
				if err := s.gc.Enqueue(txCtx, orphans); err != nil {
					return fmt.Errorf("enqueue orphaned attachments: %w", err)
				}
			}
			retained = draft.Declaration.FileReferences()
		}

		if err := s.drafts.Save(txCtx, draft); err != nil {
			return fmt.Errorf("save draft: %w", err)
		}

		result = draft
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.confirmAttachments(ctx, retained)

	s.log.InfoContext(ctx, "draft saved",
		"event_id", input.EventID, "action_type", input.Type, "user_id", identity.UserID)

	return result, nil
}

// confirmAttachments probes the document store for attachments the
// replacing draft still references. A missing or unreachable file never
// fails the draft write; it is logged for operational follow-up.
func (s *Service) confirmAttachments(ctx context.Context, refs []domain.FileReference) {
	for _, ref := range refs {
		exists, err := s.files.Exists(ctx, ref.Path)
		if err != nil {
			s.log.WarnContext(ctx, "attachment existence check failed",
				"path", ref.Path, "error", err)
			continue
		}
		if !exists {
			s.log.WarnContext(ctx, "draft references a missing attachment", "path", ref.Path)
		}
	}
}

// orphanedFiles returns attachments referenced by the replaced draft that
// neither the new declaration nor the event's committed log still use.
func orphanedFiles(e *domain.Event, old *domain.Draft, next domain.Declaration) []domain.FileReference {
	kept := make(map[string]struct{})
	for _, ref := range next.FileReferences() {
		kept[ref.Path] = struct{}{}
	}
	for _, a := range e.AcceptedActions() {
		for _, ref := range a.Declaration.FileReferences() {
			kept[ref.Path] = struct{}{}
		}
	}

	var orphans []domain.FileReference
	for _, ref := range old.Declaration.FileReferences() {
		if _, ok := kept[ref.Path]; !ok {
			orphans = append(orphans, ref)
		}
	}
	return orphans
}
