package event

import (
	"time"

	"github.com/opencivil/registry-backend/internal/domain"
)

// Project folds an event's accepted actions into its current state: the
// canonical declaration snapshot plus the computed status and flags.
//
// REQUEST_CORRECTION declarations stay out of the snapshot until an
// APPROVE_CORRECTION referencing them is accepted, at which point the
// requested diff applies at the approval's position in the log.
func Project(e *domain.Event, cfg *domain.EventConfiguration, now time.Time) *domain.EventState {
	decl := domain.Declaration{}

	for _, a := range e.AcceptedActions() {
		switch a.Type {
		case domain.ActionRequestCorrection:
			continue
		case domain.ActionApproveCorrection:
			if a.RequestID == nil {
				continue
			}
			if req := e.FindAction(*a.RequestID); req != nil {
				decl = decl.Merge(req.Declaration)
			}
		default:
			if len(a.Declaration) > 0 {
				decl = decl.Merge(a.Declaration)
			}
		}
	}

	if cfg != nil {
		pruneHidden(decl, cfg, now)
	}

	st := ReduceState(e.Actions)

	return &domain.EventState{
		ID:          e.ID,
		Type:        e.Type,
		Status:      st.Status,
		Flags:       st.Flags,
		AssignedTo:  e.AssignedTo,
		TrackingID:  e.TrackingID,
		Declaration: decl,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

// pruneHidden drops values of fields that are not visible under the merged
// snapshot, walking fields once in form order. Because visibility is
// re-evaluated against the snapshot being pruned, a chain of dependent
// conditionals deeper than the form order allows may need a later write to
// settle; single-level dependencies (the common case) always prune fully.
func pruneHidden(decl domain.Declaration, cfg *domain.EventConfiguration, now time.Time) {
	for _, field := range cfg.FieldsInOrder() {
		if _, ok := decl[field.ID]; !ok {
			continue
		}
		if !domain.IsFieldVisible(field, decl, now) {
			delete(decl, field.ID)
		}
	}
}
