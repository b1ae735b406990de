package event

import (
	"github.com/opencivil/registry-backend/internal/domain"
)

// State is the reduction of an event's accepted actions: the primary
// status plus any sticky flags. It is recomputed on demand and never
// stored.
type State struct {
	Status domain.EventStatus
	Flags  []domain.Flag
}

// HasFlag reports whether the state carries f.
func (s State) HasFlag(f domain.Flag) bool {
	for _, have := range s.Flags {
		if have == f {
			return true
		}
	}
	return false
}

// ReduceState folds the accepted-action list into (status, flags).
// Primary actions move the status; MARK_DUPLICATE / DISMISS_DUPLICATE and
// REQUEST_CORRECTION / APPROVE_CORRECTION / REJECT_CORRECTION toggle flags.
// READ, ASSIGN and UNASSIGN never change the state.
func ReduceState(actions []domain.Action) State {
	st := State{Status: domain.StatusCreated}
	for _, a := range actions {
		if a.Status != domain.ActionStatusAccepted {
			continue
		}
		switch a.Type {
		case domain.ActionCreate:
			st.Status = domain.StatusCreated
		case domain.ActionNotify:
			st.Status = domain.StatusNotified
		case domain.ActionDeclare:
			st.Status = domain.StatusDeclared
		case domain.ActionValidate:
			st.Status = domain.StatusValidated
		case domain.ActionRegister:
			st.Status = domain.StatusRegistered
		case domain.ActionPrintCertificate:
			st.Status = domain.StatusCertified
		case domain.ActionReject:
			st.Status = domain.StatusRejected
		case domain.ActionArchive:
			st.Status = domain.StatusArchived
		case domain.ActionMarkDuplicate:
			st.Flags = addFlag(st.Flags, domain.FlagDuplicate)
		case domain.ActionDismissDuplicate:
			st.Flags = removeFlag(st.Flags, domain.FlagDuplicate)
		case domain.ActionRequestCorrection:
			st.Flags = addFlag(st.Flags, domain.FlagCorrectionRequested)
		case domain.ActionApproveCorrection, domain.ActionRejectCorrection:
			st.Flags = removeFlag(st.Flags, domain.FlagCorrectionRequested)
		}
	}
	return st
}

// transitions is the static table of workflow actions permitted per status.
// READ is prepended to every allowed set by AllowedActions; ASSIGN and
// UNASSIGN are governed by the assignment rules, not by this table.
var transitions = map[domain.EventStatus][]domain.ActionType{
	domain.StatusCreated: {
		domain.ActionDeclare, domain.ActionNotify, domain.ActionDelete,
	},
	domain.StatusNotified: {
		domain.ActionDeclare, domain.ActionValidate, domain.ActionReject, domain.ActionArchive,
	},
	domain.StatusDeclared: {
		domain.ActionValidate, domain.ActionRegister, domain.ActionReject,
		domain.ActionArchive, domain.ActionMarkDuplicate,
	},
	domain.StatusValidated: {
		domain.ActionRegister, domain.ActionReject,
		domain.ActionArchive, domain.ActionMarkDuplicate,
	},
	domain.StatusRegistered: {
		domain.ActionPrintCertificate, domain.ActionRequestCorrection,
	},
	domain.StatusCertified: {
		domain.ActionPrintCertificate, domain.ActionRequestCorrection,
	},
	domain.StatusRejected: {
		domain.ActionDeclare, domain.ActionArchive,
	},
	domain.StatusArchived: {},
}

// Flag overrides: while a flag is raised, it narrows the allowed set to
// the actions that resolve it (plus the escape hatches).
var flagTransitions = map[domain.Flag][]domain.ActionType{
	domain.FlagDuplicate: {
		domain.ActionDismissDuplicate, domain.ActionReject, domain.ActionArchive,
	},
	domain.FlagCorrectionRequested: {
		domain.ActionApproveCorrection, domain.ActionRejectCorrection,
	},
}

// AllowedActions returns the ordered set of action types that may be
// requested next. READ is always first and always allowed.
func AllowedActions(st State) []domain.ActionType {
	allowed := []domain.ActionType{domain.ActionRead}
	if st.HasFlag(domain.FlagCorrectionRequested) {
		return append(allowed, flagTransitions[domain.FlagCorrectionRequested]...)
	}
	if st.HasFlag(domain.FlagDuplicate) {
		return append(allowed, flagTransitions[domain.FlagDuplicate]...)
	}
	return append(allowed, transitions[st.Status]...)
}

// AssertAllowed returns a TransitionError when action may not be requested
// in the current state. ASSIGN and UNASSIGN are always permitted here;
// the assignment rules decide their outcome.
func AssertAllowed(st State, action domain.ActionType) error {
	if action == domain.ActionAssign || action == domain.ActionUnassign {
		return nil
	}
	allowed := AllowedActions(st)
	for _, a := range allowed {
		if a == action {
			return nil
		}
	}
	return domain.NewTransitionError(action, st.Status, st.Flags, allowed)
}

func addFlag(flags []domain.Flag, f domain.Flag) []domain.Flag {
	for _, have := range flags {
		if have == f {
			return flags
		}
	}
	return append(flags, f)
}

func removeFlag(flags []domain.Flag, f domain.Flag) []domain.Flag {
	out := flags[:0]
	for _, have := range flags {
		if have != f {
			out = append(out, have)
		}
	}
	return out
}
