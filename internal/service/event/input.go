package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/opencivil/registry-backend/internal/domain"
)

// CreateInput creates a new event shell.
type CreateInput struct {
	TransactionID uuid.UUID
	Type          string
}

// Validate checks structural correctness of the input.
func (in CreateInput) Validate() error {
	var errs []domain.FieldError
	if in.TransactionID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "transactionId", Message: "required"})
	}
	if in.Type == "" {
		errs = append(errs, domain.FieldError{Field: "type", Message: "required"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// RequestActionInput requests a workflow action against an event.
type RequestActionInput struct {
	EventID       uuid.UUID
	TransactionID uuid.UUID
	ActionType    domain.ActionType
	Declaration   domain.Declaration
	Annotation    map[string]any

	// KeepAssignment retains the caller's assignment after the action is
	// accepted instead of the default release.
	KeepAssignment bool
}

// Validate checks structural correctness of the input.
func (in RequestActionInput) Validate() error {
	var errs []domain.FieldError
	if in.EventID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "eventId", Message: "required"})
	}
	if in.TransactionID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "transactionId", Message: "required"})
	}
	switch {
	case in.ActionType == "":
		errs = append(errs, domain.FieldError{Field: "actionType", Message: "required"})
	case !domain.IsValidActionType(string(in.ActionType)):
		errs = append(errs, domain.FieldError{Field: "actionType", Message: "unknown action type"})
	case in.ActionType == domain.ActionCreate,
		in.ActionType == domain.ActionAssign,
		in.ActionType == domain.ActionUnassign,
		in.ActionType == domain.ActionApproveCorrection,
		in.ActionType == domain.ActionRejectCorrection:
		errs = append(errs, domain.FieldError{Field: "actionType", Message: "not requestable through this operation"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// AssignInput assigns an event to a user.
type AssignInput struct {
	EventID       uuid.UUID
	TransactionID uuid.UUID
	AssignedTo    uuid.UUID
}

// Validate checks structural correctness of the input.
func (in AssignInput) Validate() error {
	var errs []domain.FieldError
	if in.EventID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "eventId", Message: "required"})
	}
	if in.TransactionID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "transactionId", Message: "required"})
	}
	if in.AssignedTo == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "assignedTo", Message: "required"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// UnassignInput releases an event's assignment.
type UnassignInput struct {
	EventID       uuid.UUID
	TransactionID uuid.UUID
}

// Validate checks structural correctness of the input.
func (in UnassignInput) Validate() error {
	var errs []domain.FieldError
	if in.EventID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "eventId", Message: "required"})
	}
	if in.TransactionID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "transactionId", Message: "required"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// CorrectionDecisionInput approves or rejects a pending correction request.
type CorrectionDecisionInput struct {
	EventID       uuid.UUID
	TransactionID uuid.UUID
	RequestID     uuid.UUID

	KeepAssignment bool
}

// Validate checks structural correctness of the input.
func (in CorrectionDecisionInput) Validate() error {
	var errs []domain.FieldError
	if in.EventID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "eventId", Message: "required"})
	}
	if in.TransactionID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "transactionId", Message: "required"})
	}
	if in.RequestID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "requestId", Message: "required"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// ListInput narrows the event listing.
type ListInput struct {
	EventType    string
	CreatedBy    uuid.UUID
	AssignedTo   uuid.UUID
	TrackingID   string
	UpdatedSince time.Time
	Limit        int
	Offset       int
}
