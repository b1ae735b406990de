package draft

import (
	"github.com/google/uuid"

	"github.com/opencivil/registry-backend/internal/domain"
)

// CreateInput stages (or wholesale-replaces) an event's draft.
type CreateInput struct {
	EventID       uuid.UUID
	TransactionID uuid.UUID
	Type          domain.ActionType
	Declaration   domain.Declaration
	Annotation    map[string]any
}

// Validate checks structural correctness of the input.
func (in CreateInput) Validate() error {
	var errs []domain.FieldError
	if in.EventID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "eventId", Message: "required"})
	}
	if in.TransactionID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "transactionId", Message: "required"})
	}
	switch {
	case in.Type == "":
		errs = append(errs, domain.FieldError{Field: "type", Message: "required"})
	case !domain.IsValidActionType(string(in.Type)):
		errs = append(errs, domain.FieldError{Field: "type", Message: "unknown action type"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
