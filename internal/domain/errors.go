package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
)

// ErrNotAssigned is the forbidden error returned when a caller tries to
// mutate an event held by someone else (or by no one). The message is part
// of the API contract and is surfaced verbatim to clients.
var ErrNotAssigned = fmt.Errorf("You are not assigned to this event: %w", ErrForbidden)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s — %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}

// TransitionError reports an action that is not allowed in the event's
// current state. Its message enumerates the current status, the active
// flags, and the full allowed-action set; clients and tests rely on this
// exact shape, so handlers surface it verbatim.
type TransitionError struct {
	Action  ActionType
	Status  EventStatus
	Flags   []Flag
	Allowed []ActionType
}

func (e *TransitionError) Error() string {
	allowed := make([]string, len(e.Allowed))
	for i, a := range e.Allowed {
		allowed[i] = string(a)
	}
	flags := make([]string, len(e.Flags))
	for i, f := range e.Flags {
		flags[i] = string(f)
	}
	return fmt.Sprintf("action %s not allowed: status=%s flags=[%s] allowed=[%s]",
		e.Action, e.Status, strings.Join(flags, ", "), strings.Join(allowed, ", "))
}

func (e *TransitionError) Unwrap() error { return ErrConflict }

// NewTransitionError creates a TransitionError for a rejected action request.
func NewTransitionError(action ActionType, status EventStatus, flags []Flag, allowed []ActionType) *TransitionError {
	return &TransitionError{Action: action, Status: status, Flags: flags, Allowed: allowed}
}
