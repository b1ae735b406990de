package domain

import (
	"time"

	"github.com/google/uuid"
)

// Event is a registrable vital event: a header plus its append-only action
// log. Everything observable about an event (status, declaration,
// assignment) is derived from the accepted actions.
type Event struct {
	ID            uuid.UUID
	Type          string
	TransactionID uuid.UUID
	TrackingID    *string
	AssignedTo    *uuid.UUID
	CreatedBy     uuid.UUID
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Actions       []Action
}

// ActionIdentifiers carries the server-issued identifiers attached to a
// REGISTER action.
type ActionIdentifiers struct {
	TrackingID         string `json:"trackingId"`
	RegistrationNumber string `json:"registrationNumber"`
}

// Action is an immutable, ordered record of a state transition requested
// against an event. TransactionID is the client-generated idempotency key;
// a retried request with a seen key returns the original result.
type Action struct {
	ID            uuid.UUID
	EventID       uuid.UUID
	Type          ActionType
	Status        ActionStatus
	TransactionID uuid.UUID
	Declaration   Declaration
	Annotation    map[string]any
	Identifiers   *ActionIdentifiers
	// RequestID references the REQUEST_CORRECTION action an
	// APPROVE_CORRECTION or REJECT_CORRECTION applies to.
	RequestID *uuid.UUID
	CreatedBy uuid.UUID
	CreatedAt time.Time
}

// AcceptedActions returns the accepted actions in log order.
func (e *Event) AcceptedActions() []Action {
	out := make([]Action, 0, len(e.Actions))
	for _, a := range e.Actions {
		if a.Status == ActionStatusAccepted {
			out = append(out, a)
		}
	}
	return out
}

// FindAction returns the action with the given id, or nil.
func (e *Event) FindAction(id uuid.UUID) *Action {
	for i := range e.Actions {
		if e.Actions[i].ID == id {
			return &e.Actions[i]
		}
	}
	return nil
}

// FindActionByTransactionID returns the action with the given idempotency
// key, or nil.
func (e *Event) FindActionByTransactionID(txID uuid.UUID) *Action {
	for i := range e.Actions {
		if e.Actions[i].TransactionID == txID {
			return &e.Actions[i]
		}
	}
	return nil
}

// IsAssignedTo reports whether the event is currently held by userID.
func (e *Event) IsAssignedTo(userID uuid.UUID) bool {
	return e.AssignedTo != nil && *e.AssignedTo == userID
}

// EventState is the projected view of an event: the canonical current
// declaration plus the computed status and flags.
type EventState struct {
	ID          uuid.UUID
	Type        string
	Status      EventStatus
	Flags       []Flag
	AssignedTo  *uuid.UUID
	TrackingID  *string
	Declaration Declaration
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasFlag reports whether the projected state carries the given flag.
func (s *EventState) HasFlag(f Flag) bool {
	for _, have := range s.Flags {
		if have == f {
			return true
		}
	}
	return false
}
