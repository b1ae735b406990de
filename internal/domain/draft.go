package domain

import (
	"time"

	"github.com/google/uuid"
)

// Draft is the single-slot staging area for an action not yet committed to
// an event's log. At most one draft exists per event; creating another
// replaces it regardless of action type.
type Draft struct {
	EventID       uuid.UUID
	Type          ActionType
	TransactionID uuid.UUID
	Declaration   Declaration
	Annotation    map[string]any
	CreatedBy     uuid.UUID
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
