package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventFilter narrows an event listing. Zero-valued fields are ignored.
type EventFilter struct {
	EventType    string
	CreatedBy    uuid.UUID
	AssignedTo   uuid.UUID
	TrackingID   string
	UpdatedSince time.Time

	Limit  int
	Offset int
}
