package domain

import (
	"time"

	"github.com/google/uuid"
)

// Location is a node in the administrative / facility hierarchy. Seeding is
// additive: records are only ever inserted or updated, never deleted by a
// subsequent seed batch.
type Location struct {
	ID           uuid.UUID
	ParentID     *uuid.UUID
	Name         string
	LocationType LocationType
	ValidUntil   *time.Time
}

// AdministrativeArea is the denormalized lookup row mirrored from locations
// whose type is ADMIN_STRUCTURE. Its id equals the location id.
type AdministrativeArea struct {
	ID       uuid.UUID
	ParentID *uuid.UUID
	Name     string
}
