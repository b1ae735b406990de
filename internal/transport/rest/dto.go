package rest

import (
	"time"

	"github.com/google/uuid"

	"github.com/opencivil/registry-backend/internal/domain"
)

type eventResponse struct {
	ID            uuid.UUID        `json:"id"`
	Type          string           `json:"type"`
	TransactionID uuid.UUID        `json:"transactionId"`
	TrackingID    *string          `json:"trackingId,omitempty"`
	AssignedTo    *uuid.UUID       `json:"assignedTo,omitempty"`
	CreatedBy     uuid.UUID        `json:"createdBy"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
	Actions       []actionResponse `json:"actions"`
}

type actionResponse struct {
	ID            uuid.UUID                 `json:"id"`
	Type          domain.ActionType         `json:"type"`
	Status        domain.ActionStatus       `json:"status"`
	TransactionID uuid.UUID                 `json:"transactionId"`
	Declaration   domain.Declaration        `json:"declaration,omitempty"`
	Annotation    map[string]any            `json:"annotation,omitempty"`
	Identifiers   *domain.ActionIdentifiers `json:"identifiers,omitempty"`
	RequestID     *uuid.UUID                `json:"requestId,omitempty"`
	CreatedBy     uuid.UUID                 `json:"createdBy"`
	CreatedAt     time.Time                 `json:"createdAt"`
}

type eventStateResponse struct {
	ID          uuid.UUID          `json:"id"`
	Type        string             `json:"type"`
	Status      domain.EventStatus `json:"status"`
	Flags       []domain.Flag      `json:"flags"`
	AssignedTo  *uuid.UUID         `json:"assignedTo,omitempty"`
	TrackingID  *string            `json:"trackingId,omitempty"`
	Declaration domain.Declaration `json:"declaration"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

type draftResponse struct {
	EventID       uuid.UUID          `json:"eventId"`
	Type          domain.ActionType  `json:"type"`
	TransactionID uuid.UUID          `json:"transactionId"`
	Declaration   domain.Declaration `json:"declaration"`
	Annotation    map[string]any     `json:"annotation,omitempty"`
	CreatedBy     uuid.UUID          `json:"createdBy"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

type locationResponse struct {
	ID           uuid.UUID           `json:"id"`
	ParentID     *uuid.UUID          `json:"parentId,omitempty"`
	Name         string              `json:"name"`
	LocationType domain.LocationType `json:"locationType"`
	ValidUntil   *time.Time          `json:"validUntil,omitempty"`
}

type adminAreaResponse struct {
	ID       uuid.UUID  `json:"id"`
	ParentID *uuid.UUID `json:"parentId,omitempty"`
	Name     string     `json:"name"`
}

func toEventResponse(e *domain.Event) eventResponse {
	actions := make([]actionResponse, 0, len(e.Actions))
	for _, a := range e.Actions {
		actions = append(actions, actionResponse{
			ID:            a.ID,
			Type:          a.Type,
			Status:        a.Status,
			TransactionID: a.TransactionID,
			Declaration:   a.Declaration,
			Annotation:    a.Annotation,
			Identifiers:   a.Identifiers,
			RequestID:     a.RequestID,
			CreatedBy:     a.CreatedBy,
			CreatedAt:     a.CreatedAt,
		})
	}
	return eventResponse{
		ID:            e.ID,
		Type:          e.Type,
		TransactionID: e.TransactionID,
		TrackingID:    e.TrackingID,
		AssignedTo:    e.AssignedTo,
		CreatedBy:     e.CreatedBy,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
		Actions:       actions,
	}
}

func toEventStateResponse(s *domain.EventState) eventStateResponse {
	flags := s.Flags
	if flags == nil {
		flags = []domain.Flag{}
	}
	declaration := s.Declaration
	if declaration == nil {
		declaration = domain.Declaration{}
	}
	return eventStateResponse{
		ID:          s.ID,
		Type:        s.Type,
		Status:      s.Status,
		Flags:       flags,
		AssignedTo:  s.AssignedTo,
		TrackingID:  s.TrackingID,
		Declaration: declaration,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func toDraftResponse(d *domain.Draft) draftResponse {
	return draftResponse{
		EventID:       d.EventID,
		Type:          d.Type,
		TransactionID: d.TransactionID,
		Declaration:   d.Declaration,
		Annotation:    d.Annotation,
		CreatedBy:     d.CreatedBy,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

func toLocationResponse(l domain.Location) locationResponse {
	return locationResponse{
		ID:           l.ID,
		ParentID:     l.ParentID,
		Name:         l.Name,
		LocationType: l.LocationType,
		ValidUntil:   l.ValidUntil,
	}
}
