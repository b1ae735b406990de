package rest

import (
	"context"

	"github.com/google/uuid"

	"github.com/opencivil/registry-backend/internal/domain"
	"github.com/opencivil/registry-backend/internal/service/draft"
	"github.com/opencivil/registry-backend/internal/service/event"
	"github.com/opencivil/registry-backend/internal/service/location"
)

type eventServiceMock struct {
	CreateFunc            func(ctx context.Context, input event.CreateInput) (*domain.Event, error)
	GetFunc               func(ctx context.Context, eventID uuid.UUID) (*domain.Event, error)
	GetStateFunc          func(ctx context.Context, eventID uuid.UUID) (*domain.EventState, error)
	ListFunc              func(ctx context.Context, input event.ListInput) (*event.ListResult, error)
	RequestActionFunc     func(ctx context.Context, input event.RequestActionInput) (*domain.Event, error)
	AssignFunc            func(ctx context.Context, input event.AssignInput) (*domain.Event, error)
	UnassignFunc          func(ctx context.Context, input event.UnassignInput) (*domain.Event, error)
	ApproveCorrectionFunc func(ctx context.Context, input event.CorrectionDecisionInput) (*domain.Event, error)
	RejectCorrectionFunc  func(ctx context.Context, input event.CorrectionDecisionInput) (*domain.Event, error)
}

func (m *eventServiceMock) Create(ctx context.Context, input event.CreateInput) (*domain.Event, error) {
	return m.CreateFunc(ctx, input)
}

func (m *eventServiceMock) Get(ctx context.Context, eventID uuid.UUID) (*domain.Event, error) {
	return m.GetFunc(ctx, eventID)
}

func (m *eventServiceMock) GetState(ctx context.Context, eventID uuid.UUID) (*domain.EventState, error) {
	return m.GetStateFunc(ctx, eventID)
}

func (m *eventServiceMock) List(ctx context.Context, input event.ListInput) (*event.ListResult, error) {
	return m.ListFunc(ctx, input)
}

func (m *eventServiceMock) RequestAction(ctx context.Context, input event.RequestActionInput) (*domain.Event, error) {
	return m.RequestActionFunc(ctx, input)
}

func (m *eventServiceMock) Assign(ctx context.Context, input event.AssignInput) (*domain.Event, error) {
	return m.AssignFunc(ctx, input)
}

func (m *eventServiceMock) Unassign(ctx context.Context, input event.UnassignInput) (*domain.Event, error) {
	return m.UnassignFunc(ctx, input)
}

func (m *eventServiceMock) ApproveCorrection(ctx context.Context, input event.CorrectionDecisionInput) (*domain.Event, error) {
	return m.ApproveCorrectionFunc(ctx, input)
}

func (m *eventServiceMock) RejectCorrection(ctx context.Context, input event.CorrectionDecisionInput) (*domain.Event, error) {
	return m.RejectCorrectionFunc(ctx, input)
}

type draftServiceMock struct {
	CreateFunc func(ctx context.Context, input draft.CreateInput) (*domain.Draft, error)
	ListFunc   func(ctx context.Context) ([]*domain.Draft, error)
	GetFunc    func(ctx context.Context, eventID uuid.UUID) (*domain.Draft, error)
}

func (m *draftServiceMock) Create(ctx context.Context, input draft.CreateInput) (*domain.Draft, error) {
	return m.CreateFunc(ctx, input)
}

func (m *draftServiceMock) List(ctx context.Context) ([]*domain.Draft, error) {
	return m.ListFunc(ctx)
}

func (m *draftServiceMock) Get(ctx context.Context, eventID uuid.UUID) (*domain.Draft, error) {
	return m.GetFunc(ctx, eventID)
}

type locationServiceMock struct {
	SetFunc            func(ctx context.Context, input location.SetInput) error
	ListFunc           func(ctx context.Context) ([]domain.Location, error)
	GetFunc            func(ctx context.Context, id uuid.UUID) (*domain.Location, error)
	ListAdminAreasFunc func(ctx context.Context) ([]domain.AdministrativeArea, error)
}

func (m *locationServiceMock) Set(ctx context.Context, input location.SetInput) error {
	return m.SetFunc(ctx, input)
}

func (m *locationServiceMock) List(ctx context.Context) ([]domain.Location, error) {
	return m.ListFunc(ctx)
}

func (m *locationServiceMock) Get(ctx context.Context, id uuid.UUID) (*domain.Location, error) {
	return m.GetFunc(ctx, id)
}

func (m *locationServiceMock) ListAdminAreas(ctx context.Context) ([]domain.AdministrativeArea, error) {
	return m.ListAdminAreasFunc(ctx)
}

var (
	_ eventService    = &eventServiceMock{}
	_ draftService    = &draftServiceMock{}
	_ locationService = &locationServiceMock{}
)
