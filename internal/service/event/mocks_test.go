package event

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/opencivil/registry-backend/internal/domain"
)

// Hand-rolled func-field mocks for the service's private dependencies.
// Unset funcs panic so a test never silently exercises an unexpected path.

var (
	_ eventRepo      = &eventRepoMock{}
	_ draftRepo      = &draftRepoMock{}
	_ gcEnqueuer     = &gcEnqueuerMock{}
	_ configProvider = &configProviderMock{}
	_ txManager      = &txManagerMock{}
)

type eventRepoMock struct {
	GetByIDFunc            func(ctx context.Context, eventID uuid.UUID) (*domain.Event, error)
	GetByTransactionIDFunc func(ctx context.Context, txID uuid.UUID) (*domain.Event, error)
	LockForAppendFunc      func(ctx context.Context, eventID uuid.UUID) (*domain.Event, error)
	ListFunc               func(ctx context.Context, filter domain.EventFilter) ([]*domain.Event, int, error)
	CreateFunc             func(ctx context.Context, event *domain.Event) error
	AppendActionFunc       func(ctx context.Context, action *domain.Action) error
	SetAssignmentFunc      func(ctx context.Context, eventID uuid.UUID, assignedTo *uuid.UUID) error
	SetTrackingIDFunc      func(ctx context.Context, eventID uuid.UUID, trackingID string) error
	DeleteFunc             func(ctx context.Context, eventID uuid.UUID) error

	mu    sync.Mutex
	calls struct {
		Create        []*domain.Event
		AppendAction  []*domain.Action
		SetAssignment []*uuid.UUID
		SetTrackingID []string
		Delete        []uuid.UUID
	}
}

func (m *eventRepoMock) GetByID(ctx context.Context, eventID uuid.UUID) (*domain.Event, error) {
	if m.GetByIDFunc == nil {
		panic("eventRepoMock.GetByIDFunc is nil")
	}
	return m.GetByIDFunc(ctx, eventID)
}

func (m *eventRepoMock) GetByTransactionID(ctx context.Context, txID uuid.UUID) (*domain.Event, error) {
	if m.GetByTransactionIDFunc == nil {
		panic("eventRepoMock.GetByTransactionIDFunc is nil")
	}
	return m.GetByTransactionIDFunc(ctx, txID)
}

func (m *eventRepoMock) LockForAppend(ctx context.Context, eventID uuid.UUID) (*domain.Event, error) {
	if m.LockForAppendFunc == nil {
		panic("eventRepoMock.LockForAppendFunc is nil")
	}
	return m.LockForAppendFunc(ctx, eventID)
}

func (m *eventRepoMock) List(ctx context.Context, filter domain.EventFilter) ([]*domain.Event, int, error) {
	if m.ListFunc == nil {
		panic("eventRepoMock.ListFunc is nil")
	}
	return m.ListFunc(ctx, filter)
}

func (m *eventRepoMock) Create(ctx context.Context, event *domain.Event) error {
	if m.CreateFunc == nil {
		panic("eventRepoMock.CreateFunc is nil")
	}
	m.mu.Lock()
	m.calls.Create = append(m.calls.Create, event)
	m.mu.Unlock()
	return m.CreateFunc(ctx, event)
}

func (m *eventRepoMock) AppendAction(ctx context.Context, action *domain.Action) error {
	if m.AppendActionFunc == nil {
		panic("eventRepoMock.AppendActionFunc is nil")
	}
	m.mu.Lock()
	m.calls.AppendAction = append(m.calls.AppendAction, action)
	m.mu.Unlock()
	return m.AppendActionFunc(ctx, action)
}

func (m *eventRepoMock) SetAssignment(ctx context.Context, eventID uuid.UUID, assignedTo *uuid.UUID) error {
	if m.SetAssignmentFunc == nil {
		panic("eventRepoMock.SetAssignmentFunc is nil")
	}
	m.mu.Lock()
	m.calls.SetAssignment = append(m.calls.SetAssignment, assignedTo)
	m.mu.Unlock()
	return m.SetAssignmentFunc(ctx, eventID, assignedTo)
}

func (m *eventRepoMock) SetTrackingID(ctx context.Context, eventID uuid.UUID, trackingID string) error {
	if m.SetTrackingIDFunc == nil {
		panic("eventRepoMock.SetTrackingIDFunc is nil")
	}
	m.mu.Lock()
	m.calls.SetTrackingID = append(m.calls.SetTrackingID, trackingID)
	m.mu.Unlock()
	return m.SetTrackingIDFunc(ctx, eventID, trackingID)
}

func (m *eventRepoMock) Delete(ctx context.Context, eventID uuid.UUID) error {
	if m.DeleteFunc == nil {
		panic("eventRepoMock.DeleteFunc is nil")
	}
	m.mu.Lock()
	m.calls.Delete = append(m.calls.Delete, eventID)
	m.mu.Unlock()
	return m.DeleteFunc(ctx, eventID)
}

func (m *eventRepoMock) CreateCalls() []*domain.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls.Create
}

func (m *eventRepoMock) AppendActionCalls() []*domain.Action {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls.AppendAction
}

func (m *eventRepoMock) SetAssignmentCalls() []*uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls.SetAssignment
}

func (m *eventRepoMock) SetTrackingIDCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls.SetTrackingID
}

func (m *eventRepoMock) DeleteCalls() []uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls.Delete
}

type draftRepoMock struct {
	GetByEventIDFunc    func(ctx context.Context, eventID uuid.UUID) (*domain.Draft, error)
	DeleteByEventIDFunc func(ctx context.Context, eventID uuid.UUID) error

	mu    sync.Mutex
	calls struct {
		DeleteByEventID []uuid.UUID
	}
}

func (m *draftRepoMock) GetByEventID(ctx context.Context, eventID uuid.UUID) (*domain.Draft, error) {
	if m.GetByEventIDFunc == nil {
		panic("draftRepoMock.GetByEventIDFunc is nil")
	}
	return m.GetByEventIDFunc(ctx, eventID)
}

func (m *draftRepoMock) DeleteByEventID(ctx context.Context, eventID uuid.UUID) error {
	if m.DeleteByEventIDFunc == nil {
		panic("draftRepoMock.DeleteByEventIDFunc is nil")
	}
	m.mu.Lock()
	m.calls.DeleteByEventID = append(m.calls.DeleteByEventID, eventID)
	m.mu.Unlock()
	return m.DeleteByEventIDFunc(ctx, eventID)
}

func (m *draftRepoMock) DeleteByEventIDCalls() []uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls.DeleteByEventID
}

type gcEnqueuerMock struct {
	EnqueueFunc func(ctx context.Context, refs []domain.FileReference) error

	mu    sync.Mutex
	calls struct {
		Enqueue [][]domain.FileReference
	}
}

func (m *gcEnqueuerMock) Enqueue(ctx context.Context, refs []domain.FileReference) error {
	if m.EnqueueFunc == nil {
		panic("gcEnqueuerMock.EnqueueFunc is nil")
	}
	m.mu.Lock()
	m.calls.Enqueue = append(m.calls.Enqueue, refs)
	m.mu.Unlock()
	return m.EnqueueFunc(ctx, refs)
}

func (m *gcEnqueuerMock) EnqueueCalls() [][]domain.FileReference {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls.Enqueue
}

type configProviderMock struct {
	GetConfigurationFunc func(ctx context.Context, eventType string) (*domain.EventConfiguration, error)
}

func (m *configProviderMock) GetConfiguration(ctx context.Context, eventType string) (*domain.EventConfiguration, error) {
	if m.GetConfigurationFunc == nil {
		panic("configProviderMock.GetConfigurationFunc is nil")
	}
	return m.GetConfigurationFunc(ctx, eventType)
}

// txManagerMock runs the callback inline; the repos under test are mocks,
// so there is no transaction to carry.
type txManagerMock struct{}

func (m *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
