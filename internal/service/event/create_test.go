package event

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/opencivil/registry-backend/internal/domain"
)

func TestCreate_Success(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	txID := uuid.New()

	events := &eventRepoMock{
		GetByTransactionIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
			return nil, domain.ErrNotFound
		},
		CreateFunc:        func(ctx context.Context, event *domain.Event) error { return nil },
		SetAssignmentFunc: func(ctx context.Context, eventID uuid.UUID, assignedTo *uuid.UUID) error { return nil },
	}

	svc := newTestService(t, testDeps{events: events})

	e, err := svc.Create(identityCtx(userID), CreateInput{TransactionID: txID, Type: "birth"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if e.Type != "birth" {
		t.Errorf("type: got %q, want %q", e.Type, "birth")
	}
	if e.TransactionID != txID {
		t.Errorf("transaction id: got %v, want %v", e.TransactionID, txID)
	}
	if e.AssignedTo == nil || *e.AssignedTo != userID {
		t.Errorf("assigned to: got %v, want creator %v", e.AssignedTo, userID)
	}
	if len(e.Actions) != 1 || e.Actions[0].Type != domain.ActionCreate {
		t.Fatalf("actions: got %v, want single CREATE", e.Actions)
	}
	if e.Actions[0].Status != domain.ActionStatusAccepted {
		t.Errorf("CREATE status: got %s, want %s", e.Actions[0].Status, domain.ActionStatusAccepted)
	}
	if got := ReduceState(e.Actions).Status; got != domain.StatusCreated {
		t.Errorf("status: got %s, want %s", got, domain.StatusCreated)
	}

	calls := events.SetAssignmentCalls()
	if len(calls) != 1 || calls[0] == nil || *calls[0] != userID {
		t.Errorf("SetAssignment calls: got %v, want one call assigning creator", calls)
	}
}

func TestCreate_IdempotentReplay(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	stored := newCreatedEvent(userID)

	events := &eventRepoMock{
		GetByTransactionIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
			if id != stored.TransactionID {
				return nil, domain.ErrNotFound
			}
			return stored, nil
		},
	}

	svc := newTestService(t, testDeps{events: events})

	e, err := svc.Create(identityCtx(userID), CreateInput{TransactionID: stored.TransactionID, Type: "birth"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.ID != stored.ID {
		t.Errorf("event: got %v, want stored %v", e.ID, stored.ID)
	}
	if len(events.CreateCalls()) != 0 {
		t.Errorf("Create calls: got %d, want 0 on replay", len(events.CreateCalls()))
	}
}

func TestCreate_ConcurrentRetryConflict(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	stored := newCreatedEvent(userID)
	lookups := 0

	events := &eventRepoMock{
		GetByTransactionIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
			lookups++
			// First lookup races past the insert; the second finds the winner.
			if lookups == 1 {
				return nil, domain.ErrNotFound
			}
			return stored, nil
		},
		CreateFunc: func(ctx context.Context, event *domain.Event) error {
			return domain.ErrConflict
		},
		SetAssignmentFunc: func(ctx context.Context, eventID uuid.UUID, assignedTo *uuid.UUID) error { return nil },
	}

	svc := newTestService(t, testDeps{events: events})

	e, err := svc.Create(identityCtx(userID), CreateInput{TransactionID: stored.TransactionID, Type: "birth"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.ID != stored.ID {
		t.Errorf("event: got %v, want the concurrent winner %v", e.ID, stored.ID)
	}
}

func TestCreate_UnknownEventType(t *testing.T) {
	t.Parallel()

	configs := &configProviderMock{
		GetConfigurationFunc: func(ctx context.Context, eventType string) (*domain.EventConfiguration, error) {
			return nil, domain.ErrNotFound
		},
	}
	svc := newTestService(t, testDeps{configs: configs})

	_, err := svc.Create(identityCtx(uuid.New()), CreateInput{TransactionID: uuid.New(), Type: "marriage"})
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
	if ve.Errors[0].Field != "type" {
		t.Errorf("field: got %q, want %q", ve.Errors[0].Field, "type")
	}
}

func TestCreate_MissingTransactionID(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, testDeps{})

	_, err := svc.Create(identityCtx(uuid.New()), CreateInput{Type: "birth"})
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
	if ve.Errors[0].Field != "transactionId" {
		t.Errorf("field: got %q, want %q", ve.Errors[0].Field, "transactionId")
	}
}

func TestCreate_Unauthorized(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, testDeps{})

	_, err := svc.Create(context.Background(), CreateInput{TransactionID: uuid.New(), Type: "birth"})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("error: got %v, want ErrUnauthorized", err)
	}
}
