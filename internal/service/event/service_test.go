package event

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/opencivil/registry-backend/internal/domain"
	"github.com/opencivil/registry-backend/pkg/ctxutil"
)

var testNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

const testTrackingID = "B2CD3FG"

type testDeps struct {
	events  *eventRepoMock
	drafts  *draftRepoMock
	gc      *gcEnqueuerMock
	configs *configProviderMock
}

// newTestService wires a Service to mocks with a fixed clock and a
// deterministic tracking-id generator. Unset dependencies panic if touched.
func newTestService(t *testing.T, deps testDeps) *Service {
	t.Helper()
	if deps.events == nil {
		deps.events = &eventRepoMock{}
	}
	if deps.drafts == nil {
		deps.drafts = &draftRepoMock{
			GetByEventIDFunc: func(ctx context.Context, eventID uuid.UUID) (*domain.Draft, error) {
				return nil, domain.ErrNotFound
			},
			DeleteByEventIDFunc: func(ctx context.Context, eventID uuid.UUID) error { return nil },
		}
	}
	if deps.gc == nil {
		deps.gc = &gcEnqueuerMock{}
	}
	if deps.configs == nil {
		deps.configs = &configProviderMock{
			GetConfigurationFunc: func(ctx context.Context, eventType string) (*domain.EventConfiguration, error) {
				return testConfig(), nil
			},
		}
	}
	return &Service{
		log:           slog.New(slog.NewTextHandler(io.Discard, nil)),
		events:        deps.events,
		drafts:        deps.drafts,
		gc:            deps.gc,
		configs:       deps.configs,
		tx:            &txManagerMock{},
		now:           func() time.Time { return testNow },
		newTrackingID: func() string { return testTrackingID },
	}
}

// testConfig is a small birth-registration form: two required child fields,
// a father block hidden when the father is recorded deceased, and an
// attachment field. REGISTER is scope-gated.
func testConfig() *domain.EventConfiguration {
	return &domain.EventConfiguration{
		ID:    "birth",
		Label: "Birth",
		Declaration: []domain.FormPage{
			{
				ID: "child",
				Fields: []domain.Field{
					{ID: "child.firstname", Type: domain.FieldTypeText, Required: true},
					{ID: "child.dob", Type: domain.FieldTypeDate, Required: true},
				},
			},
			{
				ID: "father",
				Fields: []domain.Field{
					{ID: "father.deceased", Type: domain.FieldTypeCheckbox},
					{
						ID:   "father.name",
						Type: domain.FieldTypeText,
						Conditionals: []domain.FieldConditional{{
							Type:      domain.ConditionalHide,
							Condition: domain.Eq("father.deceased", true),
						}},
					},
				},
			},
			{
				ID: "documents",
				Fields: []domain.Field{
					{ID: "documents.proof", Type: domain.FieldTypeFile},
				},
			},
		},
		Actions: []domain.ActionConfig{
			{Type: domain.ActionDeclare},
			{Type: domain.ActionNotify},
			{Type: domain.ActionValidate},
			{Type: domain.ActionRegister, Scopes: []domain.Scope{"record.register"}},
		},
	}
}

// newCreatedEvent returns a fresh event assigned to its creator, with the
// accepted CREATE action in the log.
func newCreatedEvent(creator uuid.UUID) *domain.Event {
	eventID := uuid.New()
	userID := creator
	return &domain.Event{
		ID:            eventID,
		Type:          "birth",
		TransactionID: uuid.New(),
		AssignedTo:    &userID,
		CreatedBy:     creator,
		CreatedAt:     testNow,
		UpdatedAt:     testNow,
		Actions: []domain.Action{{
			ID:            uuid.New(),
			EventID:       eventID,
			Type:          domain.ActionCreate,
			Status:        domain.ActionStatusAccepted,
			TransactionID: uuid.New(),
			Declaration:   domain.Declaration{},
			CreatedBy:     creator,
			CreatedAt:     testNow,
		}},
	}
}

func acceptedAction(e *domain.Event, t domain.ActionType, decl domain.Declaration) domain.Action {
	if decl == nil {
		decl = domain.Declaration{}
	}
	return domain.Action{
		ID:            uuid.New(),
		EventID:       e.ID,
		Type:          t,
		Status:        domain.ActionStatusAccepted,
		TransactionID: uuid.New(),
		Declaration:   decl,
		CreatedBy:     e.CreatedBy,
		CreatedAt:     testNow,
	}
}

func identityCtx(userID uuid.UUID, scopes ...domain.Scope) context.Context {
	return ctxutil.WithIdentity(context.Background(), ctxutil.Identity{
		UserID: userID,
		Scopes: scopes,
	})
}

func fileValue(path, name string) map[string]any {
	return map[string]any{"path": path, "originalFilename": name, "type": "image/png"}
}

// lockReturning is the common single-event repo setup: LockForAppend hands
// back the given event, appends and assignment changes succeed.
func lockReturning(e *domain.Event) *eventRepoMock {
	return &eventRepoMock{
		LockForAppendFunc: func(ctx context.Context, eventID uuid.UUID) (*domain.Event, error) {
			if eventID != e.ID {
				return nil, domain.ErrNotFound
			}
			return e, nil
		},
		AppendActionFunc:  func(ctx context.Context, action *domain.Action) error { return nil },
		SetAssignmentFunc: func(ctx context.Context, eventID uuid.UUID, assignedTo *uuid.UUID) error { return nil },
		SetTrackingIDFunc: func(ctx context.Context, eventID uuid.UUID, trackingID string) error { return nil },
		DeleteFunc:        func(ctx context.Context, eventID uuid.UUID) error { return nil },
	}
}
