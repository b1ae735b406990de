package testhelper

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/opencivil/registry-backend/internal/domain"
)

// SeedEvent creates an event with its CREATE action already accepted,
// mirroring what the create operation does. Returns the filled domain.Event.
func SeedEvent(t *testing.T, pool *pgxpool.Pool, createdBy uuid.UUID) domain.Event {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	event := domain.Event{
		ID:            uuid.New(),
		Type:          "v2.birth",
		TransactionID: uuid.New(),
		CreatedBy:     createdBy,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO events (id, event_type, transaction_id, created_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		event.ID, event.Type, event.TransactionID, event.CreatedBy, event.CreatedAt, event.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedEvent insert event: %v", err)
	}

	create := domain.Action{
		ID:            uuid.New(),
		EventID:       event.ID,
		Type:          domain.ActionCreate,
		Status:        domain.ActionStatusAccepted,
		TransactionID: event.TransactionID,
		Declaration:   domain.Declaration{},
		CreatedBy:     createdBy,
		CreatedAt:     now,
	}
	SeedAction(t, pool, &create)
	event.Actions = []domain.Action{create}

	return event
}

// SeedAction inserts a single action row as-is.
func SeedAction(t *testing.T, pool *pgxpool.Pool, action *domain.Action) {
	t.Helper()
	ctx := context.Background()

	decl, err := json.Marshal(action.Declaration)
	if err != nil {
		t.Fatalf("testhelper: SeedAction marshal declaration: %v", err)
	}
	var annotation []byte
	if action.Annotation != nil {
		annotation, err = json.Marshal(action.Annotation)
		if err != nil {
			t.Fatalf("testhelper: SeedAction marshal annotation: %v", err)
		}
	}
	var identifiers []byte
	if action.Identifiers != nil {
		identifiers, err = json.Marshal(action.Identifiers)
		if err != nil {
			t.Fatalf("testhelper: SeedAction marshal identifiers: %v", err)
		}
	}

	_, err = pool.Exec(ctx,
		`INSERT INTO event_actions (id, event_id, action_type, status, transaction_id, declaration, annotation, identifiers, request_id, created_by, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		action.ID, action.EventID, string(action.Type), string(action.Status), action.TransactionID,
		decl, annotation, identifiers, action.RequestID, action.CreatedBy, action.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedAction insert action: %v", err)
	}
}

// SeedAcceptedAction appends an accepted action of the given type with the
// given declaration to an event. Returns the inserted action.
func SeedAcceptedAction(t *testing.T, pool *pgxpool.Pool, eventID uuid.UUID, actionType domain.ActionType, decl domain.Declaration, createdBy uuid.UUID) domain.Action {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Microsecond)
	action := domain.Action{
		ID:            uuid.New(),
		EventID:       eventID,
		Type:          actionType,
		Status:        domain.ActionStatusAccepted,
		TransactionID: uuid.New(),
		Declaration:   decl,
		CreatedBy:     createdBy,
		CreatedAt:     now,
	}
	SeedAction(t, pool, &action)
	return action
}

// SeedLocation inserts a location row. parentID may be uuid.Nil for roots.
func SeedLocation(t *testing.T, pool *pgxpool.Pool, name string, locType domain.LocationType, parentID uuid.UUID) domain.Location {
	t.Helper()
	ctx := context.Background()

	loc := domain.Location{
		ID:           uuid.New(),
		Name:         name,
		LocationType: locType,
	}
	if parentID != uuid.Nil {
		loc.ParentID = &parentID
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO locations (id, parent_id, name, location_type) VALUES ($1, $2, $3, $4)`,
		loc.ID, loc.ParentID, loc.Name, string(loc.LocationType),
	)
	if err != nil {
		t.Fatalf("testhelper: SeedLocation insert: %v", err)
	}

	return loc
}
