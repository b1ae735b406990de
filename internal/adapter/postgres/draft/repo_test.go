package draft_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	draftrepo "github.com/opencivil/registry-backend/internal/adapter/postgres/draft"
	"github.com/opencivil/registry-backend/internal/adapter/postgres/testhelper"
	"github.com/opencivil/registry-backend/internal/domain"
)

func newDraft(eventID, createdBy uuid.UUID) *domain.Draft {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Draft{
		EventID:       eventID,
		Type:          domain.ActionDeclare,
		TransactionID: uuid.New(),
		Declaration:   domain.Declaration{"informant.relation": "MOTHER"},
		CreatedBy:     createdBy,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func TestRepo_SaveAndGet(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	repo := draftrepo.New(pool)
	ctx := context.Background()

	user := uuid.New()
	event := testhelper.SeedEvent(t, pool, user)

	d := newDraft(event.ID, user)
	require.NoError(t, repo.Save(ctx, d))

	got, err := repo.GetByEventID(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, d.TransactionID, got.TransactionID)
	assert.Equal(t, domain.ActionDeclare, got.Type)
	assert.Equal(t, "MOTHER", got.Declaration["informant.relation"])
}

func TestRepo_Save_ReplacesSlot(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	repo := draftrepo.New(pool)
	ctx := context.Background()

	user := uuid.New()
	event := testhelper.SeedEvent(t, pool, user)

	first := newDraft(event.ID, user)
	require.NoError(t, repo.Save(ctx, first))

	second := newDraft(event.ID, user)
	second.Type = domain.ActionRegister
	second.Declaration = domain.Declaration{"informant.relation": "FATHER"}
	require.NoError(t, repo.Save(ctx, second))

	got, err := repo.GetByEventID(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, second.TransactionID, got.TransactionID)
	assert.Equal(t, domain.ActionRegister, got.Type)
	// Replacement is wholesale, not a merge.
	assert.Equal(t, domain.Declaration{"informant.relation": "FATHER"}, got.Declaration)
}

func TestRepo_GetByEventID_Empty(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	repo := draftrepo.New(pool)

	_, err := repo.GetByEventID(context.Background(), uuid.New())
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRepo_Save_UnknownEvent(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	repo := draftrepo.New(pool)

	d := newDraft(uuid.New(), uuid.New())
	err := repo.Save(context.Background(), d)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRepo_DeleteByEventID(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	repo := draftrepo.New(pool)
	ctx := context.Background()

	user := uuid.New()
	event := testhelper.SeedEvent(t, pool, user)

	require.NoError(t, repo.Save(ctx, newDraft(event.ID, user)))
	require.NoError(t, repo.DeleteByEventID(ctx, event.ID))

	_, err := repo.GetByEventID(ctx, event.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)

	// Deleting an empty slot is fine.
	require.NoError(t, repo.DeleteByEventID(ctx, event.ID))
}

func TestRepo_ListByUser(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	repo := draftrepo.New(pool)
	ctx := context.Background()

	user := uuid.New()
	other := uuid.New()
	eventA := testhelper.SeedEvent(t, pool, user)
	eventB := testhelper.SeedEvent(t, pool, user)
	eventC := testhelper.SeedEvent(t, pool, other)

	require.NoError(t, repo.Save(ctx, newDraft(eventA.ID, user)))
	require.NoError(t, repo.Save(ctx, newDraft(eventB.ID, user)))
	require.NoError(t, repo.Save(ctx, newDraft(eventC.ID, other)))

	drafts, err := repo.ListByUser(ctx, user)
	require.NoError(t, err)
	require.Len(t, drafts, 2)
	for _, d := range drafts {
		assert.Equal(t, user, d.CreatedBy)
	}
}
