package ctxutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencivil/registry-backend/internal/domain"
)

func TestIdentityRoundTrip(t *testing.T) {
	t.Parallel()

	id := Identity{
		UserID: uuid.New(),
		Scopes: []domain.Scope{"RECORD_DECLARE", "RECORD_REGISTER"},
	}
	ctx := WithIdentity(context.Background(), id)

	got, ok := IdentityFromCtx(ctx)
	require.True(t, ok)
	assert.Equal(t, id, got)
	assert.True(t, got.HasScope("RECORD_REGISTER"))
	assert.False(t, got.HasScope("USER_DATA_SEEDING"))
}

func TestIdentityFromCtx_Missing(t *testing.T) {
	t.Parallel()

	_, ok := IdentityFromCtx(context.Background())
	assert.False(t, ok)

	// A nil user ID counts as unauthenticated.
	ctx := WithIdentity(context.Background(), Identity{})
	_, ok = IdentityFromCtx(ctx)
	assert.False(t, ok)
}

func TestRequestIDRoundTrip(t *testing.T) {
	t.Parallel()

	assert.Empty(t, RequestIDFromCtx(context.Background()))

	ctx := WithRequestID(context.Background(), "req-123")
	assert.Equal(t, "req-123", RequestIDFromCtx(ctx))
}
