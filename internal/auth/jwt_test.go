package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencivil/registry-backend/internal/domain"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestJWTManager_RoundTrip(t *testing.T) {
	t.Parallel()

	m := NewJWTManager(testSecret, "civil-registry")
	userID := uuid.New()
	scopes := []domain.Scope{"RECORD_DECLARE", "RECORD_REGISTER"}

	token, err := m.GenerateAccessToken(userID, scopes, time.Minute)
	require.NoError(t, err)

	identity, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, identity.UserID)
	assert.Equal(t, scopes, identity.Scopes)
}

func TestJWTManager_NoScopes(t *testing.T) {
	t.Parallel()

	m := NewJWTManager(testSecret, "civil-registry")
	token, err := m.GenerateAccessToken(uuid.New(), nil, time.Minute)
	require.NoError(t, err)

	identity, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Empty(t, identity.Scopes)
}

func TestJWTManager_Expired(t *testing.T) {
	t.Parallel()

	m := NewJWTManager(testSecret, "civil-registry")
	token, err := m.GenerateAccessToken(uuid.New(), nil, -time.Minute)
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(token)
	require.Error(t, err)
}

func TestJWTManager_WrongSecret(t *testing.T) {
	t.Parallel()

	m := NewJWTManager(testSecret, "civil-registry")
	token, err := m.GenerateAccessToken(uuid.New(), nil, time.Minute)
	require.NoError(t, err)

	other := NewJWTManager("ffffffffffffffffffffffffffffffff", "civil-registry")
	_, err = other.ValidateAccessToken(token)
	require.Error(t, err)
}

func TestJWTManager_WrongIssuer(t *testing.T) {
	t.Parallel()

	m := NewJWTManager(testSecret, "someone-else")
	token, err := m.GenerateAccessToken(uuid.New(), nil, time.Minute)
	require.NoError(t, err)

	verifier := NewJWTManager(testSecret, "civil-registry")
	_, err = verifier.ValidateAccessToken(token)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid issuer")
}

func TestJWTManager_RejectsNone(t *testing.T) {
	t.Parallel()

	claims := jwt.RegisteredClaims{
		Subject: uuid.NewString(),
		Issuer:  "civil-registry",
	}
	token := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	m := NewJWTManager(testSecret, "civil-registry")
	_, err = m.ValidateAccessToken(signed)
	require.Error(t, err)
}

func TestJWTManager_Empty(t *testing.T) {
	t.Parallel()

	m := NewJWTManager(testSecret, "civil-registry")
	_, err := m.ValidateAccessToken("")
	require.Error(t, err)
}
