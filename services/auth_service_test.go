package services

import (
	"strings"
	"testing"
	"time"

	"feveo/taskmanager/testutils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestLogin_RoundTrip(t *testing.T) {
	db := testutils.SetupTestDB(t)
	auth := NewAuthService(testSecret, 24)
	users := NewUserService(auth)

	registered, err := users.Register(db, RegisterInput{Username: "alice", Email: "alice@x.com", Password: "secret1"})
	require.NoError(t, err)

	result, err := auth.Login(db, " ALICE@x.com ", "secret1")
	require.NoError(t, err)
	assert.Len(t, strings.Split(result.Token, "."), 3)
	assert.Equal(t, registered.UserID, result.UserID)
	assert.Equal(t, "alice", result.Username)

	claims, err := auth.ValidateToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.UserID, claims.UserID)
	assert.Equal(t, "alice@x.com", claims.Email)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	db := testutils.SetupTestDB(t)
	auth := NewAuthService(testSecret, 24)
	_, err := NewUserService(auth).Register(db, RegisterInput{Username: "alice", Email: "alice@x.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = auth.Login(db, "alice@x.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = auth.Login(db, "nobody@x.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = auth.Login(db, "", "secret1")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestValidateToken_Rejects(t *testing.T) {
	auth := NewAuthService(testSecret, 24)

	_, err := auth.ValidateToken("invalidtoken")
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.ErrorIs(t, err, ErrForbidden)

	other := NewAuthService("other-secret", 24)
	foreign, err := other.IssueToken(uuid.New(), "a@x.com")
	require.NoError(t, err)
	_, err = auth.ValidateToken(foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := &AuthService{jwtSecret: []byte(testSecret), jwtExpiration: -time.Minute}
	stale, err := expired.IssueToken(uuid.New(), "a@x.com")
	require.NoError(t, err)
	_, err = auth.ValidateToken(stale)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestHashPassword(t *testing.T) {
	auth := NewAuthService(testSecret, 24)

	hash, err := auth.HashPassword("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)
	assert.True(t, auth.ComparePasswords(hash, "secret1"))
	assert.False(t, auth.ComparePasswords(hash, "secret2"))
}
