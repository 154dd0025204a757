package services

import (
	"errors"
	"strings"
	"testing"

	"feveo/taskmanager/models"
	"feveo/taskmanager/testutils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_Success(t *testing.T) {
	db := testutils.SetupTestDB(t)
	service := NewUserService(plainHasher{})

	user, err := service.Register(db, RegisterInput{
		Username: "  alice ",
		Email:    "Alice@X.com",
		Password: "secret1",
	})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, user.UserID)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice@x.com", user.Email)
	assert.False(t, user.CreatedAt.IsZero())

	stored, err := service.GetUserByEmail(db, "alice@x.com")
	require.NoError(t, err)
	assert.Equal(t, "plain:secret1", stored.PasswordHash)

	events := eventsOfType(t, db, "user.created")
	require.Len(t, events, 1)
	assert.Equal(t, user.UserID.String(), events[0].ActorID)
	assert.False(t, events[0].Dispatched)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	db := testutils.SetupTestDB(t)
	service := NewUserService(plainHasher{})
	registerUser(t, db, "alice", "alice@x.com")

	_, err := service.Register(db, RegisterInput{
		Username: "alice2",
		Email:    "ALICE@x.com",
		Password: "secret1",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateIdentity))
	assert.Contains(t, err.Error(), "email")

	var count int64
	require.NoError(t, db.DB.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	db := testutils.SetupTestDB(t)
	service := NewUserService(plainHasher{})
	registerUser(t, db, "alice", "alice@x.com")

	_, err := service.Register(db, RegisterInput{
		Username: "alice",
		Email:    "other@x.com",
		Password: "secret1",
	})

	assert.ErrorIs(t, err, ErrUsernameTaken)
	assert.ErrorIs(t, err, ErrDuplicateIdentity)
}

func TestRegister_Validation(t *testing.T) {
	db := testutils.SetupTestDB(t)
	service := NewUserService(plainHasher{})

	tests := []struct {
		name    string
		input   RegisterInput
		message string
	}{
		{"missing username", RegisterInput{Email: "a@x.com", Password: "secret1"}, "username is required"},
		{"short username", RegisterInput{Username: "al", Email: "a@x.com", Password: "secret1"}, "username must be at least 3 characters"},
		{"long username", RegisterInput{Username: strings.Repeat("a", 51), Email: "a@x.com", Password: "secret1"}, "username must be at most 50 characters"},
		{"missing email", RegisterInput{Username: "alice", Password: "secret1"}, "email is required"},
		{"bad email", RegisterInput{Username: "alice", Email: "not-an-email", Password: "secret1"}, "email must be a valid email address"},
		{"short password", RegisterInput{Username: "alice", Email: "a@x.com", Password: "12345"}, "password must be at least 6 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Register(db, tt.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))
			assert.Equal(t, tt.message, err.Error())
		})
	}
}

func TestRegister_DatabaseError(t *testing.T) {
	db, mock, close := testutils.SetupMockDB()
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "users"`).WillReturnError(errors.New("connection refused"))
	mock.ExpectRollback()

	_, err := NewUserService(plainHasher{}).Register(db, RegisterInput{
		Username: "alice",
		Email:    "alice@x.com",
		Password: "secret1",
	})

	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrValidation))
	assert.False(t, errors.Is(err, ErrDuplicateIdentity))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserById(t *testing.T) {
	db := testutils.SetupTestDB(t)
	service := NewUserService(plainHasher{})
	id := registerUser(t, db, "alice", "alice@x.com")

	user, err := service.GetUserById(db, id)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Empty(t, user.PasswordHash)

	_, err = service.GetUserById(db, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetUserByEmail_NotFound(t *testing.T) {
	db := testutils.SetupTestDB(t)

	_, err := NewUserService(plainHasher{}).GetUserByEmail(db, "nobody@x.com")

	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateUser_Success(t *testing.T) {
	db := testutils.SetupTestDB(t)
	service := NewUserService(plainHasher{})
	id := registerUser(t, db, "alice", "alice@x.com")

	updated, err := service.UpdateUser(db, id, UpdateUserInput{
		Username: strPtr("alice_w"),
		Password: strPtr("newsecret"),
	})

	require.NoError(t, err)
	assert.Equal(t, "alice_w", updated.Username)
	assert.Equal(t, "alice@x.com", updated.Email)

	stored, err := service.GetUserByEmail(db, "alice@x.com")
	require.NoError(t, err)
	assert.Equal(t, "plain:newsecret", stored.PasswordHash)
	assert.Len(t, eventsOfType(t, db, "user.updated"), 1)
}

func TestUpdateUser_EmailTaken(t *testing.T) {
	db := testutils.SetupTestDB(t)
	service := NewUserService(plainHasher{})
	registerUser(t, db, "alice", "alice@x.com")
	bob := registerUser(t, db, "bob", "bob@x.com")

	_, err := service.UpdateUser(db, bob, UpdateUserInput{Email: strPtr("Alice@x.com")})

	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestUpdateUser_NoChanges(t *testing.T) {
	db := testutils.SetupTestDB(t)
	service := NewUserService(plainHasher{})
	id := registerUser(t, db, "alice", "alice@x.com")

	user, err := service.UpdateUser(db, id, UpdateUserInput{Email: strPtr("alice@x.com")})

	require.NoError(t, err)
	assert.Equal(t, "alice@x.com", user.Email)
	assert.Empty(t, eventsOfType(t, db, "user.updated"))
}

func TestUpdateUser_Invalid(t *testing.T) {
	db := testutils.SetupTestDB(t)
	service := NewUserService(plainHasher{})
	id := registerUser(t, db, "alice", "alice@x.com")

	_, err := service.UpdateUser(db, id, UpdateUserInput{Email: strPtr("broken")})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = service.UpdateUser(db, uuid.New(), UpdateUserInput{Email: strPtr("broken")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteUser_RemovesTasks(t *testing.T) {
	db := testutils.SetupTestDB(t)
	service := NewUserService(plainHasher{})
	alice := registerUser(t, db, "alice", "alice@x.com")
	bob := registerUser(t, db, "bob", "bob@x.com")
	createTask(t, db, alice, CreateTaskInput{Title: "Buy milk"})
	createTask(t, db, alice, CreateTaskInput{Title: "Clean"})
	bobTask := createTask(t, db, bob, CreateTaskInput{Title: "Walk dog"})

	require.NoError(t, service.DeleteUser(db, alice))

	_, err := service.GetUserById(db, alice)
	assert.ErrorIs(t, err, ErrNotFound)

	var remaining []models.Task
	require.NoError(t, db.DB.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, bobTask.ID, remaining[0].ID)

	assert.ErrorIs(t, service.DeleteUser(db, alice), ErrUserNotFound)
}
