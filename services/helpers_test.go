package services

import (
	"testing"

	"feveo/taskmanager/database"
	"feveo/taskmanager/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// plainHasher keeps tests that do not check credentials fast.
type plainHasher struct{}

func (plainHasher) HashPassword(password string) (string, error) {
	return "plain:" + password, nil
}

func registerUser(t *testing.T, db *database.Database, username, email string) uuid.UUID {
	t.Helper()
	user, err := NewUserService(plainHasher{}).Register(db, RegisterInput{
		Username: username,
		Email:    email,
		Password: "secret1",
	})
	require.NoError(t, err)
	return user.UserID
}

func createTask(t *testing.T, db *database.Database, ownerID uuid.UUID, input CreateTaskInput) models.Task {
	t.Helper()
	task, err := NewTaskService().CreateTask(db, ownerID, input)
	require.NoError(t, err)
	return task
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func intPtr(i int) *int { return &i }

func eventsOfType(t *testing.T, db *database.Database, eventType string) []models.Event {
	t.Helper()
	var events []models.Event
	require.NoError(t, db.DB.Where("event = ?", eventType).Find(&events).Error)
	return events
}
