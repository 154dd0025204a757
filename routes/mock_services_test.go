package routes

import (
	"feveo/taskmanager/database"
	"feveo/taskmanager/models"
	"feveo/taskmanager/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockTaskService mocks the TaskServiceInterface for testing
type MockTaskService struct {
	mock.Mock
}

func (m *MockTaskService) CreateTask(db *database.Database, ownerID uuid.UUID, input services.CreateTaskInput) (models.Task, error) {
	args := m.Called(db, ownerID, input)
	return args.Get(0).(models.Task), args.Error(1)
}

func (m *MockTaskService) GetTasks(db *database.Database, ownerID uuid.UUID, filter services.TaskFilter) ([]models.Task, error) {
	args := m.Called(db, ownerID, filter)
	tasks, _ := args.Get(0).([]models.Task)
	return tasks, args.Error(1)
}

func (m *MockTaskService) GetTaskById(db *database.Database, id string) (models.Task, error) {
	args := m.Called(db, id)
	return args.Get(0).(models.Task), args.Error(1)
}

func (m *MockTaskService) GetOwnedTask(db *database.Database, id string, ownerID uuid.UUID) (models.Task, error) {
	args := m.Called(db, id, ownerID)
	return args.Get(0).(models.Task), args.Error(1)
}

func (m *MockTaskService) UpdateTask(db *database.Database, id string, ownerID uuid.UUID, input services.UpdateTaskInput) (models.Task, error) {
	args := m.Called(db, id, ownerID, input)
	return args.Get(0).(models.Task), args.Error(1)
}

func (m *MockTaskService) CompleteTask(db *database.Database, id string, ownerID uuid.UUID) (models.Task, error) {
	args := m.Called(db, id, ownerID)
	return args.Get(0).(models.Task), args.Error(1)
}

func (m *MockTaskService) DeleteTask(db *database.Database, id string, ownerID uuid.UUID) error {
	args := m.Called(db, id, ownerID)
	return args.Error(0)
}

func (m *MockTaskService) GetTaskStats(db *database.Database, ownerID uuid.UUID) (models.TaskStats, error) {
	args := m.Called(db, ownerID)
	return args.Get(0).(models.TaskStats), args.Error(1)
}

var _ services.TaskServiceInterface = (*MockTaskService)(nil)
