package services

import (
	"errors"
	"log"
	"math"
	"strings"
	"time"

	"feveo/taskmanager/broker"
	"feveo/taskmanager/database"
	"feveo/taskmanager/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskServiceInterface interface {
	CreateTask(db *database.Database, ownerID uuid.UUID, input CreateTaskInput) (models.Task, error)
	GetTasks(db *database.Database, ownerID uuid.UUID, filter TaskFilter) ([]models.Task, error)
	GetTaskById(db *database.Database, id string) (models.Task, error)
	GetOwnedTask(db *database.Database, id string, ownerID uuid.UUID) (models.Task, error)
	UpdateTask(db *database.Database, id string, ownerID uuid.UUID, input UpdateTaskInput) (models.Task, error)
	CompleteTask(db *database.Database, id string, ownerID uuid.UUID) (models.Task, error)
	DeleteTask(db *database.Database, id string, ownerID uuid.UUID) error
	GetTaskStats(db *database.Database, ownerID uuid.UUID) (models.TaskStats, error)
}

type TaskService struct{}

func NewTaskService() *TaskService {
	return &TaskService{}
}

func (s *TaskService) CreateTask(db *database.Database, ownerID uuid.UUID, input CreateTaskInput) (models.Task, error) {
	input.normalize()
	if err := validateStruct(&input); err != nil {
		return models.Task{}, err
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.Task{}, tx.Error
	}

	var userCount int64
	if err := tx.Model(&models.User{}).Where("id = ?", ownerID).Count(&userCount).Error; err != nil {
		tx.Rollback()
		return models.Task{}, err
	}
	if userCount == 0 {
		tx.Rollback()
		return models.Task{}, ErrUserNotFound
	}

	priority := input.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}

	task := models.Task{
		UserID:      ownerID,
		Title:       input.Title,
		Description: input.Description,
		Priority:    priority,
		Completed:   input.Completed,
		DueDate:     input.DueDate.Time,
	}
	if err := tx.Create(&task).Error; err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	if err := recordEvent(tx, broker.TaskCreated, "task", "create", ownerID, taskEventData(task)); err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	if err := tx.Commit().Error; err != nil {
		return models.Task{}, err
	}

	log.Printf("Created task %s for user %s", task.ID, ownerID)
	return task, nil
}

// GetTasks lists the owner's tasks, newest first.
func (s *TaskService) GetTasks(db *database.Database, ownerID uuid.UUID, filter TaskFilter) ([]models.Task, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	if err := validateStruct(&filter); err != nil {
		return nil, err
	}

	query := db.DB.Where("user_id = ?", ownerID)

	switch filter.Status {
	case "active":
		query = query.Where("completed = ?", false)
	case "completed":
		query = query.Where("completed = ?", true)
	}

	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}

	if filter.Search != "" {
		like := "%" + escapeLike(strings.ToLower(filter.Search)) + "%"
		query = query.Where(`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\')`, like, like)
	}

	tasks := []models.Task{}
	if err := query.Order("created_at DESC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// GetTaskById loads a task regardless of owner.
func (s *TaskService) GetTaskById(db *database.Database, id string) (models.Task, error) {
	return findTask(db.DB, id)
}

// GetOwnedTask loads a task on behalf of ownerID.
func (s *TaskService) GetOwnedTask(db *database.Database, id string, ownerID uuid.UUID) (models.Task, error) {
	return authorizeTask(db.DB, id, ownerID)
}

// UpdateTask applies the fields present in input. Failures are reported in
// order: missing task, foreign owner, invalid input, stale version.
func (s *TaskService) UpdateTask(db *database.Database, id string, ownerID uuid.UUID, input UpdateTaskInput) (models.Task, error) {
	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.Task{}, tx.Error
	}

	task, err := authorizeTask(tx, id, ownerID)
	if err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	input.normalize()
	if err := input.validate(); err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	if input.Version != nil && *input.Version != task.Version {
		tx.Rollback()
		return models.Task{}, ErrVersionMismatch
	}

	updates := map[string]interface{}{
		"updated_at": time.Now(),
		"version":    task.Version + 1,
	}
	if input.Title != nil {
		updates["title"] = *input.Title
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Priority != nil {
		updates["priority"] = *input.Priority
	}
	if input.Completed != nil {
		updates["completed"] = *input.Completed
	}
	if input.DueDate.Set {
		updates["due_date"] = input.DueDate.Time
	}

	// The version guard turns a write that raced in since the load into a conflict.
	result := tx.Model(&models.Task{}).
		Where("id = ? AND version = ?", task.ID, task.Version).
		Updates(updates)
	if result.Error != nil {
		tx.Rollback()
		return models.Task{}, result.Error
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		return models.Task{}, ErrVersionMismatch
	}

	updated, err := findTask(tx, task.ID.String())
	if err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	if err := recordEvent(tx, broker.TaskUpdated, "task", "update", ownerID, taskEventData(updated)); err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	if err := tx.Commit().Error; err != nil {
		return models.Task{}, err
	}

	return updated, nil
}

func (s *TaskService) CompleteTask(db *database.Database, id string, ownerID uuid.UUID) (models.Task, error) {
	completed := true
	return s.UpdateTask(db, id, ownerID, UpdateTaskInput{Completed: &completed})
}

func (s *TaskService) DeleteTask(db *database.Database, id string, ownerID uuid.UUID) error {
	tx := db.DB.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	task, err := authorizeTask(tx, id, ownerID)
	if err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Delete(&models.Task{}, "id = ?", task.ID).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := recordEvent(tx, broker.TaskDeleted, "task", "delete", ownerID, map[string]interface{}{
		"taskId": task.ID.String(),
		"userId": task.UserID.String(),
	}); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return err
	}

	log.Printf("Deleted task %s", task.ID)
	return nil
}

type priorityCount struct {
	Priority models.Priority
	Count    int64
}

func (s *TaskService) GetTaskStats(db *database.Database, ownerID uuid.UUID) (models.TaskStats, error) {
	stats := models.TaskStats{ByPriority: map[models.Priority]int64{}}

	if err := db.DB.Model(&models.Task{}).Where("user_id = ?", ownerID).Count(&stats.Total).Error; err != nil {
		return models.TaskStats{}, err
	}
	if err := db.DB.Model(&models.Task{}).Where("user_id = ? AND completed = ?", ownerID, true).Count(&stats.Completed).Error; err != nil {
		return models.TaskStats{}, err
	}
	stats.Pending = stats.Total - stats.Completed
	stats.CompletionRate = CompletionRate(stats.Completed, stats.Total)

	var rows []priorityCount
	if err := db.DB.Model(&models.Task{}).
		Select("priority, COUNT(*) AS count").
		Where("user_id = ?", ownerID).
		Group("priority").
		Scan(&rows).Error; err != nil {
		return models.TaskStats{}, err
	}
	for _, row := range rows {
		if row.Count > 0 {
			stats.ByPriority[row.Priority] = row.Count
		}
	}

	return stats, nil
}

// CompletionRate is the rounded percentage of completed tasks, 0 when there are none.
func CompletionRate(completed, total int64) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// authorizeTask is the single load-then-compare gate for task access.
func authorizeTask(tx *gorm.DB, id string, ownerID uuid.UUID) (models.Task, error) {
	task, err := findTask(tx, id)
	if err != nil {
		return models.Task{}, err
	}
	if task.UserID != ownerID {
		return models.Task{}, ErrTaskForbidden
	}
	return task, nil
}

func findTask(tx *gorm.DB, id string) (models.Task, error) {
	taskID, err := uuid.Parse(id)
	if err != nil {
		return models.Task{}, ErrTaskNotFound
	}

	var task models.Task
	if err := tx.First(&task, "id = ?", taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Task{}, ErrTaskNotFound
		}
		return models.Task{}, err
	}
	return task, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

var _ TaskServiceInterface = (*TaskService)(nil)
