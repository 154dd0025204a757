package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Priority is the urgency of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

const (
	MaxTitleLength       = 100
	MaxDescriptionLength = 500
)

type Task struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"userId"`
	Title       string     `gorm:"size:100;not null" json:"title"`
	Description string     `gorm:"size:500;not null;default:''" json:"description"`
	Priority    Priority   `gorm:"type:varchar(10);not null;default:'medium'" json:"priority"`
	Completed   bool       `gorm:"not null;default:false;index" json:"completed"`
	DueDate     *time.Time `json:"dueDate"`
	Version     int        `gorm:"not null;default:1" json:"version"`
	CreatedAt   time.Time  `gorm:"not null;index" json:"createdAt"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updatedAt"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	if t.Version == 0 {
		t.Version = 1
	}
	return nil
}

// TaskStats is the per-owner overview of task completion.
type TaskStats struct {
	Total          int64              `json:"total"`
	Completed      int64              `json:"completed"`
	Pending        int64              `json:"pending"`
	CompletionRate int                `json:"completionRate"`
	ByPriority     map[Priority]int64 `json:"byPriority"`
}
