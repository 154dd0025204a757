package services

import (
	"feveo/taskmanager/broker"
	"feveo/taskmanager/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// recordEvent appends an outbox row inside tx, so the event is persisted only
// if the change it describes commits.
func recordEvent(tx *gorm.DB, eventType broker.EventType, entity, operation string, actorID uuid.UUID, data interface{}) error {
	event, err := models.NewEvent(string(eventType), entity, operation, actorID.String(), data)
	if err != nil {
		return err
	}
	return tx.Create(event).Error
}

func taskEventData(task models.Task) map[string]interface{} {
	return map[string]interface{}{
		"taskId":    task.ID.String(),
		"userId":    task.UserID.String(),
		"title":     task.Title,
		"priority":  task.Priority,
		"completed": task.Completed,
		"version":   task.Version,
	}
}
