package broker

import (
	"encoding/json"
	"time"
)

type EventType string

const (
	// Standardized event types in format: <resource>.<action>
	TaskCreated EventType = "task.created"
	TaskUpdated EventType = "task.updated"
	TaskDeleted EventType = "task.deleted"

	UserCreated EventType = "user.created"
	UserUpdated EventType = "user.updated"
	UserDeleted EventType = "user.deleted"
)

// EventEnvelope is the wire format of every published event.
type EventEnvelope struct {
	EventID   string          `json:"eventId"`
	Event     string          `json:"event"`
	Entity    string          `json:"entity"`
	Operation string          `json:"operation"`
	ActorID   string          `json:"actorId"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}
