package models

import (
	"time"

	"github.com/google/uuid"
)

// WebSocketMessageType represents message type constants
type WebSocketMessageType string

const (
	EventMessage WebSocketMessageType = "event"
	ErrorMessage WebSocketMessageType = "error"
)

// StandardMessage is the envelope pushed to websocket clients.
type StandardMessage struct {
	ID        string                 `json:"id"`
	Type      WebSocketMessageType   `json:"type"`
	Event     string                 `json:"event,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Payload   map[string]interface{} `json:"payload"`
}

func NewStandardMessage(msgType WebSocketMessageType, event string, payload map[string]interface{}) *StandardMessage {
	return &StandardMessage{
		ID:        uuid.New().String(),
		Type:      msgType,
		Event:     event,
		Timestamp: time.Now(),
		Payload:   payload,
	}
}
