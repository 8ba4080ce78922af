package webhook

import (
	"time"

	"github.com/google/uuid"
)

// Event types delivered to the configured callback URL.
const (
	EventSessionCompleted = "session.completed"
	EventSessionAbandoned = "session.abandoned"
	EventSessionReset     = "session.reset"
)

type EventPayload struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	SessionID uuid.UUID   `json:"session_id"`
	Timestamp time.Time   `json:"timestamp"`
}

type job struct {
	event    EventPayload
	attempts int
}
