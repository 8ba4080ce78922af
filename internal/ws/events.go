package ws

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventTransition       EventType = "session.transition"
	EventSessionCompleted EventType = "session.completed"
	EventSessionReset     EventType = "session.reset"
	EventFrameRejected    EventType = "frame.rejected"
)

type Event struct {
	SessionID uuid.UUID   `json:"-"`
	Type      EventType   `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}
