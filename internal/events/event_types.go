package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventScheduleEventsCreated EventType = "schedule.events_created"
	EventScheduleEventDeleted  EventType = "schedule.event_deleted"
	EventGenerationSucceeded   EventType = "generation.succeeded"
	EventGenerationFailed      EventType = "generation.failed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserID    string      `json:"user_id"`
	SessionID string      `json:"session_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// New stamps a fresh id and timestamp.
func New(eventType EventType, userID string, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		UserID:    userID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// EventsCreatedPayload payload.
type EventsCreatedPayload struct {
	EventIDs []string `json:"event_ids"`
	Source   string   `json:"source"`
}

// EventDeletedPayload payload.
type EventDeletedPayload struct {
	EventID string `json:"event_id"`
}

// GenerationSucceededPayload payload.
type GenerationSucceededPayload struct {
	PromptLength int           `json:"prompt_length"`
	Created      int           `json:"created"`
	Duration     time.Duration `json:"duration"`
}

// GenerationFailedPayload payload.
type GenerationFailedPayload struct {
	PromptLength int    `json:"prompt_length"`
	Reason       string `json:"reason"`
}
