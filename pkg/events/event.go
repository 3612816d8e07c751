package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "SESSION_STARTED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Domain event types emitted by the workflows. The audit consumer persists one
// audit_logs row per event; the NATS publisher mirrors them externally.
const (
	TypeUserRegistered = "USER_REGISTERED"
	TypeUserUpdated    = "USER_UPDATED"
	TypeUserDeleted    = "USER_DELETED"
	TypeUserLogin      = "USER_LOGIN"
	TypeSessionStarted = "SESSION_STARTED"
	TypeSessionEnded   = "SESSION_ENDED"
	TypeMessageSent    = "MESSAGE_SENT"
	TypeFileUploaded   = "FILE_UPLOADED"
)

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewChangeEvent builds an event describing a state change made by actorID.
// oldValue and newValue may be nil for creates and deletes respectively.
func NewChangeEvent(eventType, actorID string, oldValue, newValue map[string]interface{}) Event {
	return BaseEvent{
		Type: eventType,
		Data: map[string]interface{}{
			"actor_id": actorID,
			"old":      oldValue,
			"new":      newValue,
		},
		OccurredAt: time.Now(),
	}
}
