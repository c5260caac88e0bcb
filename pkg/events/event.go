package events

import (
	"context"
	"time"
)

const (
	GenerationCompleted = "GENERATION_COMPLETED"
	CreditsPurchased    = "CREDITS_PURCHASED"
	CreditsGranted      = "CREDITS_GRANTED"
)

// Event is the contract for all domain events.
type Event interface {
	// EventType is the unique code, e.g. "CREDITS_PURCHASED".
	EventType() string
	Payload() map[string]interface{}
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func New(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{Type: eventType, Data: data, OccurredAt: time.Now()}
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

// Publisher delivers events to the bus.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}
