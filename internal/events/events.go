// Package events publishes enrollment changes to downstream consumers.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	TypeSignedUp     = "activity.signed_up"
	TypeUnregistered = "activity.unregistered"
)

// Event describes one successful roster change.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Activity   string    `json:"activity"`
	Email      string    `json:"email"`
	RosterSize int       `json:"rosterSize"`
	Capacity   int       `json:"capacity"`
	OccurredAt time.Time `json:"occurredAt"`
}

// NewEvent stamps a new event with a random ID and the current UTC time.
func NewEvent(eventType, activity, email string, rosterSize, capacity int) Event {
	return Event{
		ID:         uuid.New().String(),
		Type:       eventType,
		Activity:   activity,
		Email:      email,
		RosterSize: rosterSize,
		Capacity:   capacity,
		OccurredAt: time.Now().UTC(),
	}
}

func (e Event) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Name() string
}

// Noop drops every event.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
func (Noop) Name() string                          { return "noop" }
