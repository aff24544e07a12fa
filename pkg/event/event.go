package event

import (
	"encoding/json"
	"time"

	"github.com/gofrs/uuid"
)

type EventType string

const (
	PostCreated EventType = "post.created"
	PostDeleted EventType = "post.deleted"
)

// Event is the unit of cross-service communication. The body is the
// JSON-encoded payload published to the broker as-is, so consumers can act
// without querying the producer. Id is a stable idempotency key consumers
// use to skip duplicate deliveries.
type Event struct {
	Id        string          `json:"id,omitempty"`
	Type      EventType       `json:"type,omitempty"`
	Body      json.RawMessage `json:"body,omitempty"`
	Timestamp time.Time       `json:"timestamp,omitempty"`
}

// MakeEvent assigns a fresh Id and marshals payload into the event body.
func MakeEvent(eType EventType, payload interface{}) (Event, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}

	id, err := uuid.NewV4()
	if err != nil {
		return Event{}, err
	}

	return Event{
		Id:        id.String(),
		Type:      eType,
		Body:      body,
		Timestamp: time.Now(),
	}, nil
}
