// Package outbox implements the transactional outbox: events are persisted
// in the same transaction as the state change they describe and relayed to
// the broker afterwards, so a crash between mutation and publish cannot lose
// the event.
package outbox

import (
	"context"
	"time"

	"github.com/pulse-social/pulse/pkg/event"
)

type Entry struct {
	Id        string          `bson:"_id"`
	EventType event.EventType `bson:"event_type"`
	Body      []byte          `bson:"body"`
	CreatedAt time.Time       `bson:"created_at"`
	Published bool            `bson:"published"`
}

func EntryFromEvent(e event.Event) Entry {
	return Entry{
		Id:        e.Id,
		EventType: e.Type,
		Body:      e.Body,
		CreatedAt: e.Timestamp,
	}
}

func (en Entry) Event() event.Event {
	return event.Event{
		Id:        en.Id,
		Type:      en.EventType,
		Body:      en.Body,
		Timestamp: en.CreatedAt,
	}
}

type Store interface {
	// Append persists an entry. Writers call it inside the same transaction
	// as the mutation the event describes.
	Append(ctx context.Context, entry Entry) error

	// FetchPending returns up to limit unpublished entries, oldest first.
	FetchPending(ctx context.Context, limit int) ([]Entry, error)

	// MarkPublished flags entries as relayed to the broker.
	MarkPublished(ctx context.Context, ids ...string) error
}
