package event

import (
	"context"
	"io"
)

type Broker interface {
	Publisher
	Subscriber
	io.Closer
}

type Publisher interface {
	// Publish routes the event through the broker and returns transport errors.
	Publish(context.Context, Event) error

	// ResilientPublish returns only serialization errors and on any other
	// error retries the event until the broker accepts it.
	ResilientPublish(context.Context, Event) error
}

type Subscriber interface {
	// Subscribe binds queue to the shared exchange under the event type's
	// routing key and invokes handler for each delivery. An empty queue name
	// requests an exclusive, server-named queue which does not survive
	// disconnects.
	Subscribe(ctx context.Context, queue string, eType EventType, handler HandlerFunc) error
}

// HandlerFunc is invoked for each received event. A non-nil error signals the
// broker that domain processing failed and the delivery must not be acked.
type HandlerFunc func(context.Context, Event) error
