package rabbitmq

import (
	"fmt"
	"time"

	"github.com/pulse-social/pulse/pkg/event"
	amqp "github.com/rabbitmq/amqp091-go"
)

type ContentType string

const (
	ContentTypeJson ContentType = "application/json"
	ContentTypeText ContentType = "text/plain"
)

// Message is the broker-level representation of an event. The body is the
// raw payload; the event ID and timestamp travel in AMQP message properties
// so the wire format stays plain JSON.
type Message struct {
	Body        []byte
	ContentType ContentType
	MessageId   string
	RoutingKey  string
	Timestamp   time.Time
}

func messageFromEvent(e event.Event) Message {
	return Message{
		Body:        e.Body,
		ContentType: ContentTypeJson,
		MessageId:   e.Id,
		RoutingKey:  string(e.Type),
		Timestamp:   e.Timestamp,
	}
}

func eventFromDelivery(delivery amqp.Delivery) (event.Event, error) {
	if delivery.ContentType != "" && delivery.ContentType != string(ContentTypeJson) {
		return event.Event{}, fmt.Errorf("unsupported content type %q", delivery.ContentType)
	}

	return event.Event{
		Id:        delivery.MessageId,
		Type:      event.EventType(delivery.RoutingKey),
		Body:      delivery.Body,
		Timestamp: delivery.Timestamp,
	}, nil
}
