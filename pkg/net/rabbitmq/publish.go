package rabbitmq

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pulse-social/pulse/pkg/event"
	"github.com/pulse-social/pulse/pkg/tracing"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Publish routes the event to the shared exchange under its routing key.
// No delivery confirmation is awaited; a returned error means the broker
// did not accept the message.
func (mq *RabbitMQ) Publish(ctx context.Context, e event.Event) (err error) {
	ctx, span := mq.tracer.Start(ctx, "rabbitmq.Publish")
	defer span.End()
	defer func() { tracing.SetSpanErr(span, err) }()

	return mq.publish(ctx, messageFromEvent(e))
}

// ResilientPublish enqueues the event for publishing with indefinite retry.
// It returns a non-nil error only if the internal queue is full.
func (mq *RabbitMQ) ResilientPublish(_ context.Context, e event.Event) error {
	return mq.enqueue(messageFromEvent(e))
}

func (mq *RabbitMQ) enqueue(msg Message) error {
	select {
	case mq.publishQueue <- msg:
		return nil
	default:
		return fmt.Errorf("publish queue is full")
	}
}

func (mq *RabbitMQ) publish(ctx context.Context, msg Message) error {
	ch, err := mq.channel(ctx)
	if err != nil {
		return err
	}
	defer ch.Close()

	succeeded, err := mq.breaker.Allow()
	if err != nil {
		return err
	}

	err = ch.PublishWithContext(ctx,
		ExchangeName,   // exchange
		msg.RoutingKey, // routing key
		false,          // mandatory
		false,          // immediate
		amqp.Publishing{
			ContentType: string(msg.ContentType),
			MessageId:   msg.MessageId,
			Timestamp:   msg.Timestamp,
			Body:        msg.Body,
		},
	)
	if err != nil {
		succeeded(!isConnectionError(err))
		return err
	}

	succeeded(true)
	return nil
}

// runPublishQueue is meant to be run in a separate goroutine. It drains the
// publish queue, retrying each message with exponential backoff until the
// broker accepts it or ctx is canceled.
func (mq *RabbitMQ) runPublishQueue(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-mq.publishQueue:
			mq.retryPublish(ctx, msg)
		}
	}
}

func (mq *RabbitMQ) retryPublish(ctx context.Context, msg Message) {
	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = 0 // Retry until ctx is canceled.

	err := backoff.Retry(func() error {
		pubCtx, cancel := context.WithTimeout(ctx, time.Second*5)
		defer cancel()

		if err := mq.publish(pubCtx, msg); err != nil {
			mq.logger.Log(ctx, "Failed to publish a message, retrying", "err", err, "routingKey", msg.RoutingKey)
			return err
		}
		return nil
	}, backoff.WithContext(policy, ctx))

	if err != nil {
		mq.logger.Log(ctx, "Dropping unpublished message", "err", err, "routingKey", msg.RoutingKey)
	}
}
