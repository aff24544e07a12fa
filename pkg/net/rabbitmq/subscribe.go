package rabbitmq

import (
	"context"
	"time"

	"github.com/pulse-social/pulse/pkg/event"
	"github.com/pulse-social/pulse/pkg/tracing"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Subscribe binds queue to the shared exchange under the event type's routing
// key and invokes handler for each delivery. Deliveries are acknowledged only
// after the handler returns nil; a non-nil error triggers the configured
// FailurePolicy. Handlers for one subscription run sequentially.
//
// A named queue is declared durable so events published while the consumer is
// down are retained. An empty queue name declares an exclusive, auto-deleted,
// server-named queue which retains nothing across disconnects.
//
// On a lost connection the subscription rebinds itself once the broker is
// reachable again.
func (mq *RabbitMQ) Subscribe(ctx context.Context, queue string, eType event.EventType, handler event.HandlerFunc) error {
	deliveries, err := mq.consume(ctx, queue, string(eType))
	if err != nil {
		return err
	}

	go func() {
		for {
			for delivery := range deliveries {
				mq.handleDelivery(ctx, delivery, handler)
			}

			// The channel or connection dropped. Rebind once the broker is back.
			for {
				select {
				case <-ctx.Done():
					return
				case <-time.After(mq.config.ReconnectInterval):
				}

				deliveries, err = mq.consume(ctx, queue, string(eType))
				if err == nil {
					mq.logger.Log(ctx, "Rebound consumer", "queue", queue, "routingKey", eType)
					break
				}
				mq.logger.Log(ctx, "Failed to rebind consumer", "err", err, "queue", queue, "routingKey", eType)
			}
		}
	}()

	return nil
}

func (mq *RabbitMQ) consume(ctx context.Context, queue, routingKey string) (<-chan amqp.Delivery, error) {
	ch, err := mq.channel(ctx)
	if err != nil {
		return nil, err
	}

	durable := queue != ""

	var args amqp.Table
	if mq.config.DeadLetterExchange != "" {
		args = amqp.Table{"x-dead-letter-exchange": mq.config.DeadLetterExchange}
	}

	q, err := ch.QueueDeclare(
		queue,    // name
		durable,  // durable
		!durable, // delete when unused
		!durable, // exclusive
		false,    // no-wait
		args,     // arguments
	)
	if err != nil {
		ch.Close()
		return nil, err
	}

	err = ch.QueueBind(
		q.Name,       // queue name
		routingKey,   // routing key
		ExchangeName, // exchange
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		ch.Close()
		return nil, err
	}

	deliveries, err := ch.Consume(
		q.Name,          // queue
		mq.consumerName, // consumer
		false,           // auto ack
		false,           // exclusive
		false,           // no local
		false,           // no wait
		nil,             // args
	)
	if err != nil {
		ch.Close()
		return nil, err
	}

	return deliveries, nil
}

func (mq *RabbitMQ) handleDelivery(ctx context.Context, delivery amqp.Delivery, handler event.HandlerFunc) {
	ctx, span := mq.tracer.Start(ctx, "rabbitmq.handleDelivery")
	defer span.End()

	e, err := eventFromDelivery(delivery)
	if err != nil {
		tracing.SetSpanErr(span, err)
		mq.logger.Log(ctx, "Dropping malformed message", "err", err, "routingKey", delivery.RoutingKey)
		if err := delivery.Ack(false); err != nil {
			mq.logger.Log(ctx, "Failed to ack delivery", "err", err)
		}
		return
	}

	if err := handler(ctx, e); err != nil {
		tracing.SetSpanErr(span, err)
		mq.reject(ctx, delivery, err)
		return
	}

	if err := delivery.Ack(false); err != nil {
		mq.logger.Log(ctx, "Failed to ack delivery", "err", err)
	}
}

// reject applies the configured failure policy to a delivery whose handler
// returned an error.
func (mq *RabbitMQ) reject(ctx context.Context, delivery amqp.Delivery, cause error) {
	var err error

	switch mq.config.OnFailure {
	case DropOnFailure:
		mq.logger.Log(ctx, "Dropping failed event", "err", cause, "routingKey", delivery.RoutingKey, "messageId", delivery.MessageId)
		err = delivery.Ack(false)

	case DeadLetterOnFailure:
		mq.logger.Log(ctx, "Dead-lettering failed event", "err", cause, "routingKey", delivery.RoutingKey, "messageId", delivery.MessageId)
		err = delivery.Nack(false, false)

	default: // RequeueOnFailure
		if delivery.Redelivered {
			mq.logger.Log(ctx, "Event failed twice, giving up", "err", cause, "routingKey", delivery.RoutingKey, "messageId", delivery.MessageId)
			err = delivery.Nack(false, false)
			break
		}
		mq.logger.Log(ctx, "Requeueing failed event", "err", cause, "routingKey", delivery.RoutingKey, "messageId", delivery.MessageId)
		err = delivery.Nack(false, true)
	}

	if err != nil {
		mq.logger.Log(ctx, "Failed to settle delivery", "err", err)
	}
}
