package rabbitmq

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pulse-social/pulse/pkg/logging"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/trace"
)

const (
	// ExchangeName is the single topic exchange shared by every service.
	ExchangeName = "pulse_events"
	ExchangeType = amqp.ExchangeTopic
)

type RabbitMQ struct {
	config       Config
	consumerName string

	mu           sync.RWMutex            // Mutex protecting connection when reconnecting.
	url          string                  // Connection string to the broker.
	errC         chan *amqp.Error        // Channel to watch for errors from the broker in order to renew the connection.
	publishQueue chan Message            // Queue for messages waiting to be (re)published.
	readC        chan chan *amqp.Channel // Access channel for obtaining an AMQP channel in a thread-safe way.
	connection   *amqp.Connection
	breaker      *gobreaker.TwoStepCircuitBreaker
	logger       logging.Logger
	tracer       trace.Tracer
}

func NewRabbitMQ(consumerName, user, pass, host, port string, config Config, logger logging.Logger, tracer trace.Tracer) *RabbitMQ {
	return &RabbitMQ{
		config:       config,
		consumerName: consumerName,
		url:          fmt.Sprintf("amqp://%s:%s@%s:%s/", user, pass, host, port),
		publishQueue: make(chan Message, config.QueueSize),
		readC:        make(chan chan *amqp.Channel),
		breaker:      gobreaker.NewTwoStepCircuitBreaker(makeBreakerSettings(config)),
		logger:       logger,
		tracer:       tracer,
	}
}

// Run connects to the broker and starts the connection supervisor. Connect
// failure is logged, not fatal; the supervisor keeps retrying and publish or
// consume calls fail until a connection is up.
func (mq *RabbitMQ) Run(ctx context.Context) {
	if err := mq.dial(); err != nil {
		mq.logger.Log(ctx, "Failed to connect to RabbitMQ", "err", err)
	}

	go mq.watchConnection(ctx)
	go mq.handleChannelRequests(ctx)
	go mq.runPublishQueue(ctx)
}

// Close active connection gracefully.
func (mq *RabbitMQ) Close() error {
	mq.mu.RLock()
	defer mq.mu.RUnlock()

	if mq.connection != nil && !mq.connection.IsClosed() {
		return mq.connection.Close()
	}
	return nil
}

// Dial renews the current TCP connection and the close-notification channel.
func (mq *RabbitMQ) dial() error {
	succeeded, err := mq.breaker.Allow()
	if err != nil {
		return err
	}

	conn, err := amqp.Dial(mq.url)
	if err != nil {
		succeeded(false)
		return err
	}
	succeeded(true)

	mq.mu.Lock()
	defer mq.mu.Unlock()
	mq.connection = conn
	mq.errC = mq.connection.NotifyClose(make(chan *amqp.Error, 1))
	return nil
}

// watchConnection is meant to be run in a separate goroutine. It redials
// whenever the current connection reports a connection-level error.
func (mq *RabbitMQ) watchConnection(ctx context.Context) {
	for {
		mq.mu.RLock()
		errC := mq.errC
		mq.mu.RUnlock()

		if errC != nil {
			select {
			case <-ctx.Done():
				return
			case e := <-errC:
				if e != nil && !isConnectionError(e) {
					continue
				}
			}
		}

		for {
			if ctx.Err() != nil {
				return
			}
			if err := mq.dial(); err == nil {
				break
			}
			mq.logger.Log(ctx, "Reconnecting to RabbitMQ")
			time.Sleep(mq.config.ReconnectInterval)
		}
	}
}

// handleChannelRequests is meant to be run in a separate goroutine. It is the
// single owner of the connection handle; every publisher and consumer obtains
// channels through it.
func (mq *RabbitMQ) handleChannelRequests(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-mq.readC:
			channel, err := mq.openChannel()
			if err != nil {
				mq.logger.Log(ctx, "Failed to open a channel", "err", err)
			}
			req <- channel
		}
	}
}

func (mq *RabbitMQ) openChannel() (*amqp.Channel, error) {
	mq.mu.RLock()
	conn := mq.connection
	mq.mu.RUnlock()

	if conn == nil || conn.IsClosed() {
		if err := mq.dial(); err != nil {
			return nil, err
		}
		mq.mu.RLock()
		conn = mq.connection
		mq.mu.RUnlock()
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}

	err = ch.ExchangeDeclare(
		ExchangeName, // name
		ExchangeType, // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		ch.Close()
		return nil, err
	}

	return ch, nil
}

// channel requests an open AMQP channel with the exchange declared.
// The caller owns the returned channel and must close it.
func (mq *RabbitMQ) channel(ctx context.Context) (*amqp.Channel, error) {
	ask := make(chan *amqp.Channel)

	select {
	case mq.readC <- ask:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case ch := <-ask:
		if ch == nil {
			return nil, ErrUnavailable
		}
		return ch, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
