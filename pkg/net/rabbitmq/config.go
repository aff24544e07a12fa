package rabbitmq

import (
	"time"
)

// FailurePolicy decides what happens to a delivery whose handler returned an
// error. Validation failures never reach the policy, handlers drop those
// themselves; the policy applies to store and transport failures.
type FailurePolicy int

const (
	// RequeueOnFailure redelivers a failed event once. A redelivered event
	// that fails again is routed to the dead letter exchange when one is
	// configured and dropped otherwise.
	RequeueOnFailure FailurePolicy = iota

	// DropOnFailure acknowledges failed events, losing them.
	DropOnFailure

	// DeadLetterOnFailure routes failed events to the dead letter exchange
	// without redelivery.
	DeadLetterOnFailure
)

type Config struct {
	QueueSize          int           // Max number of messages internally queued for publishing.
	ReconnectInterval  time.Duration // Time between reconnect and rebind attempts.
	OnFailure          FailurePolicy // Applied when a handler returns a non-nil error.
	DeadLetterExchange string        // Declared as x-dead-letter-exchange on consumer queues when set.

	// Settings for the internal circuit breaker.
	MaxRequests   uint32        // Number of requests allowed in half-open state.
	ClearInterval time.Duration // Time after which failed calls count is cleared.
	ClosedTimeout time.Duration // Time after which open state becomes half-open.
}

func DefaultConfig() Config {
	return Config{
		QueueSize:         100,
		ReconnectInterval: time.Second * 2,
		OnFailure:         RequeueOnFailure,
		MaxRequests:       10,
		ClearInterval:     time.Second * 10,
		ClosedTimeout:     time.Second * 10,
	}
}
