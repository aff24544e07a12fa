package rabbitmq

import (
	"errors"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sony/gobreaker"
)

// ErrUnavailable is returned when no broker connection could be established.
var ErrUnavailable = errors.New("rabbitmq: broker unavailable")

func makeBreakerSettings(config Config) gobreaker.Settings {
	return gobreaker.Settings{
		Name:        "rabbitmq",
		MaxRequests: config.MaxRequests,
		Interval:    config.ClearInterval,
		Timeout:     config.ClosedTimeout,
	}
}

// isConnectionError reports whether err renders the whole connection
// unusable, as opposed to a channel-level error which only invalidates the
// channel it occurred on.
func isConnectionError(err error) bool {
	var amqpErr *amqp.Error
	if !errors.As(err, &amqpErr) {
		return false
	}

	switch amqpErr.Code {
	case
		amqp.ContentTooLarge,    // 311
		amqp.NoConsumers,        // 313
		amqp.AccessRefused,      // 403
		amqp.NotFound,           // 404
		amqp.ResourceLocked,     // 405
		amqp.PreconditionFailed: // 406
		return false
	default:
		return true
	}
}
