package outbox

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/pulse-social/pulse/pkg/event"
	"github.com/pulse-social/pulse/pkg/logging"
)

var (
	eventsPublished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "outbox_events_published_total",
		Help: "The total number of outbox entries relayed to the broker",
	})
	publishErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "outbox_publish_errors_total",
		Help: "The total number of failed publish attempts",
	})
)

// maxPublishRetries bounds per-entry publish attempts within one drain pass.
// Entries that still fail stay pending and are retried on the next tick.
const maxPublishRetries = 5

// Relay polls the outbox store and publishes pending entries to the broker,
// marking them only after the broker accepted them. Delivery is therefore
// at-least-once; consumers deduplicate by event ID.
type Relay struct {
	store     Store
	publisher event.Publisher
	logger    logging.Logger
	interval  time.Duration
	batchSize int
}

func NewRelay(store Store, publisher event.Publisher, logger logging.Logger, interval time.Duration, batchSize int) *Relay {
	return &Relay{
		store:     store,
		publisher: publisher,
		logger:    logger,
		interval:  interval,
		batchSize: batchSize,
	}
}

// Run blocks until ctx is canceled, draining the outbox every interval.
func (r *Relay) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.drain(ctx)
		}
	}
}

func (r *Relay) drain(ctx context.Context) {
	for {
		entries, err := r.store.FetchPending(ctx, r.batchSize)
		if err != nil {
			r.logger.Log(ctx, "Failed to fetch pending outbox entries", "err", err)
			return
		}
		if len(entries) == 0 {
			return
		}

		published := make([]string, 0, len(entries))
		for _, entry := range entries {
			if err := r.publishEntry(ctx, entry); err != nil {
				// Stop at the first failure to keep publish order; the rest
				// of the batch stays pending.
				r.logger.Log(ctx, "Failed to publish outbox entry", "err", err, "id", entry.Id, "eventType", entry.EventType)
				break
			}
			published = append(published, entry.Id)
			eventsPublished.Inc()
		}

		if len(published) > 0 {
			if err := r.store.MarkPublished(ctx, published...); err != nil {
				r.logger.Log(ctx, "Failed to mark outbox entries as published", "err", err)
				return
			}
		}

		if len(published) < len(entries) {
			return
		}
	}
}

func (r *Relay) publishEntry(ctx context.Context, entry Entry) error {
	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxPublishRetries)

	return backoff.Retry(func() error {
		pubCtx, cancel := context.WithTimeout(ctx, time.Second*5)
		defer cancel()

		if err := r.publisher.Publish(pubCtx, entry.Event()); err != nil {
			publishErrors.Inc()
			return err
		}
		return nil
	}, backoff.WithContext(policy, ctx))
}
