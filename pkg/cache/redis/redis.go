package redis

import (
	"context"
	"errors"
	"time"

	"github.com/pulse-social/pulse/pkg/cache"
	"github.com/pulse-social/pulse/pkg/logging"
	"github.com/pulse-social/pulse/pkg/tracing"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"
)

var _ cache.Cache = (*Redis)(nil)

// scanBatchSize limits how many keys a single SCAN iteration returns during
// pattern invalidation.
const scanBatchSize = 100

type Redis struct {
	client *redis.Client
	logger logging.Logger
	tracer trace.Tracer
}

type tracerProvider struct {
	tracer trace.Tracer
}

func (t tracerProvider) Tracer(string, ...trace.TracerOption) trace.Tracer {
	return t.tracer
}

func MakeCache(host, port, pass string, logger logging.Logger, tracer trace.Tracer) (Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: pass,
		DB:       0, // use default DB
	})

	if err := redisotel.InstrumentTracing(client, redisotel.WithTracerProvider(tracerProvider{tracer: tracer})); err != nil {
		return Redis{}, err
	}

	return Redis{
		client: client,
		logger: logger,
		tracer: tracer,
	}, nil
}

func (c Redis) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c Redis) Close() error {
	return c.client.Close()
}

func (c Redis) Get(ctx context.Context, key string) (_ []byte, err error) {
	ctx, span := c.tracer.Start(ctx, "cache.Get")
	defer span.End()
	defer func() { tracing.SetSpanErr(span, err) }()

	val, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, cache.ErrMiss
		}
		return nil, err
	}
	return val, nil
}

func (c Redis) Set(ctx context.Context, key string, val []byte, ttl time.Duration) (err error) {
	ctx, span := c.tracer.Start(ctx, "cache.Set")
	defer span.End()
	defer func() { tracing.SetSpanErr(span, err) }()

	return c.client.Set(ctx, key, val, ttl).Err()
}

func (c Redis) Del(ctx context.Context, keys ...string) (err error) {
	ctx, span := c.tracer.Start(ctx, "cache.Del")
	defer span.End()
	defer func() { tracing.SetSpanErr(span, err) }()

	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// DelPattern scans for keys matching pattern and deletes them in batches.
// Cost is proportional to the number of matching keys.
func (c Redis) DelPattern(ctx context.Context, pattern string) (err error) {
	ctx, span := c.tracer.Start(ctx, "cache.DelPattern")
	defer span.End()
	defer func() { tracing.SetSpanErr(span, err) }()

	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, scanBatchSize).Result()
		if err != nil {
			return err
		}

		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}

		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}
