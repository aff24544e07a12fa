package main

import (
	"context"
	"os"
	"time"

	"github.com/pulse-social/pulse/pkg/cache/redis"
	"github.com/pulse-social/pulse/pkg/logging"
	"github.com/pulse-social/pulse/pkg/net/rabbitmq"
	"github.com/pulse-social/pulse/pkg/outbox"
	"github.com/pulse-social/pulse/pkg/post"
	"github.com/pulse-social/pulse/pkg/storage/mongo"
	"go.opentelemetry.io/otel"
)

const (
	relayInterval  = time.Second
	relayBatchSize = 100
)

type Dependencies struct {
	Logger logging.Logger
	Broker *rabbitmq.RabbitMQ
	Relay  *outbox.Relay

	// Posts is the domain API handed to the request transport, which is
	// deployed separately behind the gateway.
	Posts *post.Service

	db    mongo.DB
	cache redis.Redis
}

func getServiceDependencies(ctx context.Context) Dependencies {
	logger, err := logging.NewLogger()
	if err != nil {
		panic(err)
	}

	tracer := otel.Tracer(serviceName)

	dbUri := os.Getenv("DB_URI")
	dbName := os.Getenv("DB_NAME")
	db, err := mongo.MakeDB(ctx, dbUri, dbName, logger)
	if err != nil {
		panic(err)
	}

	outboxStore, err := mongo.MakeOutbox(ctx, db)
	if err != nil {
		panic(err)
	}

	posts, err := mongo.MakePosts(ctx, db, outboxStore)
	if err != nil {
		panic(err)
	}

	cacheHost := os.Getenv("CACHE_HOST")
	cachePort := os.Getenv("CACHE_PORT")
	cachePass := os.Getenv("CACHE_PASS")
	postCache, err := redis.MakeCache(cacheHost, cachePort, cachePass, logger, tracer)
	if err != nil {
		panic(err)
	}

	mqUser := os.Getenv("MQ_USER")
	mqPass := os.Getenv("MQ_PASS")
	mqHost := os.Getenv("MQ_HOST")
	mqPort := os.Getenv("MQ_PORT")
	mq := rabbitmq.NewRabbitMQ(serviceName, mqUser, mqPass, mqHost, mqPort, rabbitmq.DefaultConfig(), logger, tracer)

	return Dependencies{
		Logger: logger,
		Broker: mq,
		Relay:  outbox.NewRelay(outboxStore, mq, logger, relayInterval, relayBatchSize),
		Posts:  post.NewService(posts, postCache, logger),
		db:     db,
		cache:  postCache,
	}
}

func (d Dependencies) Close(ctx context.Context) {
	if err := d.Broker.Close(); err != nil {
		d.Logger.Log(ctx, "Failed to close broker connection", "err", err)
	}
	if err := d.cache.Close(); err != nil {
		d.Logger.Log(ctx, "Failed to close cache client", "err", err)
	}
	if err := d.db.Close(); err != nil {
		d.Logger.Log(ctx, "Failed to close database client", "err", err)
	}
}
