package main

import (
	"context"
	"os"

	"github.com/pulse-social/pulse/pkg/logging"
	"github.com/pulse-social/pulse/pkg/media"
	"github.com/pulse-social/pulse/pkg/media/blob"
	"github.com/pulse-social/pulse/pkg/net/rabbitmq"
	"github.com/pulse-social/pulse/pkg/storage/mongo"
	"go.opentelemetry.io/otel"
)

type Dependencies struct {
	Logger logging.Logger
	Broker *rabbitmq.RabbitMQ
	Media  *media.Service

	db mongo.DB
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

	records, err := mongo.MakeMediaRecords(ctx, db)
	if err != nil {
		panic(err)
	}

	blobs := blob.NewClient(os.Getenv("BLOB_STORE_URL"), os.Getenv("BLOB_STORE_API_KEY"))

	mqUser := os.Getenv("MQ_USER")
	mqPass := os.Getenv("MQ_PASS")
	mqHost := os.Getenv("MQ_HOST")
	mqPort := os.Getenv("MQ_PORT")
	mq := rabbitmq.NewRabbitMQ(serviceName, mqUser, mqPass, mqHost, mqPort, rabbitmq.DefaultConfig(), logger, tracer)

	return Dependencies{
		Logger: logger,
		Broker: mq,
		Media:  media.NewService(records, blobs, logger),
		db:     db,
	}
}

func (d Dependencies) Close(ctx context.Context) {
	if err := d.Broker.Close(); err != nil {
		d.Logger.Log(ctx, "Failed to close broker connection", "err", err)
	}
	if err := d.db.Close(); err != nil {
		d.Logger.Log(ctx, "Failed to close database client", "err", err)
	}
}
