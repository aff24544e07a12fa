package mongo

import (
	"context"
	"time"

	"github.com/pulse-social/pulse/pkg/logging"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DB wraps one service's database handle. Collections are exposed through
// the typed stores below, never shared across services.
type DB struct {
	client *mongo.Client
	db     *mongo.Database
	logger logging.Logger
}

func MakeDB(ctx context.Context, uri, name string, logger logging.Logger) (DB, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return DB{}, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		return DB{}, err
	}

	return DB{
		client: client,
		db:     client.Database(name),
		logger: logger,
	}, nil
}

func (db DB) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	return db.client.Disconnect(ctx)
}

// withTransaction runs fn inside a single multi-document transaction.
func (db DB) withTransaction(ctx context.Context, fn func(mongo.SessionContext) error) error {
	session, err := db.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
