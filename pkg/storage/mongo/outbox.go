package mongo

import (
	"context"
	"time"

	"github.com/pulse-social/pulse/pkg/outbox"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ outbox.Store = (*Outbox)(nil)

type Outbox struct {
	col *mongo.Collection
}

func MakeOutbox(ctx context.Context, db DB) (Outbox, error) {
	col := db.db.Collection("outbox")

	_, err := col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "published", Value: 1}, {Key: "created_at", Value: 1}},
	})
	if err != nil {
		return Outbox{}, err
	}

	return Outbox{col: col}, nil
}

func (o Outbox) Append(ctx context.Context, entry outbox.Entry) error {
	_, err := o.col.InsertOne(ctx, entry)
	return err
}

func (o Outbox) FetchPending(ctx context.Context, limit int) ([]outbox.Entry, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := o.col.Find(ctx, bson.M{"published": false}, opts)
	if err != nil {
		return nil, err
	}

	entries := make([]outbox.Entry, 0, limit)
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (o Outbox) MarkPublished(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}

	_, err := o.col.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		bson.M{"$set": bson.M{"published": true, "published_at": time.Now()}},
	)
	return err
}
