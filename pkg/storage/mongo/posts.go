package mongo

import (
	"context"
	"errors"

	"github.com/pulse-social/pulse/pkg/entity"
	"github.com/pulse-social/pulse/pkg/outbox"
	"github.com/pulse-social/pulse/pkg/storage"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Posts struct {
	db     DB
	col    *mongo.Collection
	outbox Outbox
}

func MakePosts(ctx context.Context, db DB, outbox Outbox) (Posts, error) {
	col := db.db.Collection("posts")

	_, err := col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		return Posts{}, err
	}

	return Posts{
		db:     db,
		col:    col,
		outbox: outbox,
	}, nil
}

// CreateWithEvent inserts the post and appends the outbox entry in one
// transaction, so the mutation and its event are committed or rolled back
// together.
func (p Posts) CreateWithEvent(ctx context.Context, post entity.Post, entry outbox.Entry) error {
	return p.db.withTransaction(ctx, func(sc mongo.SessionContext) error {
		if _, err := p.col.InsertOne(sc, post); err != nil {
			return err
		}
		return p.outbox.Append(sc, entry)
	})
}

// DeleteWithEvent removes the post and appends the outbox entry in one
// transaction. Returns storage.ErrNotFound if the post vanished since it was
// last read.
func (p Posts) DeleteWithEvent(ctx context.Context, postId, userId string, entry outbox.Entry) error {
	return p.db.withTransaction(ctx, func(sc mongo.SessionContext) error {
		res, err := p.col.DeleteOne(sc, bson.M{"_id": postId, "user_id": userId})
		if err != nil {
			return err
		}
		if res.DeletedCount == 0 {
			return storage.ErrNotFound
		}
		return p.outbox.Append(sc, entry)
	})
}

func (p Posts) Get(ctx context.Context, postId, userId string) (entity.Post, error) {
	var post entity.Post
	err := p.col.FindOne(ctx, bson.M{"_id": postId, "user_id": userId}).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return entity.Post{}, storage.ErrNotFound
		}
		return entity.Post{}, err
	}
	return post, nil
}

// GetPage returns one page of the user's posts, newest first, together with
// the total number of posts.
func (p Posts) GetPage(ctx context.Context, userId string, page, limit int) ([]entity.Post, int64, error) {
	filter := bson.M{"user_id": userId}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := p.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}

	posts := make([]entity.Post, 0, limit)
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, 0, err
	}

	total, err := p.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}
