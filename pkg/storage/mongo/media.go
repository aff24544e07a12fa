package mongo

import (
	"context"

	"github.com/pulse-social/pulse/pkg/entity"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MediaRecords struct {
	col *mongo.Collection
}

func MakeMediaRecords(ctx context.Context, db DB) (MediaRecords, error) {
	col := db.db.Collection("media")

	_, err := col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		return MediaRecords{}, err
	}

	return MediaRecords{col: col}, nil
}

func (m MediaRecords) Insert(ctx context.Context, media entity.Media) error {
	_, err := m.col.InsertOne(ctx, media)
	return err
}

// FindByIds returns media records matching any of ids and owned by userId.
// Cross-service references are soft, so missing IDs are simply not returned.
func (m MediaRecords) FindByIds(ctx context.Context, ids []string, userId string) ([]entity.Media, error) {
	cursor, err := m.col.Find(ctx, bson.M{
		"_id":     bson.M{"$in": ids},
		"user_id": userId,
	})
	if err != nil {
		return nil, err
	}

	medias := make([]entity.Media, 0, len(ids))
	if err := cursor.All(ctx, &medias); err != nil {
		return nil, err
	}
	return medias, nil
}

func (m MediaRecords) ListByUser(ctx context.Context, userId string) ([]entity.Media, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := m.col.Find(ctx, bson.M{"user_id": userId}, opts)
	if err != nil {
		return nil, err
	}

	var medias []entity.Media
	if err := cursor.All(ctx, &medias); err != nil {
		return nil, err
	}
	return medias, nil
}

// Delete removes a single media record. Absence of a match is not an error.
func (m MediaRecords) Delete(ctx context.Context, id, userId string) error {
	_, err := m.col.DeleteOne(ctx, bson.M{"_id": id, "user_id": userId})
	return err
}
