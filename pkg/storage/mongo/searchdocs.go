package mongo

import (
	"context"

	"github.com/pulse-social/pulse/pkg/entity"
	"github.com/pulse-social/pulse/pkg/storage"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// searchResultLimit caps full-text query results.
const searchResultLimit = 10

type SearchDocs struct {
	col *mongo.Collection
}

func MakeSearchDocs(ctx context.Context, db DB) (SearchDocs, error) {
	col := db.db.Collection("search_docs")

	_, err := col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "post_id", Value: 1}, {Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "content", Value: "text"}},
		},
	})
	if err != nil {
		return SearchDocs{}, err
	}

	return SearchDocs{col: col}, nil
}

// Insert adds a projection of a post to the index. A duplicate of the
// (post_id, user_id) key returns storage.ErrAlreadyExists.
func (s SearchDocs) Insert(ctx context.Context, doc entity.SearchDoc) error {
	_, err := s.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return storage.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Delete removes the projection by its compound key. Absence of a match is
// not an error.
func (s SearchDocs) Delete(ctx context.Context, postId, userId string) error {
	_, err := s.col.DeleteOne(ctx, bson.M{"post_id": postId, "user_id": userId})
	return err
}

// Search runs a full-text query over post content, best matches first.
func (s SearchDocs) Search(ctx context.Context, query string) ([]entity.SearchDoc, error) {
	filter := bson.M{"$text": bson.M{"$search": query}}

	opts := options.Find().
		SetProjection(bson.M{"score": bson.M{"$meta": "textScore"}}).
		SetSort(bson.M{"score": bson.M{"$meta": "textScore"}}).
		SetLimit(searchResultLimit)

	cursor, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	docs := make([]entity.SearchDoc, 0, searchResultLimit)
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}
