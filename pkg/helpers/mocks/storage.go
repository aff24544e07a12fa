package mocks

import (
	"context"

	"github.com/pulse-social/pulse/pkg/entity"
	"github.com/pulse-social/pulse/pkg/media"
	"github.com/pulse-social/pulse/pkg/outbox"
	"github.com/pulse-social/pulse/pkg/post"
	"github.com/pulse-social/pulse/pkg/search"
	"github.com/stretchr/testify/mock"
)

var _ post.Storage = (*PostStorage)(nil)

type PostStorage struct {
	*mock.Mock
}

func NewPostStorage() PostStorage {
	return PostStorage{Mock: new(mock.Mock)}
}

func (m PostStorage) CreateWithEvent(ctx context.Context, p entity.Post, entry outbox.Entry) error {
	args := m.Called(ctx, p, entry)
	return args.Error(0)
}

func (m PostStorage) DeleteWithEvent(ctx context.Context, postId, userId string, entry outbox.Entry) error {
	args := m.Called(ctx, postId, userId, entry)
	return args.Error(0)
}

func (m PostStorage) Get(ctx context.Context, postId, userId string) (entity.Post, error) {
	args := m.Called(ctx, postId, userId)
	return args.Get(0).(entity.Post), args.Error(1)
}

func (m PostStorage) GetPage(ctx context.Context, userId string, page, limit int) ([]entity.Post, int64, error) {
	args := m.Called(ctx, userId, page, limit)
	posts, _ := args.Get(0).([]entity.Post)
	return posts, args.Get(1).(int64), args.Error(2)
}

var _ search.Storage = (*SearchStorage)(nil)

type SearchStorage struct {
	*mock.Mock
}

func NewSearchStorage() SearchStorage {
	return SearchStorage{Mock: new(mock.Mock)}
}

func (m SearchStorage) Insert(ctx context.Context, doc entity.SearchDoc) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m SearchStorage) Delete(ctx context.Context, postId, userId string) error {
	args := m.Called(ctx, postId, userId)
	return args.Error(0)
}

func (m SearchStorage) Search(ctx context.Context, query string) ([]entity.SearchDoc, error) {
	args := m.Called(ctx, query)
	docs, _ := args.Get(0).([]entity.SearchDoc)
	return docs, args.Error(1)
}

var _ media.Storage = (*MediaStorage)(nil)

type MediaStorage struct {
	*mock.Mock
}

func NewMediaStorage() MediaStorage {
	return MediaStorage{Mock: new(mock.Mock)}
}

func (m MediaStorage) Insert(ctx context.Context, media entity.Media) error {
	args := m.Called(ctx, media)
	return args.Error(0)
}

func (m MediaStorage) FindByIds(ctx context.Context, ids []string, userId string) ([]entity.Media, error) {
	args := m.Called(ctx, ids, userId)
	medias, _ := args.Get(0).([]entity.Media)
	return medias, args.Error(1)
}

func (m MediaStorage) ListByUser(ctx context.Context, userId string) ([]entity.Media, error) {
	args := m.Called(ctx, userId)
	medias, _ := args.Get(0).([]entity.Media)
	return medias, args.Error(1)
}

func (m MediaStorage) Delete(ctx context.Context, id, userId string) error {
	args := m.Called(ctx, id, userId)
	return args.Error(0)
}

var _ media.BlobStore = (*BlobStore)(nil)

type BlobStore struct {
	*mock.Mock
}

func NewBlobStore() BlobStore {
	return BlobStore{Mock: new(mock.Mock)}
}

func (m BlobStore) Store(ctx context.Context, name, mimeType string, data []byte) (media.Blob, error) {
	args := m.Called(ctx, name, mimeType, data)
	return args.Get(0).(media.Blob), args.Error(1)
}

func (m BlobStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
