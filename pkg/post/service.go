// Package post implements the write path of the post service and its
// read-through cache. A post mutation commits together with an outbox entry;
// the relay publishes the entry afterwards, and related cache keys are
// invalidated best-effort.
package post

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/gofrs/uuid"
	"github.com/pulse-social/pulse/pkg/cache"
	"github.com/pulse-social/pulse/pkg/entity"
	"github.com/pulse-social/pulse/pkg/event"
	"github.com/pulse-social/pulse/pkg/logging"
	"github.com/pulse-social/pulse/pkg/outbox"
)

const defaultPageSize = 10

type Storage interface {
	CreateWithEvent(ctx context.Context, post entity.Post, entry outbox.Entry) error
	DeleteWithEvent(ctx context.Context, postId, userId string, entry outbox.Entry) error
	Get(ctx context.Context, postId, userId string) (entity.Post, error)
	GetPage(ctx context.Context, userId string, page, limit int) ([]entity.Post, int64, error)
}

// ListResult is the cached unit for paginated listing reads.
type ListResult struct {
	Posts      []entity.Post `json:"posts"`
	TotalPosts int64         `json:"total_posts"`
	TotalPages int           `json:"total_pages"`
}

type Service struct {
	storage Storage
	cache   cache.Cache
	logger  logging.Logger
}

func NewService(storage Storage, cache cache.Cache, logger logging.Logger) *Service {
	return &Service{
		storage: storage,
		cache:   cache,
		logger:  logger,
	}
}

// Create commits the post and its post.created event atomically, then
// invalidates the listing cache.
func (s *Service) Create(ctx context.Context, userId, content string, mediaIds []string) (entity.Post, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return entity.Post{}, err
	}

	if mediaIds == nil {
		mediaIds = []string{}
	}

	post := entity.Post{
		Id:        id.String(),
		UserId:    userId,
		Content:   content,
		MediaIds:  mediaIds,
		CreatedAt: time.Now(),
	}

	e, err := event.MakeEvent(event.PostCreated, event.PostCreatedPayload{
		PostId:  post.Id,
		UserId:  userId,
		Content: content,
	})
	if err != nil {
		return entity.Post{}, err
	}

	if err := s.storage.CreateWithEvent(ctx, post, outbox.EntryFromEvent(e)); err != nil {
		return entity.Post{}, err
	}

	s.invalidateLists(ctx)
	return post, nil
}

// Delete commits the post deletion and its post.deleted event atomically.
// The event carries the post's media IDs since the record is gone by the
// time consumers act on it.
func (s *Service) Delete(ctx context.Context, postId, userId string) error {
	post, err := s.storage.Get(ctx, postId, userId)
	if err != nil {
		return err
	}

	mediaIds := post.MediaIds
	if mediaIds == nil {
		mediaIds = []string{}
	}

	e, err := event.MakeEvent(event.PostDeleted, event.PostDeletedPayload{
		PostId:    postId,
		UserId:    userId,
		MediaIds:  mediaIds,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}

	if err := s.storage.DeleteWithEvent(ctx, postId, userId, outbox.EntryFromEvent(e)); err != nil {
		return err
	}

	if err := s.cache.Del(ctx, cache.PostKey(postId)); err != nil {
		s.logger.Log(ctx, "Failed to invalidate post cache", "err", err, "postId", postId)
	}
	s.invalidateLists(ctx)
	return nil
}

// Get serves the post detail through the cache. A cache failure degrades to
// a primary-store read.
func (s *Service) Get(ctx context.Context, postId, userId string) (entity.Post, error) {
	key := cache.PostKey(postId)

	if data, err := s.cache.Get(ctx, key); err == nil {
		var post entity.Post
		if err := json.Unmarshal(data, &post); err == nil {
			return post, nil
		}
		s.logger.Log(ctx, "Dropping corrupt cache entry", "key", key)
	} else if !errors.Is(err, cache.ErrMiss) {
		s.logger.Log(ctx, "Cache read failed", "err", err, "key", key)
	}

	post, err := s.storage.Get(ctx, postId, userId)
	if err != nil {
		return entity.Post{}, err
	}

	s.fill(ctx, key, post)
	return post, nil
}

// List serves one page of the user's posts through the cache.
func (s *Service) List(ctx context.Context, userId string, page, limit int) (ListResult, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}

	key := cache.PostsKey(page, limit)

	if data, err := s.cache.Get(ctx, key); err == nil {
		var result ListResult
		if err := json.Unmarshal(data, &result); err == nil {
			return result, nil
		}
		s.logger.Log(ctx, "Dropping corrupt cache entry", "key", key)
	} else if !errors.Is(err, cache.ErrMiss) {
		s.logger.Log(ctx, "Cache read failed", "err", err, "key", key)
	}

	posts, total, err := s.storage.GetPage(ctx, userId, page, limit)
	if err != nil {
		return ListResult{}, err
	}

	result := ListResult{
		Posts:      posts,
		TotalPosts: total,
		TotalPages: int((total + int64(limit) - 1) / int64(limit)),
	}

	s.fill(ctx, key, result)
	return result, nil
}

// fill populates a cache key best-effort.
func (s *Service) fill(ctx context.Context, key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, cache.DefaultTTL); err != nil {
		s.logger.Log(ctx, "Cache write failed", "err", err, "key", key)
	}
}

// invalidateLists drops every paginated listing key. List results are not
// addressable by the mutated post, so the whole namespace goes. Failure only
// means a stale window until TTL expiry.
func (s *Service) invalidateLists(ctx context.Context) {
	if err := s.cache.DelPattern(ctx, cache.PostsKeyPattern); err != nil {
		s.logger.Log(ctx, "Failed to invalidate post list cache", "err", err)
	}
}
