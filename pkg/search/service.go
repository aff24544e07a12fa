// Package search keeps a denormalized, full-text-indexed projection of posts
// in sync by consuming post events, and answers text queries against it.
package search

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/pulse-social/pulse/pkg/entity"
	"github.com/pulse-social/pulse/pkg/event"
	"github.com/pulse-social/pulse/pkg/logging"
	"github.com/pulse-social/pulse/pkg/storage"
)

const dedupWindowSize = 4096

var ErrEmptyQuery = errors.New("search: empty query")

type Storage interface {
	Insert(ctx context.Context, doc entity.SearchDoc) error
	Delete(ctx context.Context, postId, userId string) error
	Search(ctx context.Context, query string) ([]entity.SearchDoc, error)
}

type Service struct {
	docs   Storage
	dedup  *event.Deduplicator
	logger logging.Logger
}

func NewService(docs Storage, logger logging.Logger) *Service {
	return &Service{
		docs:   docs,
		dedup:  event.NewDeduplicator(dedupWindowSize),
		logger: logger,
	}
}

// SearchPosts returns the posts best matching query.
func (s *Service) SearchPosts(ctx context.Context, query string) ([]entity.SearchDoc, error) {
	if query == "" {
		return nil, ErrEmptyQuery
	}
	return s.docs.Search(ctx, query)
}

// EventHandlers returns the handlers registered at the composition root.
func (s *Service) EventHandlers() map[event.EventType][]event.HandlerFunc {
	return map[event.EventType][]event.HandlerFunc{
		event.PostCreated: {s.handlePostCreated},
		event.PostDeleted: {s.handlePostDeleted},
	}
}

// handlePostCreated indexes a new post. Invalid payloads are logged and
// dropped; a duplicate of an already-indexed post is treated as applied.
func (s *Service) handlePostCreated(ctx context.Context, e event.Event) error {
	var payload event.PostCreatedPayload
	if err := json.Unmarshal(e.Body, &payload); err != nil {
		s.logger.Log(ctx, "Dropping unparseable event", "err", err, "type", e.Type)
		return nil
	}
	if err := payload.Validate(); err != nil {
		s.logger.Log(ctx, "Dropping invalid event", "err", err, "type", e.Type)
		return nil
	}

	if s.dedup.Seen(e.Id) {
		s.logger.Log(ctx, "Skipping duplicate event", "id", e.Id, "type", e.Type)
		return nil
	}

	doc := entity.SearchDoc{
		PostId:  payload.PostId,
		UserId:  payload.UserId,
		Content: payload.Content,
	}

	if err := s.docs.Insert(ctx, doc); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			s.logger.Log(ctx, "Post already indexed", "postId", payload.PostId)
			s.dedup.Mark(e.Id)
			return nil
		}
		return err
	}

	s.dedup.Mark(e.Id)
	s.logger.Log(ctx, "Indexed post", "postId", payload.PostId, "userId", payload.UserId)
	return nil
}

// handlePostDeleted removes the post's projection. Deleting an absent
// projection is a no-op, so redeliveries are safe.
func (s *Service) handlePostDeleted(ctx context.Context, e event.Event) error {
	var payload event.PostDeletedPayload
	if err := json.Unmarshal(e.Body, &payload); err != nil {
		s.logger.Log(ctx, "Dropping unparseable event", "err", err, "type", e.Type)
		return nil
	}
	if payload.PostId == "" || payload.UserId == "" {
		s.logger.Log(ctx, "Dropping invalid event", "err", event.ErrInvalidPayload, "type", e.Type)
		return nil
	}

	if s.dedup.Seen(e.Id) {
		s.logger.Log(ctx, "Skipping duplicate event", "id", e.Id, "type", e.Type)
		return nil
	}

	if err := s.docs.Delete(ctx, payload.PostId, payload.UserId); err != nil {
		return err
	}

	s.dedup.Mark(e.Id)
	s.logger.Log(ctx, "Removed post from index", "postId", payload.PostId, "userId", payload.UserId)
	return nil
}
