// Package media owns media metadata records and their binaries in an
// external blob store. Records are garbage-collected when a post.deleted
// event names them.
package media

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/pulse-social/pulse/pkg/entity"
	"github.com/pulse-social/pulse/pkg/event"
	"github.com/pulse-social/pulse/pkg/logging"
)

const dedupWindowSize = 4096

// Blob identifies a stored binary in the external blob store.
type Blob struct {
	Id  string
	Url string
}

type BlobStore interface {
	Store(ctx context.Context, name, mimeType string, data []byte) (Blob, error)

	// Delete removes a stored binary. Deleting an absent blob is not an error.
	Delete(ctx context.Context, id string) error
}

type Storage interface {
	Insert(ctx context.Context, media entity.Media) error
	FindByIds(ctx context.Context, ids []string, userId string) ([]entity.Media, error)
	ListByUser(ctx context.Context, userId string) ([]entity.Media, error)
	Delete(ctx context.Context, id, userId string) error
}

type Service struct {
	records Storage
	blobs   BlobStore
	dedup   *event.Deduplicator
	logger  logging.Logger
}

func NewService(records Storage, blobs BlobStore, logger logging.Logger) *Service {
	return &Service{
		records: records,
		blobs:   blobs,
		dedup:   event.NewDeduplicator(dedupWindowSize),
		logger:  logger,
	}
}

// Upload stores the binary first and the metadata record second, so a record
// never points at a missing blob.
func (s *Service) Upload(ctx context.Context, userId, name, mimeType string, data []byte) (entity.Media, error) {
	blob, err := s.blobs.Store(ctx, name, mimeType, data)
	if err != nil {
		return entity.Media{}, err
	}

	id, err := uuid.NewV4()
	if err != nil {
		return entity.Media{}, err
	}

	media := entity.Media{
		Id:           id.String(),
		UserId:       userId,
		BlobId:       blob.Id,
		OriginalName: name,
		MimeType:     mimeType,
		Url:          blob.Url,
		CreatedAt:    time.Now(),
	}

	if err := s.records.Insert(ctx, media); err != nil {
		return entity.Media{}, err
	}
	return media, nil
}

func (s *Service) List(ctx context.Context, userId string) ([]entity.Media, error) {
	return s.records.ListByUser(ctx, userId)
}

// EventHandlers returns the handlers registered at the composition root.
func (s *Service) EventHandlers() map[event.EventType][]event.HandlerFunc {
	return map[event.EventType][]event.HandlerFunc{
		event.PostDeleted: {s.handlePostDeleted},
	}
}

// handlePostDeleted cascade-deletes the media named by the event. Each item's
// metadata record is removed only after its blob deletion succeeded, so a
// blob-store failure cannot orphan a remote binary; the failed items are
// retried on redelivery while the rest of the batch still proceeds.
func (s *Service) handlePostDeleted(ctx context.Context, e event.Event) error {
	var payload event.PostDeletedPayload
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

	medias, err := s.records.FindByIds(ctx, payload.MediaIds, payload.UserId)
	if err != nil {
		return err
	}

	var errs []error
	deleted := 0
	for _, media := range medias {
		if err := s.blobs.Delete(ctx, media.BlobId); err != nil {
			errs = append(errs, fmt.Errorf("blob %s: %w", media.BlobId, err))
			continue
		}
		if err := s.records.Delete(ctx, media.Id, payload.UserId); err != nil {
			errs = append(errs, fmt.Errorf("media %s: %w", media.Id, err))
			continue
		}
		deleted++
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}

	s.dedup.Mark(e.Id)
	s.logger.Log(ctx, "Deleted media for post", "postId", payload.PostId, "userId", payload.UserId, "count", deleted)
	return nil
}
