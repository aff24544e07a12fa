package post_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/pulse-social/pulse/pkg/cache"
	"github.com/pulse-social/pulse/pkg/entity"
	"github.com/pulse-social/pulse/pkg/event"
	"github.com/pulse-social/pulse/pkg/helpers/gentest"
	"github.com/pulse-social/pulse/pkg/helpers/mocks"
	"github.com/pulse-social/pulse/pkg/nulls"
	"github.com/pulse-social/pulse/pkg/outbox"
	"github.com/pulse-social/pulse/pkg/post"
	"github.com/pulse-social/pulse/pkg/storage"
	"github.com/stretchr/testify/mock"
)

func setUpService(storage post.Storage, c cache.Cache) *post.Service {
	return post.NewService(storage, c, nulls.NullLogger{})
}

func TestCreate(t *testing.T) {
	t.Run("Test if the post and its event commit together", func(t *testing.T) {
		var gotEntry outbox.Entry
		var gotPost entity.Post

		m := mocks.NewPostStorage()
		m.On("CreateWithEvent", mock.Anything, mock.AnythingOfType("entity.Post"), mock.AnythingOfType("outbox.Entry")).Run(func(args mock.Arguments) {
			gotPost = args.Get(1).(entity.Post)
			gotEntry = args.Get(2).(outbox.Entry)
		}).Return(nil).Once()

		c := mocks.NewCache()
		c.On("DelPattern", mock.Anything, cache.PostsKeyPattern).Return(nil).Once()

		created, err := setUpService(m, c).Create(context.Background(), "u1", "hello", []string{"m1"})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		if created.Id == "" {
			t.Errorf("Create() did not assign a post ID")
		}
		if !cmp.Equal(gotPost, created) {
			t.Errorf("Stored post differs from returned post:\n%s", cmp.Diff(gotPost, created))
		}

		if gotEntry.EventType != event.PostCreated {
			t.Errorf("Outbox entry type = %v, want %v", gotEntry.EventType, event.PostCreated)
		}
		if gotEntry.Id == "" {
			t.Errorf("Outbox entry has no event ID")
		}

		var payload event.PostCreatedPayload
		if err := json.Unmarshal(gotEntry.Body, &payload); err != nil {
			t.Fatalf("Failed to unmarshal outbox entry body, err: %v", err)
		}
		want := event.PostCreatedPayload{PostId: created.Id, UserId: "u1", Content: "hello"}
		if !cmp.Equal(payload, want) {
			t.Errorf("Outbox payload:\n%s", cmp.Diff(payload, want))
		}

		m.AssertExpectations(t)
		c.AssertExpectations(t)
	})

	t.Run("Test if a storage failure surfaces and skips invalidation", func(t *testing.T) {
		wantErr := errors.New("storage down")

		m := mocks.NewPostStorage()
		m.On("CreateWithEvent", mock.Anything, mock.AnythingOfType("entity.Post"), mock.AnythingOfType("outbox.Entry")).Return(wantErr).Once()

		c := mocks.NewCache()

		_, err := setUpService(m, c).Create(context.Background(), "u1", "hello", nil)
		if !errors.Is(err, wantErr) {
			t.Errorf("Create() error = %v, want %v", err, wantErr)
		}

		m.AssertExpectations(t)
		c.AssertNotCalled(t, "DelPattern", mock.Anything, mock.Anything)
	})
}

func TestDelete(t *testing.T) {
	t.Run("Test if the event carries the post's media IDs", func(t *testing.T) {
		existing := gentest.RandomPost(2)
		var gotEntry outbox.Entry

		m := mocks.NewPostStorage()
		m.On("Get", mock.Anything, existing.Id, existing.UserId).Return(existing, nil).Once()
		m.On("DeleteWithEvent", mock.Anything, existing.Id, existing.UserId, mock.AnythingOfType("outbox.Entry")).Run(func(args mock.Arguments) {
			gotEntry = args.Get(3).(outbox.Entry)
		}).Return(nil).Once()

		c := mocks.NewCache()
		c.On("Del", mock.Anything, []string{cache.PostKey(existing.Id)}).Return(nil).Once()
		c.On("DelPattern", mock.Anything, cache.PostsKeyPattern).Return(nil).Once()

		if err := setUpService(m, c).Delete(context.Background(), existing.Id, existing.UserId); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}

		if gotEntry.EventType != event.PostDeleted {
			t.Errorf("Outbox entry type = %v, want %v", gotEntry.EventType, event.PostDeleted)
		}

		var payload event.PostDeletedPayload
		if err := json.Unmarshal(gotEntry.Body, &payload); err != nil {
			t.Fatalf("Failed to unmarshal outbox entry body, err: %v", err)
		}
		if !cmp.Equal(payload.MediaIds, existing.MediaIds) {
			t.Errorf("Event media IDs:\n%s", cmp.Diff(payload.MediaIds, existing.MediaIds))
		}
		if _, err := time.Parse(time.RFC3339, payload.Timestamp); err != nil {
			t.Errorf("Event timestamp %q is not RFC3339, err: %v", payload.Timestamp, err)
		}

		m.AssertExpectations(t)
		c.AssertExpectations(t)
	})

	t.Run("Test if a missing post surfaces without emitting an event", func(t *testing.T) {
		m := mocks.NewPostStorage()
		m.On("Get", mock.Anything, "p1", "u1").Return(entity.Post{}, storage.ErrNotFound).Once()

		c := mocks.NewCache()

		err := setUpService(m, c).Delete(context.Background(), "p1", "u1")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Delete() error = %v, want %v", err, storage.ErrNotFound)
		}

		m.AssertNotCalled(t, "DeleteWithEvent", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Test if a cache invalidation failure does not fail the delete", func(t *testing.T) {
		existing := gentest.RandomPost(0)

		m := mocks.NewPostStorage()
		m.On("Get", mock.Anything, existing.Id, existing.UserId).Return(existing, nil).Once()
		m.On("DeleteWithEvent", mock.Anything, existing.Id, existing.UserId, mock.AnythingOfType("outbox.Entry")).Return(nil).Once()

		c := mocks.NewCache()
		c.On("Del", mock.Anything, mock.Anything).Return(errors.New("cache down")).Once()
		c.On("DelPattern", mock.Anything, mock.Anything).Return(errors.New("cache down")).Once()

		if err := setUpService(m, c).Delete(context.Background(), existing.Id, existing.UserId); err != nil {
			t.Errorf("Delete() error = %v", err)
		}

		m.AssertExpectations(t)
		c.AssertExpectations(t)
	})
}

func TestGet(t *testing.T) {
	t.Run("Test if a cache hit suppresses the storage read", func(t *testing.T) {
		want := gentest.RandomPost(1)

		m := mocks.NewPostStorage()

		c := mocks.NewCache()
		c.On("Get", mock.Anything, cache.PostKey(want.Id)).Return(gentest.MustMarshal(want), nil).Once()

		got, err := setUpService(m, c).Get(context.Background(), want.Id, want.UserId)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if !cmp.Equal(got, want) {
			t.Errorf("Get():\n%s", cmp.Diff(got, want))
		}

		m.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
		c.AssertExpectations(t)
	})

	t.Run("Test if a cache miss falls through and fills the cache", func(t *testing.T) {
		want := gentest.RandomPost(1)
		key := cache.PostKey(want.Id)

		m := mocks.NewPostStorage()
		m.On("Get", mock.Anything, want.Id, want.UserId).Return(want, nil).Once()

		c := mocks.NewCache()
		c.On("Get", mock.Anything, key).Return([]byte(nil), cache.ErrMiss).Once()
		c.On("Set", mock.Anything, key, gentest.MustMarshal(want), cache.DefaultTTL).Return(nil).Once()

		got, err := setUpService(m, c).Get(context.Background(), want.Id, want.UserId)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if !cmp.Equal(got, want) {
			t.Errorf("Get():\n%s", cmp.Diff(got, want))
		}

		m.AssertExpectations(t)
		c.AssertExpectations(t)
	})

	t.Run("Test if a corrupt cache entry falls through to storage", func(t *testing.T) {
		want := gentest.RandomPost(0)
		key := cache.PostKey(want.Id)

		m := mocks.NewPostStorage()
		m.On("Get", mock.Anything, want.Id, want.UserId).Return(want, nil).Once()

		c := mocks.NewCache()
		c.On("Get", mock.Anything, key).Return([]byte("{corrupt"), nil).Once()
		c.On("Set", mock.Anything, key, mock.Anything, cache.DefaultTTL).Return(nil).Once()

		got, err := setUpService(m, c).Get(context.Background(), want.Id, want.UserId)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if !cmp.Equal(got, want) {
			t.Errorf("Get():\n%s", cmp.Diff(got, want))
		}
	})

	t.Run("Test if a cache outage degrades to a storage read", func(t *testing.T) {
		want := gentest.RandomPost(0)

		m := mocks.NewPostStorage()
		m.On("Get", mock.Anything, want.Id, want.UserId).Return(want, nil).Once()

		c := mocks.NewCache()
		c.On("Get", mock.Anything, mock.Anything).Return([]byte(nil), errors.New("connection refused")).Once()
		c.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("connection refused")).Once()

		got, err := setUpService(m, c).Get(context.Background(), want.Id, want.UserId)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if !cmp.Equal(got, want) {
			t.Errorf("Get():\n%s", cmp.Diff(got, want))
		}
	})
}

func TestList(t *testing.T) {
	t.Run("Test if a cache miss computes the page and fills the cache", func(t *testing.T) {
		posts := []entity.Post{gentest.RandomPost(0), gentest.RandomPost(1)}
		want := post.ListResult{Posts: posts, TotalPosts: 12, TotalPages: 2}
		key := cache.PostsKey(1, 10)

		m := mocks.NewPostStorage()
		m.On("GetPage", mock.Anything, "u1", 1, 10).Return(posts, int64(12), nil).Once()

		c := mocks.NewCache()
		c.On("Get", mock.Anything, key).Return([]byte(nil), cache.ErrMiss).Once()
		c.On("Set", mock.Anything, key, gentest.MustMarshal(want), cache.DefaultTTL).Return(nil).Once()

		got, err := setUpService(m, c).List(context.Background(), "u1", 1, 10)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if !cmp.Equal(got, want) {
			t.Errorf("List():\n%s", cmp.Diff(got, want))
		}

		m.AssertExpectations(t)
		c.AssertExpectations(t)
	})

	t.Run("Test if a cache hit suppresses the storage read", func(t *testing.T) {
		want := post.ListResult{Posts: []entity.Post{gentest.RandomPost(0)}, TotalPosts: 1, TotalPages: 1}

		m := mocks.NewPostStorage()

		c := mocks.NewCache()
		c.On("Get", mock.Anything, cache.PostsKey(1, 10)).Return(gentest.MustMarshal(want), nil).Once()

		got, err := setUpService(m, c).List(context.Background(), "u1", 1, 10)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if !cmp.Equal(got, want) {
			t.Errorf("List():\n%s", cmp.Diff(got, want))
		}

		m.AssertNotCalled(t, "GetPage", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Test if page and limit are normalized", func(t *testing.T) {
		m := mocks.NewPostStorage()
		m.On("GetPage", mock.Anything, "u1", 1, 10).Return([]entity.Post{}, int64(0), nil).Once()

		c := mocks.NewCache()
		c.On("Get", mock.Anything, cache.PostsKey(1, 10)).Return([]byte(nil), cache.ErrMiss).Once()
		c.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

		if _, err := setUpService(m, c).List(context.Background(), "u1", 0, -5); err != nil {
			t.Fatalf("List() error = %v", err)
		}

		m.AssertExpectations(t)
	})
}
