package mocks

import (
	"context"

	"github.com/pulse-social/pulse/pkg/event"
	"github.com/pulse-social/pulse/pkg/outbox"
	"github.com/stretchr/testify/mock"
)

var _ event.Publisher = (*Publisher)(nil)

type Publisher struct {
	*mock.Mock
}

func NewPublisher() Publisher {
	return Publisher{Mock: new(mock.Mock)}
}

func (m Publisher) Publish(ctx context.Context, e event.Event) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m Publisher) ResilientPublish(ctx context.Context, e event.Event) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

var _ outbox.Store = (*OutboxStore)(nil)

type OutboxStore struct {
	*mock.Mock
}

func NewOutboxStore() OutboxStore {
	return OutboxStore{Mock: new(mock.Mock)}
}

func (m OutboxStore) Append(ctx context.Context, entry outbox.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m OutboxStore) FetchPending(ctx context.Context, limit int) ([]outbox.Entry, error) {
	args := m.Called(ctx, limit)
	entries, _ := args.Get(0).([]outbox.Entry)
	return entries, args.Error(1)
}

func (m OutboxStore) MarkPublished(ctx context.Context, ids ...string) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}
