package mocks

import (
	"context"
	"time"

	"github.com/pulse-social/pulse/pkg/cache"
	"github.com/stretchr/testify/mock"
)

var _ cache.Cache = (*Cache)(nil)

type Cache struct {
	*mock.Mock
}

func NewCache() Cache {
	return Cache{Mock: new(mock.Mock)}
}

func (m Cache) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	val, _ := args.Get(0).([]byte)
	return val, args.Error(1)
}

func (m Cache) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, val, ttl)
	return args.Error(0)
}

func (m Cache) Del(ctx context.Context, keys ...string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

func (m Cache) DelPattern(ctx context.Context, pattern string) error {
	args := m.Called(ctx, pattern)
	return args.Error(0)
}

func (m Cache) Close() error {
	args := m.Called()
	return args.Error(0)
}
