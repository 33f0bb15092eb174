package testutil

import (
	"context"

	"github.com/redis/go-redis/v9"
)

type MockRedisClient struct {
	ExistFunc   func(ctx context.Context, key string) (bool, error)
	DelFunc     func(ctx context.Context, keys ...string) error
	ZAddFunc    func(ctx context.Context, key string, z redis.Z) error
	ZIncrByFunc func(ctx context.Context, key string, incr int64, member string) error
	ZCountFunc  func(ctx context.Context, key, min, max string) (int64, error)
}

func (m *MockRedisClient) Exist(ctx context.Context, key string) (bool, error) {
	if m.ExistFunc != nil {
		return m.ExistFunc(ctx, key)
	}

	return false, nil
}

func (m *MockRedisClient) Del(ctx context.Context, keys ...string) error {
	if m.DelFunc != nil {
		return m.DelFunc(ctx, keys...)
	}

	return nil
}

func (m *MockRedisClient) ZAdd(ctx context.Context, key string, z redis.Z) error {
	if m.ZAddFunc != nil {
		return m.ZAddFunc(ctx, key, z)
	}

	return nil
}

func (m *MockRedisClient) ZIncrBy(ctx context.Context, key string, incr int64, member string) error {
	if m.ZIncrByFunc != nil {
		return m.ZIncrByFunc(ctx, key, incr, member)
	}

	return nil
}

func (m *MockRedisClient) ZCount(ctx context.Context, key, min, max string) (int64, error) {
	if m.ZCountFunc != nil {
		return m.ZCountFunc(ctx, key, min, max)
	}

	return 0, nil
}
