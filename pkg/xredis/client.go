package xredis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stakepoint-labs/backend/pkg/xcontext"
)

type Client interface {
	Exist(ctx context.Context, key string) (bool, error)
	Del(ctx context.Context, keys ...string) error

	// Sorted list
	ZAdd(ctx context.Context, key string, z redis.Z) error
	ZIncrBy(ctx context.Context, key string, incr int64, member string) error
	ZCount(ctx context.Context, key, min, max string) (int64, error)
}

type client struct {
	redisClient *redis.Client
}

func NewClient(ctx context.Context) (*client, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:            xcontext.Configs(ctx).Redis.Addr,
		MaxRetries:      5,
		MinRetryBackoff: 8 * time.Millisecond,
		MaxRetryBackoff: 512 * time.Millisecond,
		DialTimeout:     5 * time.Second,
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    5 * time.Second,
		PoolFIFO:        false,
		PoolSize:        5,
	})

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &client{redisClient: redisClient}, nil
}

func (c *client) Exist(ctx context.Context, key string) (bool, error) {
	n, err := c.redisClient.Exists(ctx, key).Uint64()
	if err != nil {
		return false, err
	}

	return n == 1, nil
}

func (c *client) Del(ctx context.Context, keys ...string) error {
	return c.redisClient.Del(ctx, keys...).Err()
}

func (c *client) ZAdd(ctx context.Context, key string, z redis.Z) error {
	_, err := c.redisClient.ZAdd(ctx, key, z).Uint64()
	if err != nil {
		return err
	}

	return nil
}

func (c *client) ZIncrBy(ctx context.Context, key string, incr int64, member string) error {
	_, err := c.redisClient.ZIncrBy(ctx, key, float64(incr), member).Result()
	if err != nil {
		return err
	}

	return nil
}

func (c *client) ZCount(ctx context.Context, key, min, max string) (int64, error) {
	return c.redisClient.ZCount(ctx, key, min, max).Result()
}
