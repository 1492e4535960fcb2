package settings

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheKey is the Redis hash holding the raw settings rows.
const CacheKey = "affiliate:settings"

// Cache stores the raw key/value settings between database reads.
type Cache interface {
	// Get reports false on a miss.
	Get(ctx context.Context) (map[string]string, bool, error)
	Set(ctx context.Context, values map[string]string, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}

type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context) (map[string]string, bool, error) {
	values, err := c.client.HGetAll(ctx, CacheKey).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to read settings cache: %w", err)
	}
	if len(values) == 0 {
		return nil, false, nil
	}
	return values, true, nil
}

func (c *RedisCache) Set(ctx context.Context, values map[string]string, ttl time.Duration) error {
	if len(values) == 0 {
		return nil
	}
	fields := make(map[string]interface{}, len(values))
	for k, v := range values {
		fields[k] = v
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, CacheKey)
		pipe.HSet(ctx, CacheKey, fields)
		if ttl > 0 {
			pipe.Expire(ctx, CacheKey, ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write settings cache: %w", err)
	}
	return nil
}

func (c *RedisCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, CacheKey).Err()
}
