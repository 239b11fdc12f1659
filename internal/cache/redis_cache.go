package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const templateKey = "config:message_template"

// RedisTemplateCache keeps the current message template in redis so that
// dispatch batches do not hit the config table on every run.
type RedisTemplateCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisTemplateCache(rdb *redis.Client, ttl time.Duration) *RedisTemplateCache {
	return &RedisTemplateCache{rdb: rdb, ttl: ttl}
}

func (c *RedisTemplateCache) Get(ctx context.Context) (string, bool, error) {
	text, err := c.rdb.Get(ctx, templateKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return text, true, nil
}

func (c *RedisTemplateCache) Store(ctx context.Context, text string) error {
	return c.rdb.Set(ctx, templateKey, text, c.ttl).Err()
}
