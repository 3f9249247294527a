package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis"
	"github.com/xpanvictor/meetsec/internal/domains/audit"
)

const redisKeyPrefix = "meetsec:audit:"

// redisStore is the subset of *redis.Client the sink uses.
type redisStore interface {
	Set(key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RedisSink stores each entry as a JSON string under meetsec:audit:<key>.
type RedisSink struct {
	client redisStore
	ttl    time.Duration
}

func NewRedisSink(client *redis.Client, ttl time.Duration) *RedisSink {
	return &RedisSink{client: client, ttl: ttl}
}

func (r *RedisSink) Name() string { return "redis" }

func RedisKey(e audit.Entry) string {
	return redisKeyPrefix + e.Key()
}

// Write implements audit.Sink. go-redis v6 has no context support; ctx is
// accepted for the interface only.
func (r *RedisSink) Write(_ context.Context, e audit.Entry) error {
	data, err := e.JSON()
	if err != nil {
		return fmt.Errorf("failed to encode audit entry: %w", err)
	}
	if err := r.client.Set(RedisKey(e), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store audit entry: %w", err)
	}
	return nil
}
