package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "juros:ratelimit:"

// RedisLimiter shares a fixed one-minute window between every instance
// pointed at the same Redis.
type RedisLimiter struct {
	client redis.Cmdable
	prefix string
	now    func() time.Time

	requestsPerMinute int
}

func NewRedisLimiter(client redis.Cmdable, config Config) *RedisLimiter {
	config = config.normalized()
	return &RedisLimiter{
		client:            client,
		prefix:            defaultKeyPrefix,
		now:               time.Now,
		requestsPerMinute: config.RequestsPerMinute,
	}
}

func (rl *RedisLimiter) windowKey(clientIP string) string {
	return fmt.Sprintf("%s%s:%d", rl.prefix, clientIP, rl.now().Unix()/60)
}

// Allow increments the client's counter for the current minute. The first
// increment sets the key to expire with the window.
func (rl *RedisLimiter) Allow(ctx context.Context, clientIP string) (bool, error) {
	key := rl.windowKey(clientIP)

	count, err := rl.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("incr %s: %w", key, err)
	}
	if count == 1 {
		if err := rl.client.Expire(ctx, key, time.Minute).Err(); err != nil {
			return false, fmt.Errorf("expire %s: %w", key, err)
		}
	}
	return count <= int64(rl.requestsPerMinute), nil
}

// Ping is used by the readiness probe.
func (rl *RedisLimiter) Ping(ctx context.Context) error {
	return rl.client.Ping(ctx).Err()
}
