package limiter

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter shares daily counters across instances.
type RedisLimiter struct {
	limit  int
	client *redis.Client
	now    func() time.Time
}

func NewRedisLimiter(limit int, client *redis.Client) *RedisLimiter {
	return &RedisLimiter{
		limit:  limit,
		client: client,
		now:    time.Now,
	}
}

func (l *RedisLimiter) Consume(ctx context.Context, caller string) (bool, error) {
	if l.limit <= 0 {
		return true, nil
	}

	now := l.now()
	key := dailyKey(caller, now)

	used, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if used == 1 {
		if err := l.client.Expire(ctx, key, untilMidnight(now)).Err(); err != nil {
			return false, err
		}
	}
	return used <= int64(l.limit), nil
}
