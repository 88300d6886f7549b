package limiter

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// MemoryLimiter keeps daily counters in process memory. Counters expire at
// the UTC day boundary; the sweeper purges stale ones.
type MemoryLimiter struct {
	limit int
	cache *cache.Cache
	now   func() time.Time
}

func NewMemoryLimiter(limit int) *MemoryLimiter {
	return &MemoryLimiter{
		limit: limit,
		cache: cache.New(24*time.Hour, 10*time.Minute),
		now:   time.Now,
	}
}

func (l *MemoryLimiter) Consume(ctx context.Context, caller string) (bool, error) {
	if l.limit <= 0 {
		return true, nil
	}

	now := l.now()
	key := dailyKey(caller, now)

	// Add is a no-op when the counter already exists for today.
	_ = l.cache.Add(key, 0, untilMidnight(now))
	used, err := l.cache.IncrementInt(key, 1)
	if err != nil {
		return false, err
	}
	return used <= l.limit, nil
}
