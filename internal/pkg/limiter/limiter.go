package limiter

import (
	"context"
	"fmt"
	"time"
)

// UsageLimiter enforces a per-caller daily cap on generation calls.
type UsageLimiter interface {
	// Consume records one generation attempt and reports whether the
	// caller is still within the daily limit.
	Consume(ctx context.Context, caller string) (bool, error)
}

func dailyKey(caller string, now time.Time) string {
	return fmt.Sprintf("usage:%s:%s", caller, now.UTC().Format("2006-01-02"))
}

func untilMidnight(now time.Time) time.Duration {
	next := now.UTC().Truncate(24 * time.Hour).Add(24 * time.Hour)
	return next.Sub(now.UTC())
}
