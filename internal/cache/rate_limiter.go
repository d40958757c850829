package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ScoreLimiter caps score saves per account per window with a Redis counter
type ScoreLimiter struct {
	rdb    *redis.Client
	max    int
	window time.Duration
}

func NewScoreLimiter(rdb *redis.Client, max int, window time.Duration) *ScoreLimiter {
	return &ScoreLimiter{rdb: rdb, max: max, window: window}
}

// Allow records one save for userID and reports whether it is within the limit
func (l *ScoreLimiter) Allow(ctx context.Context, userID string) (bool, error) {
	if l == nil || l.rdb == nil || l.max <= 0 {
		return true, nil
	}

	key := fmt.Sprintf("rate:score:%s", userID)

	count, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}

	// Set expiration if first time
	if count == 1 {
		if err := l.rdb.Expire(ctx, key, l.window).Err(); err != nil {
			return false, err
		}
	}

	return count <= int64(l.max), nil
}
