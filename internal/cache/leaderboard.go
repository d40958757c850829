package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"galaxymath/models"

	"github.com/redis/go-redis/v9"
)

// AllGames is the cache key segment for the cross-game leaderboard
const AllGames = "all"

// LeaderboardCache stores computed leaderboards for a short TTL
type LeaderboardCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewLeaderboardCache(rdb *redis.Client, ttl time.Duration) *LeaderboardCache {
	return &LeaderboardCache{rdb: rdb, ttl: ttl}
}

func leaderboardKey(game string) string {
	if game == "" {
		game = AllGames
	}
	return fmt.Sprintf("leaderboard:%s", game)
}

// Get returns the cached entries for game. ok is false on a miss or when caching is disabled.
func (c *LeaderboardCache) Get(ctx context.Context, game string) (entries []models.LeaderboardEntry, ok bool, err error) {
	if c == nil || c.rdb == nil {
		return nil, false, nil
	}

	raw, err := c.rdb.Get(ctx, leaderboardKey(game)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	} else if err != nil {
		return nil, false, err
	}

	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, false, fmt.Errorf("decode cached leaderboard: %w", err)
	}
	return entries, true, nil
}

func (c *LeaderboardCache) Set(ctx context.Context, game string, entries []models.LeaderboardEntry) error {
	if c == nil || c.rdb == nil {
		return nil
	}

	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode leaderboard: %w", err)
	}
	return c.rdb.Set(ctx, leaderboardKey(game), raw, c.ttl).Err()
}

// Invalidate drops the cached leaderboards for game and for the all-games view
func (c *LeaderboardCache) Invalidate(ctx context.Context, game string) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, leaderboardKey(game), leaderboardKey(AllGames)).Err()
}
