// Package redis implements the Redis-backed leaderboard page cache.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/alem-hub/league-progress/config"
	"github.com/alem-hub/league-progress/internal/domain/leaderboard"
)

// ══════════════════════════════════════════════════════════════════════════════
// LEADERBOARD CACHE
// Whole pages are cached as JSON under a (scope, n) key with a short TTL.
// The cache is strictly an accelerator: every error surfaces to the caller,
// which treats it as a miss and falls through to the ranker.
// ══════════════════════════════════════════════════════════════════════════════

// LeaderboardCache implements leaderboard.Cache on Redis.
type LeaderboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewLeaderboardCache connects to Redis and verifies it with a ping.
func NewLeaderboardCache(ctx context.Context, cfg config.RedisConfig) (*LeaderboardCache, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("redis: parse URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}

	ttl := cfg.LeaderboardTTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	return &LeaderboardCache{client: client, ttl: ttl}, nil
}

// Get implements leaderboard.Cache.
func (c *LeaderboardCache) Get(ctx context.Context, scope leaderboard.Scope, n int) ([]leaderboard.Entry, bool, error) {
	data, err := c.client.Get(ctx, cacheKey(scope, n)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis: get leaderboard page: %w", err)
	}

	var entries []leaderboard.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		// A corrupt page is a miss; it will be overwritten on the next Set.
		return nil, false, nil
	}

	return entries, true, nil
}

// Set implements leaderboard.Cache.
func (c *LeaderboardCache) Set(ctx context.Context, scope leaderboard.Scope, n int, entries []leaderboard.Entry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("redis: marshal leaderboard page: %w", err)
	}

	if err := c.client.Set(ctx, cacheKey(scope, n), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis: set leaderboard page: %w", err)
	}

	return nil
}

// Close releases the underlying client.
func (c *LeaderboardCache) Close() error {
	return c.client.Close()
}

func cacheKey(scope leaderboard.Scope, n int) string {
	switch {
	case scope.LeagueID != "":
		return fmt.Sprintf("leaderboard:league:%s:%d", scope.LeagueID, n)
	case scope.SpecializationID != "":
		return fmt.Sprintf("leaderboard:spec:%s:%d", scope.SpecializationID, n)
	default:
		return fmt.Sprintf("leaderboard:global:%d", n)
	}
}
