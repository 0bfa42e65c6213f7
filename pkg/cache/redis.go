package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	leaderboardKey = "leaderboard:xp"
	progressTTL    = 5 * time.Minute
)

type RedisCache struct {
	client *redis.Client
	ctx    context.Context
}

func NewRedisCache(addr string) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &RedisCache{
		client: client,
		ctx:    context.Background(),
	}
}

func progressKey(userID uint) string {
	return fmt.Sprintf("progress:%d", userID)
}

// SetProgress caches a serialized progress overview for a short window.
func (c *RedisCache) SetProgress(userID uint, overview interface{}) error {
	data, err := json.Marshal(overview)
	if err != nil {
		return err
	}
	return c.client.Set(c.ctx, progressKey(userID), data, progressTTL).Err()
}

// GetProgress unmarshals a cached overview into out. The error carries
// redis.Nil when there is no cached copy.
func (c *RedisCache) GetProgress(userID uint, out interface{}) error {
	data, err := c.client.Get(c.ctx, progressKey(userID)).Bytes()
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// InvalidateProgress drops the cached overview after a gamification write.
func (c *RedisCache) InvalidateProgress(userID uint) error {
	return c.client.Del(c.ctx, progressKey(userID)).Err()
}

// SetLeaderboardScore writes a user's XP total into the global leaderboard
// sorted set.
func (c *RedisCache) SetLeaderboardScore(userID uint, xp int) error {
	return c.client.ZAdd(c.ctx, leaderboardKey, &redis.Z{
		Score:  float64(xp),
		Member: strconv.FormatUint(uint64(userID), 10),
	}).Err()
}

// LeaderboardScore is one sorted-set entry.
type LeaderboardScore struct {
	UserID uint
	XP     int
}

// TopLeaderboard returns up to limit entries ordered by XP descending.
func (c *RedisCache) TopLeaderboard(limit int64) ([]LeaderboardScore, error) {
	results, err := c.client.ZRevRangeWithScores(c.ctx, leaderboardKey, 0, limit-1).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardScore, 0, len(results))
	for _, z := range results {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}
		id, err := strconv.ParseUint(member, 10, 64)
		if err != nil {
			continue
		}
		entries = append(entries, LeaderboardScore{
			UserID: uint(id),
			XP:     int(z.Score),
		})
	}
	return entries, nil
}

// RebuildLeaderboard replaces the whole sorted set. The nightly
// reconciliation job uses this so drifted or evicted entries heal.
func (c *RedisCache) RebuildLeaderboard(scores map[uint]int) error {
	pipe := c.client.Pipeline()
	pipe.Del(c.ctx, leaderboardKey)
	for userID, xp := range scores {
		pipe.ZAdd(c.ctx, leaderboardKey, &redis.Z{
			Score:  float64(xp),
			Member: strconv.FormatUint(uint64(userID), 10),
		})
	}
	pipe.Expire(c.ctx, leaderboardKey, 48*time.Hour)
	_, err := pipe.Exec(c.ctx)
	return err
}
