package records

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores parsed season records in Redis so repeated replays over the
// same immutable history skip the CSV fetch and parse.
type Cache struct {
	client     *redis.Client
	expiration time.Duration
}

// NewCache wraps a Redis client. Historical seasons never change, so a long
// expiration is fine.
func NewCache(client *redis.Client, expiration time.Duration) *Cache {
	return &Cache{client: client, expiration: expiration}
}

func seasonCacheKey(league string, season int) string {
	return fmt.Sprintf("records:%s:%d", league, season)
}

// SetSeason caches a parsed season.
func (c *Cache) SetSeason(ctx context.Context, league string, season int, value *Season) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal season: %w", err)
	}
	if err := c.client.Set(ctx, seasonCacheKey(league, season), data, c.expiration).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// GetSeason loads a cached season into dest.
func (c *Cache) GetSeason(ctx context.Context, league string, season int, dest *Season) error {
	data, err := c.client.Get(ctx, seasonCacheKey(league, season)).Result()
	if err != nil {
		if err == redis.Nil {
			return fmt.Errorf("season not cached")
		}
		return fmt.Errorf("failed to get cache: %w", err)
	}
	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return fmt.Errorf("failed to unmarshal season: %w", err)
	}
	return nil
}
