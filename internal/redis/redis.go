package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Cache holds short-lived derived state: per-screen active display
// counts and feed ETags. Everything in here can be lost at any time;
// the database remains the source of truth.
type Cache struct {
	rdb *redis.Client
}

func New(address, username, password string) *Cache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     address,
		Username: username,
		Password: password,
		DB:       0,
	})
	return &Cache{rdb: rdb}
}

func (c *Cache) Close() error {
	return c.rdb.Close()
}

func activeCountKey(screenID int) string {
	return fmt.Sprintf("screen:%d:active_count", screenID)
}

func feedETagKey(screenID int) string {
	return fmt.Sprintf("screen:%d:feed_etag", screenID)
}

// SetActiveCount caches a liveness count briefly so the dashboard does
// not hammer the sessions table on every render.
func (c *Cache) SetActiveCount(ctx context.Context, screenID, count int, ttl time.Duration) {
	if err := c.rdb.Set(ctx, activeCountKey(screenID), count, ttl).Err(); err != nil {
		log.Warn().Err(err).Int("screen_id", screenID).Msg("failed to cache active count")
	}
}

// GetActiveCount returns the cached count, or ok=false on miss/error.
func (c *Cache) GetActiveCount(ctx context.Context, screenID int) (int, bool) {
	val, err := c.rdb.Get(ctx, activeCountKey(screenID)).Result()
	if err != nil {
		return 0, false
	}
	count, err := strconv.Atoi(val)
	if err != nil {
		return 0, false
	}
	return count, true
}

// SetFeedETag records the ETag last served for a screen's display feed.
func (c *Cache) SetFeedETag(ctx context.Context, screenID int, etag string) {
	if err := c.rdb.Set(ctx, feedETagKey(screenID), etag, 0).Err(); err != nil {
		log.Warn().Err(err).Int("screen_id", screenID).Msg("failed to store feed etag")
	}
}

// InvalidateFeed drops the stored ETag so the next display poll gets a
// full response instead of 304 Not Modified.
func (c *Cache) InvalidateFeed(ctx context.Context, screenID int) {
	if err := c.rdb.Del(ctx, feedETagKey(screenID)).Err(); err != nil {
		log.Warn().Err(err).Int("screen_id", screenID).Msg("failed to invalidate feed etag")
	}
}
