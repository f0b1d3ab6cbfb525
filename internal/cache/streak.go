package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// StreakCachePrefix is the key prefix for per-user journal date sets
	StreakCachePrefix = "streak:user:"

	// StreakCacheCap caps the number of dates kept per user; a streak longer
	// than this is reported as the cap
	StreakCacheCap = 400

	// StreakCacheTTL expires idle caches (rewarmed from Postgres on miss)
	StreakCacheTTL = 30 * 24 * time.Hour

	dateLayout = "2006-01-02"
)

// StreakCache holds, per user, the set of dates that have a journal entry.
// Backed by a Redis ZSET: member = "YYYY-MM-DD", score = that date's unix
// timestamp at UTC midnight. The streak walk reads members newest-first.
type StreakCache interface {
	// AddDate records an entry date for a user.
	// Pipeline: ZADD + ZREMRANGEBYRANK (maintain cap) + EXPIRE (refresh TTL).
	AddDate(ctx context.Context, userID int64, date time.Time) error

	// RemoveDate removes an entry date (entry deleted).
	RemoveDate(ctx context.Context, userID int64, date time.Time) error

	// Dates returns the cached entry dates, newest first.
	Dates(ctx context.Context, userID int64) ([]time.Time, error)

	// Warm bulk-loads dates for a user, replacing whatever is cached.
	Warm(ctx context.Context, userID int64, dates []time.Time) error

	// Exists reports whether the user has a cache entry at all. False means
	// new user or TTL expiry; the service should warm from the database.
	Exists(ctx context.Context, userID int64) (bool, error)
}

type redisStreakCache struct {
	client *redis.Client
}

// NewStreakCache creates a StreakCache backed by Redis.
func NewStreakCache(client *redis.Client) StreakCache {
	return &redisStreakCache{client: client}
}

func streakKey(userID int64) string {
	return fmt.Sprintf("%s%d", StreakCachePrefix, userID)
}

func dateScore(date time.Time) float64 {
	d := date.UTC()
	midnight := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	return float64(midnight.Unix())
}

func (c *redisStreakCache) AddDate(ctx context.Context, userID int64, date time.Time) error {
	key := streakKey(userID)

	pipe := c.client.Pipeline()
	pipe.ZAdd(ctx, key, redis.Z{Score: dateScore(date), Member: date.UTC().Format(dateLayout)})
	// Keep only the newest StreakCacheCap dates.
	pipe.ZRemRangeByRank(ctx, key, 0, int64(-StreakCacheCap-1))
	pipe.Expire(ctx, key, StreakCacheTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("add date to streak cache: %w", err)
	}
	return nil
}

func (c *redisStreakCache) RemoveDate(ctx context.Context, userID int64, date time.Time) error {
	err := c.client.ZRem(ctx, streakKey(userID), date.UTC().Format(dateLayout)).Err()
	if err != nil {
		return fmt.Errorf("remove date from streak cache: %w", err)
	}
	return nil
}

func (c *redisStreakCache) Dates(ctx context.Context, userID int64) ([]time.Time, error) {
	members, err := c.client.ZRevRange(ctx, streakKey(userID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read streak cache: %w", err)
	}

	dates := make([]time.Time, 0, len(members))
	for _, m := range members {
		d, err := time.ParseInLocation(dateLayout, m, time.UTC)
		if err != nil {
			continue // skip corrupt member rather than failing the read
		}
		dates = append(dates, d)
	}
	return dates, nil
}

func (c *redisStreakCache) Warm(ctx context.Context, userID int64, dates []time.Time) error {
	key := streakKey(userID)

	pipe := c.client.Pipeline()
	pipe.Del(ctx, key)
	if len(dates) > StreakCacheCap {
		dates = dates[:StreakCacheCap]
	}
	for _, d := range dates {
		pipe.ZAdd(ctx, key, redis.Z{Score: dateScore(d), Member: d.UTC().Format(dateLayout)})
	}
	pipe.Expire(ctx, key, StreakCacheTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("warm streak cache: %w", err)
	}
	return nil
}

func (c *redisStreakCache) Exists(ctx context.Context, userID int64) (bool, error) {
	n, err := c.client.Exists(ctx, streakKey(userID)).Result()
	if err != nil {
		return false, fmt.Errorf("check streak cache: %w", err)
	}
	return n > 0, nil
}
