package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// TopicScore is one hashtag and how many posts used it.
type TopicScore struct {
	Tag   string `json:"tag"`
	Count int64  `json:"count"`
}

// IncrementTopics adds one use of each tag to the day's sorted set and
// refreshes its expiry.
func (c *Cache) IncrementTopics(ctx context.Context, day time.Time, tags []string) error {
	if len(tags) == 0 {
		return nil
	}
	key := TrendingDayKey(day)

	pipe := c.client.TxPipeline()
	for _, tag := range tags {
		pipe.ZIncrBy(ctx, key, 1, tag)
	}
	pipe.Expire(ctx, key, TrendingDayTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		c.logger.Error("failed to increment topics", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("increment topics: %w", err)
	}
	return nil
}

// TopTopics merges the daily sets of the last days days (ending at now) and
// returns the limit highest counts.
func (c *Cache) TopTopics(ctx context.Context, now time.Time, days, limit int) ([]TopicScore, error) {
	keys := make([]string, 0, days)
	for i := 0; i < days; i++ {
		keys = append(keys, TrendingDayKey(now.AddDate(0, 0, -i)))
	}

	merged, err := c.client.ZUnionWithScores(ctx, redis.ZStore{Keys: keys, Aggregate: "SUM"}).Result()
	if err != nil {
		c.logger.Error("failed to read topics", zap.Strings("keys", keys), zap.Error(err))
		return nil, fmt.Errorf("top topics: %w", err)
	}

	// ZUNION returns members in ascending score order
	out := make([]TopicScore, 0, limit)
	for i := len(merged) - 1; i >= 0 && len(out) < limit; i-- {
		tag, _ := merged[i].Member.(string)
		out = append(out, TopicScore{Tag: tag, Count: int64(merged[i].Score)})
	}
	return out, nil
}
