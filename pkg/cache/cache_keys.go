package cache

import (
	"fmt"
	"time"
)

const (
	AccountSummaryTTL = 10 * time.Minute
	TrendingDayTTL    = 8 * 24 * time.Hour
)

func AccountSummaryKey(accountKey string) string {
	return "summary:" + accountKey
}

// TrendingDayKey is the sorted set of hashtag counts for one UTC day.
func TrendingDayKey(day time.Time) string {
	return fmt.Sprintf("trending:%s", day.UTC().Format("2006-01-02"))
}
