package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTrendingDayKeyUsesUTC(t *testing.T) {
	east := time.FixedZone("UTC+10", 10*60*60)
	local := time.Date(2025, 3, 2, 5, 0, 0, 0, east)

	assert.Equal(t, "trending:2025-03-01", TrendingDayKey(local))
	assert.Equal(t, "trending:2025-03-02", TrendingDayKey(local.Add(19*time.Hour)))
}

func TestAccountSummaryKey(t *testing.T) {
	assert.Equal(t, "summary:User:7", AccountSummaryKey("User:7"))
}
