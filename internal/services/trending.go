package services

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/anonto42/proconnect/backend/pkg/cache"
)

// TopicStore keeps per-day hashtag counts. *cache.Cache satisfies it.
type TopicStore interface {
	IncrementTopics(ctx context.Context, day time.Time, tags []string) error
	TopTopics(ctx context.Context, now time.Time, days, limit int) ([]cache.TopicScore, error)
}

const (
	minTagLen         = 2
	maxTagLen         = 50
	maxTrendingDays   = 7
	defaultTopicLimit = 10
)

var hashtagPattern = regexp.MustCompile(`#([\p{L}\p{N}_]+)`)

// ExtractHashtags returns the distinct lower-cased tags in content, in order
// of first appearance.
func ExtractHashtags(content string) []string {
	seen := map[string]bool{}
	var tags []string
	for _, m := range hashtagPattern.FindAllStringSubmatch(content, -1) {
		tag := strings.ToLower(m[1])
		n := len([]rune(tag))
		if n < minTagLen || n > maxTagLen || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags
}

// TrendingService counts hashtags used in posts.
type TrendingService struct {
	store TopicStore
	now   func() time.Time
}

// NewTrendingService accepts a nil store, in which case indexing is a no-op
// and no topics are reported.
func NewTrendingService(store TopicStore) *TrendingService {
	return &TrendingService{store: store, now: time.Now}
}

func (s *TrendingService) IndexPost(ctx context.Context, content string, at time.Time) error {
	if s.store == nil {
		return nil
	}
	tags := ExtractHashtags(content)
	if len(tags) == 0 {
		return nil
	}
	return s.store.IncrementTopics(ctx, at, tags)
}

// TopTopics merges the last days UTC days; days is clamped to [1, 7].
func (s *TrendingService) TopTopics(ctx context.Context, days, limit int) ([]cache.TopicScore, error) {
	if s.store == nil {
		return []cache.TopicScore{}, nil
	}
	if days < 1 {
		days = 1
	}
	if days > maxTrendingDays {
		days = maxTrendingDays
	}
	if limit < 1 || limit > 50 {
		limit = defaultTopicLimit
	}
	return s.store.TopTopics(ctx, s.now(), days, limit)
}
