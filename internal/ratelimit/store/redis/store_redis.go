package redis

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"

	"personnummer/internal/ratelimit/models"
	"personnummer/pkg/platform/sentinel"
	"personnummer/pkg/requestcontext"
)

// DefaultKeyPrefix namespaces limiter keys in a shared Redis.
const DefaultKeyPrefix = "pnr:ratelimit:"

// Store is a fixed window counter shared by every server instance. Each
// window gets its own key, which expires one window after creation.
type Store struct {
	client redis.Cmdable
	prefix string
}

func New(client redis.Cmdable) *Store {
	return &Store{client: client, prefix: DefaultKeyPrefix}
}

// Allow counts one request against key's current window. Redis failures are
// wrapped with sentinel.ErrUnavailable.
func (s *Store) Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.RateLimitResult, error) {
	now := requestcontext.Now(ctx)
	windowStart := now.Truncate(window)
	resetAt := windowStart.Add(window)
	redisKey := fmt.Sprintf("%s%s:%d", s.prefix, key, windowStart.UnixMilli())

	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.PExpire(ctx, redisKey, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limit counter: %w", sentinel.ErrUnavailable, err)
	}

	count := int(incr.Val())
	result := &models.RateLimitResult{
		Allowed:   count <= limit,
		Limit:     limit,
		Remaining: max(limit-count, 0),
		ResetAt:   resetAt,
	}
	if !result.Allowed {
		result.RetryAfter = max(int(math.Ceil(resetAt.Sub(now).Seconds())), 1)
	}
	return result, nil
}
