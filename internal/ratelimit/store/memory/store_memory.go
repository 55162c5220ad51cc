package memory

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"personnummer/internal/ratelimit/models"
	"personnummer/pkg/requestcontext"
)

// Store is an in-process token bucket limiter, one bucket per key. Buckets
// refill continuously at limit tokens per window.
type Store struct {
	mu      sync.Mutex
	buckets map[string]*bucket
}

type bucket struct {
	limiter  *rate.Limiter
	limit    int
	window   time.Duration
	lastSeen time.Time
}

func New() *Store {
	return &Store{buckets: make(map[string]*bucket)}
}

// Allow consumes one token from key's bucket if available.
func (s *Store) Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.RateLimitResult, error) {
	now := requestcontext.Now(ctx)
	interval := window / time.Duration(limit)

	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.bucketFor(key, limit, window, interval)
	b.lastSeen = now

	allowed := b.limiter.AllowN(now, 1)
	tokens := b.limiter.TokensAt(now)

	result := &models.RateLimitResult{
		Allowed:   allowed,
		Limit:     limit,
		Remaining: max(int(math.Floor(tokens)), 0),
		ResetAt:   now.Add(time.Duration((float64(limit) - tokens) * float64(interval))),
	}
	if !allowed {
		wait := time.Duration((1 - tokens) * float64(interval))
		result.RetryAfter = max(int(math.Ceil(wait.Seconds())), 1)
	}
	return result, nil
}

func (s *Store) bucketFor(key string, limit int, window, interval time.Duration) *bucket {
	b, ok := s.buckets[key]
	if ok && b.limit == limit && b.window == window {
		return b
	}
	b = &bucket{
		limiter: rate.NewLimiter(rate.Every(interval), limit),
		limit:   limit,
		window:  window,
	}
	s.buckets[key] = b
	return b
}

// Sweep drops buckets not used since cutoff and returns how many it removed.
func (s *Store) Sweep(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, b := range s.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(s.buckets, key)
			removed++
		}
	}
	return removed
}

// RunJanitor sweeps buckets idle for longer than idle every interval until
// ctx is cancelled.
func (s *Store) RunJanitor(ctx context.Context, interval, idle time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if removed := s.Sweep(now.Add(-idle)); removed > 0 {
				logger.DebugContext(ctx, "swept idle rate limit buckets",
					"removed", removed,
					"remaining", s.Len(),
				)
			}
		}
	}
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buckets)
}
