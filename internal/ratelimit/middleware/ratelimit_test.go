package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"personnummer/internal/ratelimit/metrics"
	"personnummer/internal/ratelimit/models"
	"personnummer/internal/ratelimit/store/memory"
	"personnummer/pkg/platform/audit"
	"personnummer/pkg/platform/audit/publisher"
	auditmemory "personnummer/pkg/platform/audit/store/memory"
	"personnummer/pkg/platform/circuit"
	"personnummer/pkg/platform/sentinel"
	"personnummer/pkg/requestcontext"
)

var t0 = time.Date(2025, 12, 6, 12, 0, 0, 0, time.UTC)

// stubStore answers every check the same way.
type stubStore struct {
	calls   int
	allowed bool
	err     error
}

func (s *stubStore) Allow(_ context.Context, key string, limit int, window time.Duration) (*models.RateLimitResult, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	result := &models.RateLimitResult{Allowed: s.allowed, Limit: limit, Remaining: 0, ResetAt: t0.Add(window)}
	if !s.allowed {
		result.RetryAfter = 42
	}
	return result, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func serve(m *Middleware) *httptest.ResponseRecorder {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	req := httptest.NewRequest(http.MethodPost, "/personnummer/validate", nil)
	ctx := requestcontext.WithTime(req.Context(), t0)
	ctx = requestcontext.WithClientMetadata(ctx, "192.0.2.10", "test")
	ctx = requestcontext.WithRequestID(ctx, "req-1")
	w := httptest.NewRecorder()
	m.RateLimit(next).ServeHTTP(w, req.WithContext(ctx))
	return w
}

func TestRateLimit_AllowedSetsHeaders(t *testing.T) {
	m := New(memory.New(), 5, time.Minute, discardLogger())

	w := serve(m)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "5", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "4", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("X-RateLimit-Reset"))
	assert.Empty(t, w.Header().Get("X-RateLimit-Status"))
}

func TestRateLimit_DeniedWrites429AndAudits(t *testing.T) {
	store := auditmemory.NewInMemoryStore(10)
	mt := metrics.NewWithRegisterer(prometheus.NewRegistry())
	m := New(&stubStore{allowed: false}, 5, time.Minute, discardLogger(),
		WithAuditPublisher(publisher.NewPublisher(store)),
		WithMetrics(mt),
	)

	w := serve(m)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "42", w.Header().Get("Retry-After"))
	var body models.RateLimitExceededResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "rate_limit_exceeded", body.Error)
	assert.Equal(t, 42, body.RetryAfter)
	assert.Equal(t, float64(1), testutil.ToFloat64(mt.Checks.WithLabelValues("denied")))

	events, err := store.ListRecent(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, string(audit.EventRateLimitExceeded), events[0].Action)
	assert.Equal(t, audit.CategorySecurity, events[0].Category)
	assert.Equal(t, "192.0.2.0/24", events[0].ClientIP)
	assert.Equal(t, "req-1", events[0].RequestID)
}

func TestRateLimit_PrimaryErrorWithoutFallbackFailsOpen(t *testing.T) {
	m := New(&stubStore{err: sentinel.ErrUnavailable}, 5, time.Minute, discardLogger())

	w := serve(m)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
}

func TestRateLimit_FallbackWhilePrimaryFails(t *testing.T) {
	primary := &stubStore{err: errors.New("connection refused")}
	mt := metrics.NewWithRegisterer(prometheus.NewRegistry())
	m := New(primary, 1, time.Minute, discardLogger(),
		WithFallback(memory.New()),
		WithBreaker(circuit.New("test", circuit.WithFailureThreshold(2))),
		WithMetrics(mt),
	)

	first := serve(m)
	assert.Equal(t, http.StatusNoContent, first.Code)
	assert.Equal(t, "degraded", first.Header().Get("X-RateLimit-Status"))
	assert.Equal(t, float64(0), testutil.ToFloat64(mt.CircuitOpen))

	// the fallback enforces the same limit
	second := serve(m)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, float64(1), testutil.ToFloat64(mt.CircuitOpen))
	assert.Equal(t, float64(2), testutil.ToFloat64(mt.FallbackChecks))
}

func TestRateLimit_CircuitClosesAfterRecovery(t *testing.T) {
	primary := &stubStore{err: errors.New("connection refused")}
	breaker := circuit.New("test", circuit.WithFailureThreshold(1), circuit.WithSuccessThreshold(2))
	m := New(primary, 100, time.Minute, discardLogger(),
		WithFallback(memory.New()),
		WithBreaker(breaker),
	)

	serve(m)
	require.True(t, breaker.IsOpen())

	primary.err = nil
	primary.allowed = true

	w := serve(m)
	assert.Equal(t, "degraded", w.Header().Get("X-RateLimit-Status"), "still open after one success")

	w = serve(m)
	assert.False(t, breaker.IsOpen())
	assert.Empty(t, w.Header().Get("X-RateLimit-Status"))
	assert.Equal(t, "100", w.Header().Get("X-RateLimit-Limit"))
}
