package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"personnummer/internal/ratelimit/metrics"
	"personnummer/internal/ratelimit/models"
	dErrors "personnummer/pkg/domain-errors"
	"personnummer/pkg/platform/audit"
	"personnummer/pkg/platform/circuit"
	"personnummer/pkg/platform/httputil"
	"personnummer/pkg/platform/privacy"
	"personnummer/pkg/requestcontext"
)

// Store counts requests per key.
type Store interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.RateLimitResult, error)
}

// AuditPublisher emits audit events for rejected requests.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Middleware limits requests per client IP. When a fallback store is set,
// primary failures are absorbed by a circuit breaker:
//   - any primary error answers that request from the fallback
//   - after N consecutive errors the circuit opens and X-RateLimit-Status
//     reports "degraded"
//   - the circuit closes after M consecutive primary successes
type Middleware struct {
	primary        Store
	fallback       Store
	breaker        *circuit.Breaker
	limit          int
	window         time.Duration
	logger         *slog.Logger
	metrics        *metrics.Metrics
	auditPublisher AuditPublisher
}

type Option func(*Middleware)

// WithFallback answers checks from store while the primary is failing.
func WithFallback(store Store) Option {
	return func(m *Middleware) {
		m.fallback = store
	}
}

func WithBreaker(b *circuit.Breaker) Option {
	return func(m *Middleware) {
		m.breaker = b
	}
}

func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Middleware) {
		m.metrics = mt
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(m *Middleware) {
		m.auditPublisher = publisher
	}
}

func New(primary Store, limit int, window time.Duration, logger *slog.Logger, opts ...Option) *Middleware {
	m := &Middleware{
		primary: primary,
		limit:   limit,
		window:  window,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.breaker == nil {
		m.breaker = circuit.New("ratelimit")
	}
	return m
}

// RateLimit rejects requests over the per-IP limit with 429.
func (m *Middleware) RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ip := requestcontext.ClientIP(ctx)

		result, degraded, err := m.check(ctx, models.NewIPKey(ip))
		if err != nil {
			m.metrics.IncrementCheck("error")
			m.logger.ErrorContext(ctx, "failed to check IP rate limit",
				"error", err,
				"ip_prefix", privacy.AnonymizeIP(ip),
			)
			next.ServeHTTP(w, r)
			return
		}

		addRateLimitHeaders(w, result)
		if degraded {
			w.Header().Set("X-RateLimit-Status", "degraded")
		}

		if !result.Allowed {
			m.metrics.IncrementCheck("denied")
			m.logger.InfoContext(ctx, "rate limit exceeded",
				"request_id", requestcontext.RequestID(ctx),
				"ip_prefix", privacy.AnonymizeIP(ip),
				"limit", result.Limit,
			)
			m.emitExceeded(ctx, ip)
			writeRateLimitExceeded(w, result)
			return
		}

		m.metrics.IncrementCheck("allowed")
		next.ServeHTTP(w, r)
	})
}

// check asks the primary store and falls back on error or while the circuit
// is open. degraded reports that the fallback answered.
func (m *Middleware) check(ctx context.Context, key string) (*models.RateLimitResult, bool, error) {
	result, err := m.primary.Allow(ctx, key, m.limit, m.window)
	if m.fallback == nil {
		return result, false, err
	}

	if err != nil {
		_, change := m.breaker.RecordFailure()
		if change.Opened {
			m.metrics.SetCircuitOpen(true)
			m.logger.WarnContext(ctx, "rate limit store unavailable, using in-memory fallback", "error", err)
		}
		return m.fromFallback(ctx, key)
	}

	usePrimary, change := m.breaker.RecordSuccess()
	if change.Closed {
		m.metrics.SetCircuitOpen(false)
		m.logger.InfoContext(ctx, "rate limit store recovered")
	}
	if !usePrimary {
		return m.fromFallback(ctx, key)
	}
	return result, false, nil
}

func (m *Middleware) fromFallback(ctx context.Context, key string) (*models.RateLimitResult, bool, error) {
	m.metrics.IncrementFallback()
	result, err := m.fallback.Allow(ctx, key, m.limit, m.window)
	return result, true, err
}

func (m *Middleware) emitExceeded(ctx context.Context, ip string) {
	if m.auditPublisher == nil {
		return
	}
	err := m.auditPublisher.Emit(ctx, audit.Event{
		Action:    string(audit.EventRateLimitExceeded),
		Decision:  "denied",
		RequestID: requestcontext.RequestID(ctx),
		ClientIP:  privacy.AnonymizeIP(ip),
	})
	if err != nil {
		m.logger.DebugContext(ctx, "audit event not recorded", "error", err)
	}
}

func addRateLimitHeaders(w http.ResponseWriter, result *models.RateLimitResult) {
	if result == nil {
		return
	}
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
}

func writeRateLimitExceeded(w http.ResponseWriter, result *models.RateLimitResult) {
	w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfter))
	httputil.WriteJSON(w, http.StatusTooManyRequests, &models.RateLimitExceededResponse{
		Error:      string(dErrors.CodeRateLimited),
		Message:    "Too many requests from this IP address. Please try again later.",
		RetryAfter: result.RetryAfter,
	})
}
