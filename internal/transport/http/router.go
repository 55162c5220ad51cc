package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"personnummer/internal/personnummer/handler"
	"personnummer/internal/platform/metrics"
	"personnummer/internal/platform/middleware"
	ratelimit "personnummer/internal/ratelimit/middleware"
	dErrors "personnummer/pkg/domain-errors"
	"personnummer/pkg/platform/httputil"
	"personnummer/pkg/platform/middleware/metadata"
	"personnummer/pkg/platform/middleware/requestid"
	"personnummer/pkg/platform/middleware/requesttime"
)

// HealthCheck reports whether a dependency is usable.
type HealthCheck func(ctx context.Context) error

// Deps holds everything the router mounts. RateLimit, Metrics, Audit and
// Health are optional.
type Deps struct {
	Logger      *slog.Logger
	HTTPMetrics *metrics.Metrics
	Validation  *handler.Handler
	RateLimit   *ratelimit.Middleware
	// Metrics serves GET /metrics when set.
	Metrics http.Handler
	Health  map[string]HealthCheck
	// TrustProxy reads the client IP from proxy headers.
	TrustProxy bool
	// Audit serves GET /audit/recent when set.
	Audit AuditLister
}

// NewRouter wires all public endpoints behind the shared middleware chain.
// Only the validation routes are rate limited.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata(d.TrustProxy))
	r.Use(middleware.AccessLog(d.Logger, d.HTTPMetrics))
	r.Use(middleware.Recover(d.Logger))

	r.Get("/healthz", healthz(d.Health))
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics)
	}
	if d.Audit != nil {
		r.Get("/audit/recent", auditRecent(d.Audit))
	}

	r.Group(func(r chi.Router) {
		if d.RateLimit != nil {
			r.Use(d.RateLimit.RateLimit)
		}
		d.Validation.Register(r)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "route not found"))
	})
	return r
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func healthz(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := healthResponse{Status: "ok"}
		status := http.StatusOK
		if len(checks) > 0 {
			resp.Checks = make(map[string]string, len(checks))
		}
		for name, check := range checks {
			if err := check(r.Context()); err != nil {
				resp.Checks[name] = "unavailable"
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}
		httputil.WriteJSON(w, status, resp)
	}
}
