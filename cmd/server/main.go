package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"personnummer/internal/personnummer/handler"
	pnrmetrics "personnummer/internal/personnummer/metrics"
	"personnummer/internal/personnummer/service"
	"personnummer/internal/platform/config"
	"personnummer/internal/platform/httpserver"
	"personnummer/internal/platform/logger"
	"personnummer/internal/platform/metrics"
	"personnummer/internal/platform/redis"
	rlmetrics "personnummer/internal/ratelimit/metrics"
	ratelimit "personnummer/internal/ratelimit/middleware"
	"personnummer/internal/ratelimit/store/memory"
	redisstore "personnummer/internal/ratelimit/store/redis"
	httptransport "personnummer/internal/transport/http"
	"personnummer/pkg/platform/audit/publisher"
	auditmemory "personnummer/pkg/platform/audit/store/memory"
)

const (
	auditRetention  = 10000
	janitorInterval = time.Minute
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal service packages.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	reg := prometheus.DefaultRegisterer

	auditPublisher := publisher.NewPublisher(
		auditmemory.NewInMemoryStore(auditRetention),
		publisher.WithAsyncBuffer(cfg.AuditBuffer),
		publisher.WithLogger(log),
		publisher.WithMetrics(publisher.NewMetricsWithRegisterer(reg)),
	)
	defer auditPublisher.Close()

	svc := service.New(
		service.WithLogger(log),
		service.WithMetrics(pnrmetrics.NewWithRegisterer(reg)),
		service.WithAuditPublisher(auditPublisher),
		service.WithBatchConcurrency(cfg.BatchConcurrency),
	)

	deps := httptransport.Deps{
		Logger:      log,
		HTTPMetrics: metrics.NewWithRegisterer(reg),
		Validation:  handler.New(svc, log, cfg.BatchMaxItems),
		Health:      map[string]httptransport.HealthCheck{},
		TrustProxy:  cfg.TrustProxyHeaders,
		Audit:       auditPublisher,
	}
	if cfg.MetricsEnabled {
		deps.Metrics = promhttp.Handler()
	}

	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
		deps.Health["redis"] = redisClient.Health
	}

	if cfg.RateLimit.Enabled {
		fallback := memory.New()
		go fallback.RunJanitor(ctx, janitorInterval, cfg.RateLimit.Window, log)

		var primary ratelimit.Store = fallback
		opts := []ratelimit.Option{
			ratelimit.WithMetrics(rlmetrics.NewWithRegisterer(reg)),
			ratelimit.WithAuditPublisher(auditPublisher),
		}
		if redisClient != nil {
			primary = redisstore.New(redisClient.Client)
			opts = append(opts, ratelimit.WithFallback(fallback))
		}
		deps.RateLimit = ratelimit.New(primary, cfg.RateLimit.RequestsPerWindow, cfg.RateLimit.Window, log, opts...)
	} else {
		log.Info("rate limiting disabled")
	}

	log.Info("starting personnummer server", "addr", cfg.Addr, "redis", redisClient != nil)
	srv := httpserver.New(cfg.Addr, httptransport.NewRouter(deps))
	return httpserver.Run(ctx, srv, log, cfg.ShutdownTimeout)
}
