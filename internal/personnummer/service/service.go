package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"personnummer/internal/personnummer"
	"personnummer/internal/personnummer/metrics"
	dErrors "personnummer/pkg/domain-errors"
	"personnummer/pkg/platform/audit"
	"personnummer/pkg/platform/privacy"
	"personnummer/pkg/requestcontext"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const (
	tracerName              = "personnummer/service"
	defaultBatchConcurrency = 8
)

// AuditPublisher emits audit events for validation outcomes.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Result is the outcome for one identifier. Personnummer is the zero value
// unless the verdict is valid.
type Result struct {
	personnummer.Verdict
	Personnummer personnummer.Personnummer
}

// Service validates identifiers on behalf of transports. It owns the
// reference clock, metrics, tracing and auditing so the core stays pure.
type Service struct {
	auditPublisher   AuditPublisher
	logger           *slog.Logger
	metrics          *metrics.Metrics
	tracer           trace.Tracer
	batchConcurrency int
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

// WithBatchConcurrency bounds the goroutines used by ValidateBatch.
func WithBatchConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.batchConcurrency = n
		}
	}
}

func New(opts ...Option) *Service {
	svc := &Service{
		logger:           slog.Default(),
		tracer:           otel.Tracer(tracerName),
		batchConcurrency: defaultBatchConcurrency,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Validate checks raw against the request-scoped time.
func (s *Service) Validate(ctx context.Context, raw string) Result {
	return s.ValidateAt(ctx, raw, requestcontext.Now(ctx))
}

// ValidateAt checks raw against the reference date ref.
func (s *Service) ValidateAt(ctx context.Context, raw string, ref time.Time) Result {
	ctx, span := s.tracer.Start(ctx, "personnummer.Validate")
	defer span.End()

	result := s.validate(ref, raw)
	annotate(span, result)

	s.emit(ctx, audit.Event{
		Action:   string(audit.EventPersonnummerValidated),
		Decision: decision(result.Valid),
		Reason:   string(result.Reason),
	})
	return result
}

// ValidateBatch checks every item against ref and returns results in input
// order. Cancellation of ctx aborts the batch with a timeout error.
func (s *Service) ValidateBatch(ctx context.Context, items []string, ref time.Time) ([]Result, error) {
	ctx, span := s.tracer.Start(ctx, "personnummer.ValidateBatch",
		trace.WithAttributes(attribute.Int("pnr.batch_size", len(items))))
	defer span.End()

	s.metrics.ObserveBatchSize(len(items))

	if err := ctx.Err(); err != nil {
		return nil, s.batchAborted(ctx, span, err)
	}

	results := make([]Result, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.batchConcurrency)
	for i, raw := range items {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = s.validate(ref, raw)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, s.batchAborted(ctx, span, err)
	}

	valid := 0
	for _, r := range results {
		if r.Valid {
			valid++
		}
	}
	span.SetAttributes(attribute.Int("pnr.valid_count", valid))

	s.emit(ctx, audit.Event{
		Action: string(audit.EventBatchValidated),
		Count:  len(items),
	})
	return results, nil
}

// validate runs the core pipeline and records metrics. It never logs raw.
func (s *Service) validate(ref time.Time, raw string) Result {
	start := time.Now()
	p, err := personnummer.Parse(raw, ref)
	s.metrics.ObserveValidationDuration(time.Since(start))

	result := Result{Verdict: personnummer.VerdictOf(err), Personnummer: p}
	s.metrics.IncrementValidation(string(result.Reason))
	return result
}

func (s *Service) batchAborted(ctx context.Context, span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, "batch aborted")
	s.logger.WarnContext(ctx, "batch validation aborted",
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	)
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "batch validation did not complete in time")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "batch validation failed")
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.auditPublisher == nil {
		return
	}
	event.RequestID = requestcontext.RequestID(ctx)
	if ip := requestcontext.ClientIP(ctx); ip != "" {
		event.ClientIP = privacy.AnonymizeIP(ip)
	}
	if err := s.auditPublisher.Emit(ctx, event); err != nil {
		s.logger.DebugContext(ctx, "audit event not recorded",
			"action", event.Action,
			"error", err,
		)
	}
}

func annotate(span trace.Span, r Result) {
	span.SetAttributes(attribute.Bool("pnr.valid", r.Valid))
	if !r.Valid {
		span.SetAttributes(attribute.String("pnr.reason", string(r.Reason)))
	}
}

func decision(valid bool) string {
	if valid {
		return "valid"
	}
	return "invalid"
}
