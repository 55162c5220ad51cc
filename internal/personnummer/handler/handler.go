package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"personnummer/internal/personnummer/service"
	dErrors "personnummer/pkg/domain-errors"
	"personnummer/pkg/platform/httputil"
	"personnummer/pkg/requestcontext"
)

// DefaultBatchMaxItems applies when the handler is built without a limit.
const DefaultBatchMaxItems = 100

// Service defines the interface for validation operations.
type Service interface {
	ValidateAt(ctx context.Context, raw string, ref time.Time) service.Result
	ValidateBatch(ctx context.Context, items []string, ref time.Time) ([]service.Result, error)
}

// Handler wires validation endpoints to the personnummer service.
type Handler struct {
	service       Service
	logger        *slog.Logger
	batchMaxItems int
}

// New constructs a validation handler. batchMaxItems bounds the batch
// endpoint; non-positive values fall back to DefaultBatchMaxItems.
func New(service Service, logger *slog.Logger, batchMaxItems int) *Handler {
	if batchMaxItems <= 0 {
		batchMaxItems = DefaultBatchMaxItems
	}
	return &Handler{
		service:       service,
		logger:        logger,
		batchMaxItems: batchMaxItems,
	}
}

// Register mounts validation endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/personnummer/validate", h.HandleValidate)
	r.Post("/personnummer/validate/batch", h.HandleValidateBatch)
}

// HandleValidate handles POST /personnummer/validate requests.
func (h *Handler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[ValidateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result := h.service.ValidateAt(ctx, req.Input(), h.referenceDate(ctx, req.ParsedReferenceDate()))

	h.logger.InfoContext(ctx, "personnummer validated",
		"request_id", requestID,
		"valid", result.Valid,
		"reason", result.Reason,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, FromResult(result))
}

// HandleValidateBatch handles POST /personnummer/validate/batch requests.
func (h *Handler) HandleValidateBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[BatchValidateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	if len(req.Items) > h.batchMaxItems {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation,
			fmt.Sprintf("items must contain at most %d entries", h.batchMaxItems)))
		return
	}

	results, err := h.service.ValidateBatch(ctx, req.Items, h.referenceDate(ctx, req.ParsedReferenceDate()))
	if err != nil {
		h.logger.ErrorContext(ctx, "batch validation failed",
			"request_id", requestID,
			"items", len(req.Items),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	resp := FromResults(results)
	h.logger.InfoContext(ctx, "personnummer batch validated",
		"request_id", requestID,
		"items", len(results),
		"valid_count", resp.ValidCount,
		"invalid_count", resp.InvalidCount,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, resp)
}

// referenceDate prefers the caller's date and falls back to request time.
func (h *Handler) referenceDate(ctx context.Context, requested time.Time) time.Time {
	if !requested.IsZero() {
		return requested
	}
	return requestcontext.Now(ctx)
}
