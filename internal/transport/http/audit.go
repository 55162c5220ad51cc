package httptransport

import (
	"context"
	"net/http"
	"strconv"

	dErrors "personnummer/pkg/domain-errors"
	"personnummer/pkg/platform/audit"
	"personnummer/pkg/platform/httputil"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 1000
)

// AuditLister reads back retained audit events, oldest first.
type AuditLister interface {
	List(ctx context.Context, limit int) ([]audit.Event, error)
}

type auditResponse struct {
	Events []audit.Event `json:"events"`
	Count  int           `json:"count"`
}

// auditRecent serves GET /audit/recent?limit=N.
func auditRecent(lister AuditLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := defaultAuditLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 || n > maxAuditLimit {
				httputil.WriteError(w, dErrors.New(dErrors.CodeValidation,
					"limit must be an integer between 1 and "+strconv.Itoa(maxAuditLimit)))
				return
			}
			limit = n
		}

		events, err := lister.List(r.Context(), limit)
		if err != nil {
			httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read audit events"))
			return
		}
		if events == nil {
			events = []audit.Event{}
		}
		httputil.WriteJSON(w, http.StatusOK, auditResponse{Events: events, Count: len(events)})
	}
}
