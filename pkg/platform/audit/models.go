package audit

import (
	"context"
	"time"
)

// EventCategory classifies audit events by their primary purpose.
type EventCategory string

const (
	// CategoryOperations covers routine validation traffic. These can be
	// sampled or dropped under pressure.
	CategoryOperations EventCategory = "operations"

	// CategorySecurity covers events relevant to abuse monitoring, such as
	// rejected requests from a client that exceeded its rate limit.
	CategorySecurity EventCategory = "security"
)

// Event is emitted from the service layer to capture validation outcomes.
// It never carries the identifier under validation, neither raw nor hashed.
type Event struct {
	Category  EventCategory `json:"category"`
	Timestamp time.Time     `json:"timestamp"`
	Action    string        `json:"action"`
	// Decision is "valid" or "invalid" for validation events.
	Decision string `json:"decision,omitempty"`
	// Reason is the stable reason code of a rejected identifier.
	Reason    string `json:"reason,omitempty"`
	RequestID string `json:"request_id,omitempty"`
	// ClientIP is always the anonymized prefix, never the full address.
	ClientIP string `json:"client_ip,omitempty"`
	// Count is the number of items for batch events.
	Count int `json:"count,omitempty"`
}

type AuditEvent string

const (
	EventPersonnummerValidated AuditEvent = "personnummer_validated"
	EventBatchValidated        AuditEvent = "personnummer_batch_validated"
	EventRateLimitExceeded     AuditEvent = "rate_limit_exceeded"
)

// Category returns the category an action belongs to.
func (e AuditEvent) Category() EventCategory {
	switch e {
	case EventRateLimitExceeded:
		return CategorySecurity
	default:
		return CategoryOperations
	}
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}
