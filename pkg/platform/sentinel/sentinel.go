package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so callers can react without knowing the backend.
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var (
	// ErrUnavailable means a backend could not be reached or answered with an error.
	ErrUnavailable = errors.New("unavailable")
)
