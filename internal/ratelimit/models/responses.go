package models

// RateLimitExceededResponse is the 429 body. Error is always
// "rate_limit_exceeded" and RetryAfter repeats the Retry-After header in seconds.
type RateLimitExceededResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	RetryAfter int    `json:"retry_after"`
}
