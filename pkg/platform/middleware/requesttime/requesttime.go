// Package requesttime pins one reference instant per HTTP request, so an
// identifier checked across midnight sees a single "today".
package requesttime

import (
	"net/http"
	"time"

	"personnummer/pkg/requestcontext"
)

// Middleware stamps the request with the wall clock.
func Middleware(next http.Handler) http.Handler {
	return MiddlewareWithClock(time.Now)(next)
}

// MiddlewareWithClock stamps the request with now().
func MiddlewareWithClock(now func() time.Time) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(requestcontext.WithTime(r.Context(), now())))
		})
	}
}
