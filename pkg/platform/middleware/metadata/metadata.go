// Package metadata records who is calling: the client IP used for rate
// limiting and audit, and the User-Agent.
package metadata

import (
	"net"
	"net/http"
	"net/netip"
	"strings"

	"personnummer/pkg/requestcontext"
)

// Unknown is stored when no usable address is found.
const Unknown = "unknown"

// ClientMetadata stores the client IP and User-Agent in the request context.
// Proxy headers are ignored unless trustProxy is set, otherwise any caller
// could pick its own rate limit bucket.
func ClientMetadata(trustProxy bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := requestcontext.WithClientMetadata(r.Context(), ClientIPFromRequest(r, trustProxy), r.UserAgent())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClientIPFromRequest returns the caller's address. With trustProxy, the
// first X-Forwarded-For hop or X-Real-IP wins when it parses as an IP.
func ClientIPFromRequest(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			if ip, ok := parseIP(first); ok {
				return ip
			}
		}
		if ip, ok := parseIP(r.Header.Get("X-Real-IP")); ok {
			return ip
		}
	}

	host := r.RemoteAddr
	if h, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		host = h
	}
	if ip, ok := parseIP(host); ok {
		return ip
	}
	return Unknown
}

func parseIP(s string) (string, bool) {
	addr, err := netip.ParseAddr(strings.Trim(strings.TrimSpace(s), "[]"))
	if err != nil {
		return "", false
	}
	return addr.Unmap().String(), true
}
