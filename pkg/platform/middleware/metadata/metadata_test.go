package metadata

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"personnummer/pkg/requestcontext"
)

func TestClientIPFromRequest(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		remote     string
		trustProxy bool
		want       string
	}{
		{"forwarded chain takes first", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, "10.0.0.2:1234", true, "203.0.113.7"},
		{"single forwarded", map[string]string{"X-Forwarded-For": " 203.0.113.8 "}, "10.0.0.2:1234", true, "203.0.113.8"},
		{"real ip header", map[string]string{"X-Real-IP": "198.51.100.4"}, "10.0.0.2:1234", true, "198.51.100.4"},
		{"garbage forwarded falls through", map[string]string{"X-Forwarded-For": "evil"}, "10.0.0.2:1234", true, "10.0.0.2"},
		{"proxy headers ignored when untrusted", map[string]string{"X-Forwarded-For": "203.0.113.7"}, "10.0.0.2:1234", false, "10.0.0.2"},
		{"ipv4 remote addr", nil, "192.0.2.1:5555", false, "192.0.2.1"},
		{"ipv6 remote addr", nil, "[::1]:5555", false, "::1"},
		{"mapped ipv4 remote addr", nil, "[::ffff:192.0.2.1]:5555", false, "192.0.2.1"},
		{"empty remote addr", nil, "", false, Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, ClientIPFromRequest(r, tt.trustProxy))
		})
	}
}

func TestClientMetadata(t *testing.T) {
	var gotIP, gotUA string
	h := ClientMetadata(false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotIP = requestcontext.ClientIP(r.Context())
		gotUA = requestcontext.UserAgent(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.0.2.9:1000"
	r.Header.Set("User-Agent", "pnr-test")
	h.ServeHTTP(httptest.NewRecorder(), r)

	assert.Equal(t, "192.0.2.9", gotIP)
	assert.Equal(t, "pnr-test", gotUA)
}
