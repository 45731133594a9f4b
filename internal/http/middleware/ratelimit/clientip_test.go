package ratelimit

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClientIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		remote string
		want   string
	}{
		{name: "host and port", remote: "10.1.2.3:5555", want: "10.1.2.3"},
		{name: "ipv6", remote: "[2001:db8::1]:443", want: "2001:db8::1"},
		{name: "rewritten by RealIP", remote: "203.0.113.9", want: "203.0.113.9"},
		{name: "empty", remote: "", want: "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "http://example/", nil)
			r.RemoteAddr = tt.remote
			require.Equal(t, tt.want, clientIP(r))
		})
	}
}
