package admin

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistry(t *testing.T) *prometheus.Registry {
	t.Helper()
	reg := prometheus.NewRegistry()
	c := prometheus.NewCounter(prometheus.CounterOpts{Name: "admin_test_total", Help: "test"})
	reg.MustRegister(c)
	c.Inc()
	return reg
}

func basic(user, pass string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+pass))
}

func TestHandler_Access(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		cfg    Config
		remote string
		auth   string
		want   int
	}{
		{name: "loopback v4", remote: "127.0.0.1:5000", want: http.StatusOK},
		{name: "loopback v6", remote: "[::1]:5000", want: http.StatusOK},
		{name: "remote without creds configured", remote: "10.0.0.7:5000", auth: basic("a", "b"), want: http.StatusUnauthorized},
		{name: "remote wrong password", cfg: Config{User: "ops", Pass: "s3cret"}, remote: "10.0.0.7:5000", auth: basic("ops", "nope"), want: http.StatusUnauthorized},
		{name: "remote no header", cfg: Config{User: "ops", Pass: "s3cret"}, remote: "10.0.0.7:5000", want: http.StatusUnauthorized},
		{name: "remote good creds", cfg: Config{User: "ops", Pass: "s3cret"}, remote: "10.0.0.7:5000", auth: basic("ops", "s3cret"), want: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := Handler(tt.cfg, newRegistry(t))
			req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
			req.RemoteAddr = tt.remote
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			require.Equal(t, tt.want, rr.Code)
			if tt.want == http.StatusUnauthorized {
				assert.Equal(t, realm, rr.Header().Get("WWW-Authenticate"))
			}
		})
	}
}

func TestHandler_ServesMetricsAndPprof(t *testing.T) {
	t.Parallel()

	h := Handler(Config{}, newRegistry(t))

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.RemoteAddr = "127.0.0.1:1"
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "admin_test_total 1")

	req = httptest.NewRequest(http.MethodGet, "/debug/pprof/cmdline", nil)
	req.RemoteAddr = "127.0.0.1:1"
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
}

func TestIsLoopback(t *testing.T) {
	t.Parallel()

	cases := map[string]bool{
		"127.0.0.1:123": true,
		"127.0.0.1":     true,
		" 127.0.0.1 ":   true,
		"[::1]:123":     true,
		"8.8.8.8:1":     false,
		"not-an-ip:1":   false,
		"":              false,
	}
	for in, want := range cases {
		assert.Equal(t, want, isLoopback(in), in)
	}
}
