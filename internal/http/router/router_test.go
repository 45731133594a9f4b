package router_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"delivery-tracker/internal/domain"
	"delivery-tracker/internal/http/handlers"
	"delivery-tracker/internal/http/middleware/ratelimit"
	"delivery-tracker/internal/http/router"
)

type denyAll struct{}

func (denyAll) Allow(string) bool { return false }

// fakeService satisfies the usecase the delivery handler is built from.
type fakeService struct{}

func (fakeService) ListPending(context.Context) ([]domain.View, error) {
	return []domain.View{{Delivery: domain.Delivery{OrderID: "P-1"}}}, nil
}

func (fakeService) ListHistory(context.Context) ([]domain.View, error) { return nil, nil }

func (fakeService) Find(_ context.Context, orderID string) (domain.View, error) {
	return domain.View{Delivery: domain.Delivery{OrderID: orderID}}, nil
}

func (fakeService) RegisterOrUpdate(_ context.Context, d domain.Delivery) (domain.Delivery, bool, error) {
	return d, true, nil
}

func (fakeService) UpdateStatus(context.Context, string, domain.StatusChange) error { return nil }

func (fakeService) Classify(time.Time) (int, domain.Priority) { return 0, domain.PriorityNormal }

func newRouter(rl *ratelimit.Middleware) http.Handler {
	return router.New(handlers.New(nil), handlers.NewDeliveryHandler(fakeService{}, nil), rl, nil)
}

func TestNew_Routes(t *testing.T) {
	t.Parallel()

	h := newRouter(nil)

	tests := []struct {
		method string
		path   string
		body   string
		want   int
	}{
		{method: http.MethodGet, path: "/ping", want: http.StatusOK},
		{method: http.MethodHead, path: "/healthcheck", want: http.StatusNoContent},
		{method: http.MethodGet, path: "/deliveries/pending", want: http.StatusOK},
		{method: http.MethodGet, path: "/deliveries/history", want: http.StatusOK},
		{method: http.MethodGet, path: "/deliveries/ORD-1", want: http.StatusOK},
		{method: http.MethodPost, path: "/deliveries", body: `{"order_id":"A","delivery_type":"otro"}`, want: http.StatusCreated},
		{method: http.MethodPatch, path: "/deliveries/ORD-1/status", body: `{"status":"delivered"}`, want: http.StatusNoContent},
		{method: http.MethodGet, path: "/priority?created_at=2025-01-01", want: http.StatusOK},
		{method: http.MethodGet, path: "/unknown", want: http.StatusNotFound},
		{method: http.MethodDelete, path: "/deliveries/pending", want: http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			assert.Equal(t, tt.want, rr.Code, rr.Body.String())
		})
	}
}

func TestNew_RateLimitSkipsProbes(t *testing.T) {
	t.Parallel()

	rl := ratelimit.New(nil, nil, denyAll{}, router.PathPing, router.PathHealthcheck)
	h := newRouter(rl)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/deliveries/pending", nil))
	require.Equal(t, http.StatusTooManyRequests, rr.Code)
}
