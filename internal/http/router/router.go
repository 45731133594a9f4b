package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"delivery-tracker/internal/http/handlers"
	obs "delivery-tracker/internal/http/middleware"
	"delivery-tracker/internal/http/middleware/ratelimit"
	"delivery-tracker/internal/logx"
)

// requestTimeout bounds a whole request; spreadsheet calls have their own timeout below it.
const requestTimeout = 15 * time.Second

// Probe paths are never rate limited.
const (
	PathPing        = "/ping"
	PathHealthcheck = "/healthcheck"
)

// New constructs a chi-based http.Handler with base middleware and routes.
// rl may be nil to disable rate limiting.
func New(h *handlers.Handlers, d *handlers.DeliveryHandler, rl *ratelimit.Middleware, logger logx.Logger) http.Handler {
	if logger == nil {
		logger = logx.Nop()
	}
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(obs.Observability(logger))
	r.Use(middleware.Recoverer)
	if rl != nil {
		r.Use(rl.Handler())
	}
	r.Use(middleware.Timeout(requestTimeout))

	r.Get(PathPing, h.Ping)
	r.Method(http.MethodHead, PathHealthcheck, http.HandlerFunc(h.HealthcheckHead))

	r.Route("/deliveries", func(r chi.Router) {
		r.Get("/pending", d.ListPending)
		r.Get("/history", d.ListHistory)
		r.Post("/", d.Register)
		r.Get("/{orderID}", d.Get)
		r.Patch("/{orderID}/status", d.UpdateStatus)
	})
	r.Get("/priority", d.Priority)

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}
