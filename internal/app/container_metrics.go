package app

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"delivery-tracker/internal/gateway/sheets"
	"delivery-tracker/internal/metrics"
)

type metricsOut struct {
	dig.Out

	RateLimited prometheus.Counter     `name:"rate_limit_exceeded_total"`
	ScanEvents  *prometheus.CounterVec `name:"scan_events_total"`
	Pending     *prometheus.GaugeVec   `name:"deliveries_pending"`
	Sheets      sheets.Metrics
}

// newMetrics creates every collector and registers it on the container's registry.
func newMetrics(reg *prometheus.Registry) (metricsOut, error) {
	out := metricsOut{
		RateLimited: metrics.NewRateLimitExceededTotal(),
		ScanEvents:  metrics.NewScanEventsTotal(),
		Pending:     metrics.NewDeliveriesPending(),
		Sheets: sheets.Metrics{
			Requests: metrics.NewSheetsRequestsTotal(),
			Duration: metrics.NewSheetsRequestDuration(),
		},
	}
	for _, c := range []prometheus.Collector{
		out.RateLimited,
		out.ScanEvents,
		out.Pending,
		out.Sheets.Requests,
		out.Sheets.Duration,
	} {
		if err := reg.Register(c); err != nil {
			return metricsOut{}, fmt.Errorf("register collector: %w", err)
		}
	}
	return out, nil
}

func registerMetrics(container *dig.Container) error {
	return provideAll(container, newMetrics)
}
