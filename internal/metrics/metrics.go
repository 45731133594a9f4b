package metrics

import "github.com/prometheus/client_golang/prometheus"

// Sheets request outcomes used as the result label.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// NewRateLimitExceededTotal returns a Prometheus counter for the number of rejected HTTP requests due to rate limiting
func NewRateLimitExceededTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rate_limit_exceeded_total",
		Help: "Total number of rejected HTTP requests due to rate limiting",
	})
}

// NewSheetsRequestsTotal counts spreadsheet API calls by operation and result.
func NewSheetsRequestsTotal() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sheets_requests_total",
		Help: "Total number of spreadsheet API calls",
	}, []string{"op", "result"})
}

// NewSheetsRequestDuration tracks spreadsheet API latency by operation.
func NewSheetsRequestDuration() *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sheets_request_duration_seconds",
		Help:    "Duration of spreadsheet API calls",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"op"})
}

// NewDeliveriesPending reports the size of the pending backlog per priority.
func NewDeliveriesPending() *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "deliveries_pending",
		Help: "Number of pending deliveries by priority",
	}, []string{"priority"})
}

// NewScanEventsTotal counts consumed scan events by outcome.
func NewScanEventsTotal() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scan_events_total",
		Help: "Total number of consumed delivery scan events",
	}, []string{"result"})
}
