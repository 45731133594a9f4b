package scans

import (
	"context"
	"errors"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"delivery-tracker/internal/apperr"
	"delivery-tracker/internal/domain"
	"delivery-tracker/internal/logx"
)

// Outcomes reported in scan_events_total.
const (
	ResultApplied  = "applied"
	ResultNotFound = "not_found"
	ResultInvalid  = "invalid"
	ResultFailed   = "failed"
)

// Processor applies scan events to deliveries.
type Processor struct {
	updater StatusUpdater
	logger  logx.Logger
	results *prometheus.CounterVec
}

// NewProcessor creates a Processor. results may be nil.
func NewProcessor(updater StatusUpdater, logger logx.Logger, results *prometheus.CounterVec) *Processor {
	if logger == nil {
		logger = logx.Nop()
	}
	return &Processor{updater: updater, logger: logger, results: results}
}

// Handle applies one event. Unknown orders and invalid events are logged and
// dropped; only store failures come back as errors so the event is redelivered.
func (p *Processor) Handle(ctx context.Context, e Event) error {
	change := domain.StatusChange{
		Status:  domain.DeliveryStatus(strings.ToLower(strings.TrimSpace(e.Status))),
		Problem: domain.DeliveryProblem(strings.TrimSpace(e.Problem)),
		Comment: e.Comment,
	}
	// a bare scan means the package was handed over
	if change.Status == "" {
		change.Status = domain.StatusDelivered
	}

	log := p.logger.With(eventFields(e)...)
	err := p.updater.UpdateStatus(ctx, e.OrderID, change)
	switch {
	case err == nil:
		p.count(ResultApplied)
		log.Debug("scan applied", logx.String("status", string(change.Status)))
		return nil
	case errors.Is(err, apperr.ErrNotFound):
		p.count(ResultNotFound)
		log.Warn("scan for unknown order")
		return nil
	case errors.Is(err, apperr.ErrInvalid):
		p.count(ResultInvalid)
		log.Warn("scan rejected", logx.String("status", string(change.Status)), logx.Err(err))
		return nil
	default:
		p.count(ResultFailed)
		return err
	}
}

// eventFields ties log lines to the device scan; scanned_at is omitted when the device sent none.
func eventFields(e Event) []logx.Field {
	fields := []logx.Field{logx.String("order_id", e.OrderID)}
	if !e.ScannedAt.IsZero() {
		fields = append(fields, logx.Time("scanned_at", e.ScannedAt))
	}
	return fields
}

func (p *Processor) count(result string) {
	if p.results != nil {
		p.results.WithLabelValues(result).Inc()
	}
}
