package sheets

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"delivery-tracker/internal/logx"
	"delivery-tracker/internal/metrics"
)

// Values описывает операции над значениями таблицы
type Values interface {
	Get(ctx context.Context, rng Range) ([][]string, error)
	BatchUpdate(ctx context.Context, updates []CellUpdate) error
	Append(ctx context.Context, rng Range, rows [][]string) error
}

// Metrics holds collectors for InstrumentedGateway. Nil fields are skipped.
type Metrics struct {
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

// InstrumentedGateway считает вызовы и пишет в лог неудачи.
// Повторов нет: запись в таблицу не идемпотентна.
type InstrumentedGateway struct {
	next    Values
	logger  logx.Logger
	metrics Metrics
	now     func() time.Time
}

// NewInstrumentedGateway конструктор, проверяет что next не nil
func NewInstrumentedGateway(next Values, logger logx.Logger, m Metrics) *InstrumentedGateway {
	if next == nil {
		return nil
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &InstrumentedGateway{next: next, logger: logger, metrics: m, now: time.Now}
}

// Get реализует Values
func (g *InstrumentedGateway) Get(ctx context.Context, rng Range) ([][]string, error) {
	start := g.now()
	rows, err := g.next.Get(ctx, rng)
	g.observe("get", rng.A1(), start, err)
	return rows, err
}

// BatchUpdate реализует Values
func (g *InstrumentedGateway) BatchUpdate(ctx context.Context, updates []CellUpdate) error {
	start := g.now()
	err := g.next.BatchUpdate(ctx, updates)
	target := ""
	if len(updates) > 0 {
		target = updates[0].Range.A1()
	}
	g.observe("batch_update", target, start, err)
	return err
}

// Append реализует Values
func (g *InstrumentedGateway) Append(ctx context.Context, rng Range, rows [][]string) error {
	start := g.now()
	err := g.next.Append(ctx, rng, rows)
	g.observe("append", rng.A1(), start, err)
	return err
}

func (g *InstrumentedGateway) observe(op, target string, start time.Time, err error) {
	elapsed := g.now().Sub(start)
	result := metrics.ResultOK
	if err != nil {
		result = metrics.ResultError
	}
	if g.metrics.Requests != nil {
		g.metrics.Requests.WithLabelValues(op, result).Inc()
	}
	if g.metrics.Duration != nil {
		g.metrics.Duration.WithLabelValues(op).Observe(elapsed.Seconds())
	}
	if err != nil {
		g.logger.Warn("sheets call failed",
			logx.String("op", op),
			logx.String("range", target),
			logx.Duration("elapsed", elapsed),
			logx.Err(err),
		)
	}
}
