package app

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/prometheus/client_golang/prometheus"

	"delivery-tracker/internal/domain"
	"delivery-tracker/internal/logx"
)

type backlogSource interface {
	Backlog(ctx context.Context) (map[domain.Priority]int, error)
}

// backlogJob periodically publishes the pending backlog per priority.
type backlogJob struct {
	src      backlogSource
	gauge    *prometheus.GaugeVec
	interval time.Duration
	logger   logx.Logger
}

func newBacklogJob(src backlogSource, gauge *prometheus.GaugeVec, interval time.Duration, logger logx.Logger) *backlogJob {
	if logger == nil {
		logger = logx.Nop()
	}
	return &backlogJob{
		src:      src,
		gauge:    gauge,
		interval: interval,
		logger:   logger.With(logx.String("job", "backlog")),
	}
}

// refresh keeps the previous gauge values when the spreadsheet cannot be read.
func (j *backlogJob) refresh(ctx context.Context) {
	counts, err := j.src.Backlog(ctx)
	if err != nil {
		j.logger.Warn("backlog refresh failed", logx.Err(err))
		return
	}
	total := 0
	for p, n := range counts {
		j.gauge.WithLabelValues(string(p)).Set(float64(n))
		total += n
	}
	j.logger.Debug("backlog refreshed", logx.Int("pending", total))
}

// Run schedules refresh until ctx is done.
func (j *backlogJob) Run(ctx context.Context) error {
	s, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("backlog scheduler: %w", err)
	}
	_, err = s.NewJob(
		gocron.DurationJob(j.interval),
		gocron.NewTask(func() { j.refresh(ctx) }),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		_ = s.Shutdown()
		return fmt.Errorf("backlog job: %w", err)
	}

	s.Start()
	j.logger.Info("backlog job started", logx.Duration("interval", j.interval))
	<-ctx.Done()

	if err := s.Shutdown(); err != nil {
		return fmt.Errorf("backlog scheduler shutdown: %w", err)
	}
	return ctx.Err()
}
