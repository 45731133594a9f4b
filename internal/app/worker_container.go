package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"delivery-tracker/internal/config"
	"delivery-tracker/internal/logx"
	"delivery-tracker/internal/service/delivery"
	"delivery-tracker/internal/service/scans"
	"delivery-tracker/internal/transport/kafka"
)

type scanMetricsIn struct {
	dig.In
	Results *prometheus.CounterVec `name:"scan_events_total"`
}

type backlogMetricsIn struct {
	dig.In
	Pending *prometheus.GaugeVec `name:"deliveries_pending"`
}

func registerWorker(container *dig.Container) error {
	return provideAll(container,
		func(svc *delivery.Service, logger logx.Logger, in scanMetricsIn) *scans.Processor {
			return scans.NewProcessor(svc, logger, in.Results)
		},
		newScanConsumer,
		func(cfg *config.Config, svc *delivery.Service, logger logx.Logger, in backlogMetricsIn) *backlogJob {
			return newBacklogJob(svc, in.Pending, cfg.Backlog.Interval, logger)
		},
	)
}

// newScanConsumer returns nil when no brokers are configured.
func newScanConsumer(cfg *config.Config, logger logx.Logger, p *scans.Processor) (*kafka.Consumer, error) {
	return kafka.NewConsumer(logger, cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.Topic, makeScansKafka(p))
}
