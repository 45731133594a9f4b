package app

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/dig"
	"golang.org/x/sync/errgroup"

	"delivery-tracker/internal/logx"
	"delivery-tracker/internal/transport/kafka"
)

// WorkerRunner runs the scan consumer, the backlog job and the admin server.
type WorkerRunner struct {
	runFn func(*dig.Container) error
}

// NewWorkerRunner returns a new WorkerRunner
func NewWorkerRunner() *WorkerRunner {
	return &WorkerRunner{runFn: runWorker}
}

// MustRun starts the worker using the provided DI container
func (r *WorkerRunner) MustRun(container *dig.Container) {
	err := r.runFn(container)
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	panic(err)
}

type workerIn struct {
	dig.In

	Ctx      context.Context
	Logger   logx.Logger
	Consumer *kafka.Consumer
	Backlog  *backlogJob
	Admin    *http.Server `name:"admin_server" optional:"true"`
}

func runWorker(container *dig.Container) error {
	return container.Invoke(workerRun)
}

func workerRun(in workerIn) error {
	if in.Backlog == nil {
		return errors.New("backlog job is nil: worker container misconfigured")
	}
	defer closeWorker(in.Logger, in.Consumer)

	g, gctx := errgroup.WithContext(in.Ctx)
	if in.Consumer != nil {
		g.Go(func() error { return in.Consumer.Run(gctx) })
	} else {
		in.Logger.Warn("kafka not configured, scan consumer disabled")
	}
	g.Go(func() error { return in.Backlog.Run(gctx) })
	if in.Admin != nil {
		g.Go(func() error { return serve(gctx, in.Logger, shutdownTimeout, in.Admin) })
	}

	in.Logger.Info("service-delivery-worker started")
	err := g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return in.Ctx.Err()
}

func closeWorker(logger logx.Logger, consumer *kafka.Consumer) {
	if err := consumer.Close(); err != nil {
		logger.Error("kafka close error", logx.Err(err))
	}
	_ = logger.Sync()
}
