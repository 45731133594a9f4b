package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"go.uber.org/dig"
	"golang.org/x/sync/errgroup"

	"delivery-tracker/internal/apperr"
	"delivery-tracker/internal/config"
	"delivery-tracker/internal/logx"
	"delivery-tracker/internal/repository"
)

const shutdownTimeout = 15 * time.Second

// Runner runs the API and admin servers.
type Runner struct {
	runFn  func(*dig.Container) error
	exitFn func(int)
}

// NewRunner returns a new Runner
func NewRunner() *Runner {
	return &Runner{runFn: run, exitFn: os.Exit}
}

// MustRun starts the servers using the provided DI container and exits the
// process on any error other than a requested shutdown.
func (r *Runner) MustRun(container *dig.Container) {
	mustRun(container, r.runFn(container), r.exitFn)
}

func mustRun(container *dig.Container, err error, exit func(int)) {
	if err == nil {
		return
	}
	logger := containerLogger(container)
	switch {
	case errors.Is(err, context.Canceled):
		logger.Info("shutdown requested, exiting")
	case errors.Is(err, context.DeadlineExceeded):
		logger.Warn("startup aborted: startup timeout exceeded")
	default:
		logger.Error("run error", logx.Err(err))
		if exit != nil {
			exit(1)
		}
	}
}

func containerLogger(container *dig.Container) logx.Logger {
	logger := logx.Nop()
	_ = container.Invoke(func(l logx.Logger) { logger = l })
	return logger
}

type runIn struct {
	dig.In

	Ctx    context.Context
	Config *config.Config
	Logger logx.Logger
	Repo   *repository.DeliveryRepo
	Server *http.Server
	Admin  *http.Server `name:"admin_server" optional:"true"`
}

func run(container *dig.Container) error {
	return container.Invoke(appRun)
}

func appRun(in runIn) error {
	defer func() { _ = in.Logger.Sync() }()

	if in.Config.Sheets.ValidateSchema {
		if err := checkSchema(in.Ctx, in.Repo, in.Logger); err != nil {
			return err
		}
	}
	in.Logger.Info("service-delivery starting")
	return serve(in.Ctx, in.Logger, shutdownTimeout, in.Server, in.Admin)
}

// checkSchema fails startup on a layout mismatch. An unreachable spreadsheet
// only warns: requests will report it until the connection recovers.
func checkSchema(ctx context.Context, repo *repository.DeliveryRepo, logger logx.Logger) error {
	err := repo.CheckSchema(ctx)
	switch {
	case err == nil:
		logger.Info("spreadsheet layout verified")
		return nil
	case errors.Is(err, apperr.ErrUnavailable):
		logger.Warn("schema check skipped: spreadsheet unavailable", logx.Err(err))
		return nil
	default:
		return fmt.Errorf("schema check: %w", err)
	}
}

// serve runs every non-nil server until ctx is done or one of them fails,
// then shuts all of them down.
func serve(ctx context.Context, logger logx.Logger, timeout time.Duration, servers ...*http.Server) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		if srv == nil {
			continue
		}
		g.Go(func() error {
			logger.Info("http server listening", logx.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("listen %s: %w", srv.Addr, err)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http servers")
		for _, srv := range servers {
			gracefulShutdown(srv, logger, timeout)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func gracefulShutdown(srv *http.Server, logger logx.Logger, timeout time.Duration) {
	if srv == nil {
		return
	}
	shCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shCtx); err != nil {
		logger.Warn("graceful shutdown error", logx.String("addr", srv.Addr), logx.Err(err))
	}
}
