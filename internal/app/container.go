package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"delivery-tracker/internal/clock"
	"delivery-tracker/internal/config"
	"delivery-tracker/internal/gateway/sheets"
	"delivery-tracker/internal/http/admin"
	"delivery-tracker/internal/http/handlers"
	"delivery-tracker/internal/http/router"
	"delivery-tracker/internal/logx"
	"delivery-tracker/internal/repository"
	"delivery-tracker/internal/schema"
	"delivery-tracker/internal/service/delivery"
)

const adminServerName = "admin_server"

// ContainerBuilder is a dig container builder.
type ContainerBuilder struct {
	loadConfig func() (*config.Config, error)
	newValues  func(*config.Config) sheets.Values
	logFatalf  func(string, ...interface{})
}

// NewContainerBuilder returns a builder wired to the real spreadsheet.
func NewContainerBuilder() *ContainerBuilder {
	return &ContainerBuilder{
		loadConfig: config.Load,
		newValues:  newSheetsGateway,
		logFatalf:  log.Fatalf,
	}
}

// WithConfig replaces config loading with a fixed config.
func (b *ContainerBuilder) WithConfig(cfg *config.Config) *ContainerBuilder {
	if cfg != nil {
		b.loadConfig = func() (*config.Config, error) { return cfg, nil }
	}
	return b
}

// WithValues replaces the spreadsheet client.
func (b *ContainerBuilder) WithValues(fn func(*config.Config) sheets.Values) *ContainerBuilder {
	if fn != nil {
		b.newValues = fn
	}
	return b
}

// WithLogFatalf sets the log.Fatalf function
func (b *ContainerBuilder) WithLogFatalf(fn func(string, ...interface{})) *ContainerBuilder {
	if fn != nil {
		b.logFatalf = fn
	}
	return b
}

// MustBuild builds the API service container.
func (b *ContainerBuilder) MustBuild(ctx context.Context) *dig.Container {
	container, err := b.build(ctx)
	if err != nil {
		b.logFatalf("failed to build container: %v", err)
	}
	return container
}

// MustBuildWorker builds the scan worker container.
func (b *ContainerBuilder) MustBuildWorker(ctx context.Context) *dig.Container {
	container, err := b.buildWorker(ctx)
	if err != nil {
		b.logFatalf("failed to build worker container: %v", err)
	}
	return container
}

func (b *ContainerBuilder) build(ctx context.Context) (*dig.Container, error) {
	container, err := b.buildShared(ctx)
	if err != nil {
		return nil, err
	}
	if err := registerHTTP(container); err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	return container, nil
}

func (b *ContainerBuilder) buildWorker(ctx context.Context) (*dig.Container, error) {
	container, err := b.buildShared(ctx)
	if err != nil {
		return nil, err
	}
	if err := registerWorker(container); err != nil {
		return nil, fmt.Errorf("worker: %w", err)
	}
	return container, nil
}

func (b *ContainerBuilder) buildShared(ctx context.Context) (*dig.Container, error) {
	container := dig.New()

	if err := registerCore(container, ctx, b.loadConfig); err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}
	if err := registerMetrics(container); err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	if err := registerSheets(container, b.newValues); err != nil {
		return nil, fmt.Errorf("sheets: %w", err)
	}
	if err := registerService(container); err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}
	if err := registerAdmin(container); err != nil {
		return nil, fmt.Errorf("admin: %w", err)
	}
	return container, nil
}

// MustBuildContainer builds the API service container from the environment.
func MustBuildContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().MustBuild(ctx)
}

// MustBuildWorkerContainer builds the worker container from the environment.
func MustBuildWorkerContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().MustBuildWorker(ctx)
}

func provideAll(container *dig.Container, providers ...any) error {
	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return fmt.Errorf("provide %T: %w", provider, err)
		}
	}
	return nil
}

func registerCore(container *dig.Container, ctx context.Context, loadConfig func() (*config.Config, error)) error {
	return provideAll(container,
		func() context.Context { return ctx },
		loadConfig,
		NewLogger,
		func() clock.Clock { return clock.Real{} },
		func(cfg *config.Config) (*schema.Schema, error) {
			return schema.Load(cfg.Sheets.SchemaFile)
		},
		prometheus.NewRegistry,
	)
}

func newSheetsGateway(cfg *config.Config) sheets.Values {
	return sheets.NewGateway(sheets.Config{
		SpreadsheetID:   cfg.Sheets.SpreadsheetID,
		CredentialsFile: cfg.Sheets.CredentialsFile,
	})
}

func registerSheets(container *dig.Container, newValues func(*config.Config) sheets.Values) error {
	return provideAll(container,
		func(cfg *config.Config, logger logx.Logger, m sheets.Metrics) sheets.Values {
			return sheets.NewInstrumentedGateway(newValues(cfg), logger, m)
		},
		func(v sheets.Values, s *schema.Schema, c clock.Clock) *repository.DeliveryRepo {
			return repository.NewDeliveryRepo(v, s, c)
		},
	)
}

func registerService(container *dig.Container) error {
	return provideAll(container,
		func(
			repo *repository.DeliveryRepo,
			c clock.Clock,
			cfg *config.Config,
			logger logx.Logger,
		) *delivery.Service {
			return delivery.NewDeliveryService(repo, c, cfg.OperationTimeout, logger)
		},
	)
}

func registerHTTP(container *dig.Container) error {
	serverProvider := func(cfg *config.Config, mux http.Handler) *http.Server {
		return newServer(fmt.Sprintf(":%d", cfg.Port), mux)
	}
	return provideAll(container,
		handlers.New,
		handlers.NewDeliveryUsecase,
		handlers.NewDeliveryHandler,
		newRateLimiter,
		newRateLimitMiddleware,
		router.New,
		serverProvider,
	)
}

// registerAdmin provides the metrics/pprof server, or nil when ADMIN_PORT is 0.
func registerAdmin(container *dig.Container) error {
	provider := func(cfg *config.Config, reg *prometheus.Registry) *http.Server {
		if cfg.Admin.Port == 0 {
			return nil
		}
		gatherers := prometheus.Gatherers{prometheus.DefaultGatherer, reg}
		h := admin.Handler(admin.Config{User: cfg.Admin.User, Pass: cfg.Admin.Pass}, gatherers)
		return newServer(fmt.Sprintf(":%d", cfg.Admin.Port), h)
	}
	if err := container.Provide(provider, dig.Name(adminServerName)); err != nil {
		return fmt.Errorf("provide admin server: %w", err)
	}
	return nil
}

func newServer(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
