package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/raysh454/seolens/internal/artifact"
	"github.com/raysh454/seolens/internal/auditor"
	"github.com/raysh454/seolens/internal/browser"
	"github.com/raysh454/seolens/internal/engine"
	"github.com/raysh454/seolens/internal/logging"
	"github.com/raysh454/seolens/internal/observability"
	"github.com/raysh454/seolens/internal/render"
	"github.com/raysh454/seolens/internal/scheduler"
	"github.com/raysh454/seolens/internal/store"
	"github.com/raysh454/seolens/internal/store/postgres"
	"github.com/raysh454/seolens/internal/store/sqlite"
)

// Application is the runtime state container. It owns every long-lived
// component and is passed to the transport layer instead of package-level
// variables.
type Application struct {
	Config       *Config
	Logger       logging.Logger
	Store        store.Store
	Artifacts    *artifact.FSStore
	Orchestrator *Orchestrator
	Scheduler    *scheduler.Scheduler

	shutdownTracing func(context.Context) error

	cancel context.CancelFunc
	bg     sync.WaitGroup
}

// OpenStore connects the configured backend and applies migrations.
func OpenStore(ctx context.Context, cfg StorageConfig, logger logging.Logger) (store.Store, error) {
	switch cfg.Driver {
	case DriverSQLite, "":
		return sqlite.Open(ctx, cfg.SQLitePath, logger.With(logging.F("component", "store")))
	case DriverPostgres:
		return postgres.Connect(ctx, cfg.Postgres, logger.With(logging.F("component", "store")))
	default:
		return nil, fmt.Errorf("%w: unknown storage driver %q", ErrInvalidConfig, cfg.Driver)
	}
}

// NewAuditor builds the browser provider, engine and auditor from cfg.
func NewAuditor(cfg *Config, logger logging.Logger) (*auditor.Auditor, error) {
	provider, err := browser.DefaultRegistry().New(cfg.Browser, logger.With(logging.F("component", "browser")))
	if err != nil {
		return nil, fmt.Errorf("browser provider: %w", err)
	}
	eng, err := engine.New(cfg.Engine, logger.With(logging.F("component", "engine")))
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	return auditor.New(provider, eng, cfg.Audit.Auditor(), logger.With(logging.F("component", "auditor")),
		observability.AuditObserver{}), nil
}

// NewApplication constructs every component from cfg. Nothing runs in the
// background until Start.
func NewApplication(ctx context.Context, cfg *Config, logger logging.Logger) (*Application, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	shutdownTracing, err := observability.SetupTracing(ctx, cfg.Telemetry)
	if err != nil {
		return nil, err
	}

	st, err := OpenStore(ctx, cfg.Storage, logger)
	if err != nil {
		_ = shutdownTracing(ctx)
		return nil, fmt.Errorf("open store: %w", err)
	}

	cleanup := func() {
		_ = st.Close()
		_ = shutdownTracing(ctx)
	}

	aud, err := NewAuditor(cfg, logger)
	if err != nil {
		cleanup()
		return nil, err
	}

	artifacts, err := artifact.NewFSStore(cfg.Artifacts)
	if err != nil {
		cleanup()
		return nil, err
	}

	orch, err := NewOrchestrator(cfg, Deps{
		Store:    st,
		Auditor:  aud,
		Renderer: render.New(cfg.Render, logger.With(logging.F("component", "render"))),
		Uploader: artifacts,
	}, logger.With(logging.F("component", "orchestrator")))
	if err != nil {
		cleanup()
		return nil, err
	}

	return &Application{
		Config:          cfg,
		Logger:          logger,
		Store:           st,
		Artifacts:       artifacts,
		Orchestrator:    orch,
		Scheduler:       scheduler.New(cfg.Scheduler, st, orch, logger.With(logging.F("component", "scheduler"))),
		shutdownTracing: shutdownTracing,
	}, nil
}

// Start launches background work: the scheduler, when enabled.
func (a *Application) Start(ctx context.Context) error {
	if a == nil {
		return errors.New("application is nil")
	}
	ctx, a.cancel = context.WithCancel(ctx)
	if a.Scheduler.Enabled() {
		a.bg.Add(1)
		go func() {
			defer a.bg.Done()
			a.Scheduler.Run(ctx)
		}()
	}
	a.Logger.Info("application started",
		logging.F("storage", a.Config.Storage.Driver),
		logging.F("engine", string(a.Config.Engine.Kind)),
		logging.F("scheduler", a.Scheduler.Enabled()))
	return nil
}

// Shutdown stops background work, cancels running jobs and releases the
// store and the trace exporter.
func (a *Application) Shutdown(ctx context.Context) error {
	if a == nil {
		return errors.New("application is nil")
	}
	a.Logger.Info("application shutdown initiated")

	if a.cancel != nil {
		a.cancel()
	}
	a.bg.Wait()

	var errs []error
	if err := a.Orchestrator.Close(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := a.Store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close store: %w", err))
	}
	if a.shutdownTracing != nil {
		if err := a.shutdownTracing(ctx); err != nil {
			errs = append(errs, fmt.Errorf("flush traces: %w", err))
		}
	}
	return errors.Join(errs...)
}
