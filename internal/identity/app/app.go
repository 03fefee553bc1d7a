package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/tea0112/ecm-identity-service-sub004/internal/identity/changelog"
	httpapi "github.com/tea0112/ecm-identity-service-sub004/internal/identity/http"
	"github.com/tea0112/ecm-identity-service-sub004/internal/identity/service"
	"github.com/tea0112/ecm-identity-service-sub004/internal/identity/store"
	"github.com/tea0112/ecm-identity-service-sub004/pkg/cryptox"
	"github.com/tea0112/ecm-identity-service-sub004/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"

	metricsNamespace = "identity"
)

// Application encapsulates the identity service with all its dependencies.
type Application struct {
	cfg      Config
	logger   *slog.Logger
	registry *prometheus.Registry

	db store.Store

	roleService *service.RoleService
	roleLookup  *service.RoleLookupService
	userService *service.UserService

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "identity-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
		registry: prometheus.NewRegistry(),
	}
	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	ctx := context.Background()
	if err := app.initDatabase(ctx); err != nil {
		return nil, err
	}

	if cfg.SeedOnStart {
		if err := app.seed(ctx); err != nil {
			_ = app.db.Close()
			return nil, err
		}
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Handler exposes the HTTP handler.
func (app *Application) Handler() http.Handler { return app.router }

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("identity service starting", "port", app.cfg.Port, "version", BuildVersion, "env", app.cfg.Env)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down identity service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("identity service stopped")
	return nil
}

func (app *Application) initDatabase(ctx context.Context) error {
	db, err := OpenStore(ctx, app.cfg)
	if err != nil {
		return err
	}
	app.db = db

	app.logger.Info("database migrations applied successfully", "driver", app.cfg.DBDriver)
	return nil
}

// seed applies the embedded changelog for the configured environment.
func (app *Application) seed(ctx context.Context) error {
	runner, err := NewSeedRunner(app.cfg, app.db, app.logger)
	if err != nil {
		return err
	}
	runner.Metrics = changelog.NewMetrics(app.registry, metricsNamespace)

	report, err := runner.Apply(ctx, app.cfg.Env)
	if err != nil {
		return fmt.Errorf("failed to apply seed changelog: %w", err)
	}
	app.logger.Info("seed changelog applied",
		"env", report.Env,
		"applied", len(report.Applied),
		"skipped", len(report.Skipped),
	)
	return nil
}

func (app *Application) initServices() {
	app.roleService = service.NewRoleService(app.db, app.logger)
	app.roleService.Metrics = service.NewMetrics(app.registry, metricsNamespace)
	app.roleLookup = service.NewRoleLookupService(app.db)
	app.userService = service.NewUserService(app.db, app.roleLookup)
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(BuildVersion, app.db, app.logger, app.registry)

	router.RoleService = app.roleService
	router.RoleLookup = app.roleLookup
	router.UserService = app.userService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}

// NewSeedRunner builds a runner over the embedded changelog with the
// configured password pepper.
func NewSeedRunner(cfg Config, st store.Store, logger *slog.Logger) (*changelog.Runner, error) {
	cl, err := changelog.Default()
	if err != nil {
		return nil, err
	}

	pepper, err := cryptox.LoadOrCreatePepper(cfg.PepperFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load pepper: %w", err)
	}

	runner := changelog.NewRunner(st, cl, logger)
	runner.Hasher = cryptox.PasswordHasher{Pepper: pepper}
	return runner, nil
}
