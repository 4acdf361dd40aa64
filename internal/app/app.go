package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/Prateek-0000/faculty-rnd-insights/internal/config"
	apperrors "github.com/Prateek-0000/faculty-rnd-insights/internal/errors"
	"github.com/Prateek-0000/faculty-rnd-insights/internal/grants"
	"github.com/Prateek-0000/faculty-rnd-insights/internal/infrastructure"
	customMiddleware "github.com/Prateek-0000/faculty-rnd-insights/internal/middleware"
	"github.com/Prateek-0000/faculty-rnd-insights/internal/services"
	handlers "github.com/Prateek-0000/faculty-rnd-insights/internal/transport/http"
)

const (
	Version = "1.0.0"
	AppName = "Faculty R&D Insights"
)

// BuildTime is set at compile time via ldflags; defaults to startup time.
var BuildTime = time.Now().Format(time.RFC3339)

// Application represents the main application container
type Application struct {
	Config           *config.Config
	Router           *chi.Mux
	Server           *http.Server
	Store            *grants.Store
	DashboardService *services.DashboardService
	HealthService    *services.HealthService
	Metrics          *infrastructure.Metrics
	Logger           *slog.Logger
}

// NewApplication creates a new application instance with dependency
// injection. The unified dataset is built eagerly: if every department
// source fails to load, construction fails and the process never serves
// dashboard content.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Application starting",
		slog.String("name", AppName),
		slog.String("version", Version),
		slog.String("data_dir", cfg.GetDataDir()))

	app := &Application{
		Config:  cfg,
		Logger:  logger,
		Metrics: infrastructure.NewMetrics(),
	}

	if err := app.initializeServices(); err != nil {
		return nil, err
	}

	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices builds the dataset store and the services over it.
func (a *Application) initializeServices() error {
	sources := make([]grants.Source, 0, len(a.Config.Sources))
	for _, src := range a.Config.Sources {
		sources = append(sources, grants.Source{
			Tag:      src.Tag,
			XLSXName: src.XLSXName,
			CSVName:  src.CSVName,
		})
	}

	a.Store = grants.NewStore(a.Config.GetDataDir(), sources, a.Logger)

	// Build the dataset once, up front. Per-source failures are absorbed
	// and surfaced as notices; only total absence of data is fatal.
	ctx := context.Background()
	dataset, err := a.Store.Dataset(ctx)

	for _, status := range a.Store.Statuses(ctx) {
		a.Metrics.ObserveSourceLoad(status.Source, status.Available)
	}

	if err != nil {
		return fmt.Errorf("%w: ensure the department data files are present in %s",
			apperrors.ErrAllSourcesUnavailable, a.Config.GetDataDir())
	}
	a.Metrics.DatasetRows.Set(float64(len(dataset.Rows)))

	a.DashboardService = services.NewDashboardService(a.Store, a.Logger)
	a.HealthService = services.NewHealthService(a.Store, Version, BuildTime, a.Logger)

	return nil
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(customMiddleware.Recoverer(a.Logger))
		r.Use(customMiddleware.Metrics(a.Metrics))
		r.Use(customMiddleware.SecurityHeaders)
		r.Use(customMiddleware.Compress(5))

		if a.Config.Security.EnableCORS {
			r.Use(customMiddleware.CORS(customMiddleware.CORSConfig{
				AllowedOrigins: a.Config.Security.AllowedOrigins,
				Logger:         a.Logger,
			}))
		}

		if a.Config.Security.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
			).Handler)
		}

		a.setupAPIRoutes(r)
	})

	// Prometheus endpoint outside the middleware group
	r.Handle("/metrics", a.Metrics.Handler())

	a.Router = r
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(customMiddleware.Timeout(a.Config.Server.ReadTimeout, a.Logger))

		healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)
		r.Get("/health", healthHandler.HealthCheck)
		r.Get("/health/ready", healthHandler.ReadinessCheck)
		r.Get("/health/live", healthHandler.LivenessCheck)
		r.Get("/version", healthHandler.Version)

		errorHandler := apperrors.NewErrorHandler(a.Logger, false)

		dashboardHandler := handlers.NewDashboardHandler(a.DashboardService, a.Logger, errorHandler)
		r.Mount("/dashboard", dashboardHandler.Routes())
	})
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Run starts the HTTP server and blocks until shutdown.
func (a *Application) Run() error {
	errCh := make(chan error, 1)

	go func() {
		a.Logger.Info("HTTP server listening",
			slog.Int("port", a.Config.Server.Port))
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		a.Logger.Info("shutdown signal received", slog.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	if err := infrastructure.CloseLogFile(); err != nil {
		a.Logger.Warn("failed to close log file", slog.String("error", err.Error()))
	}

	a.Logger.Info("server stopped")
	return nil
}
