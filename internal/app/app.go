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

	"retailpulse/internal/config"
	"retailpulse/internal/errors"
	"retailpulse/internal/infrastructure"
	customMiddleware "retailpulse/internal/middleware"
	"retailpulse/internal/services"
	handlers "retailpulse/internal/transport/http"
	"retailpulse/pkg/contracts"
)

// AppName is the human readable service name
const AppName = "RetailPulse Analytics Engine"

// Application represents the main application container
type Application struct {
	Config           *config.Config
	Router           *chi.Mux
	Server           *http.Server
	AnalyticsService *services.AnalyticsService
	HealthService    *services.HealthService
	Logger           *slog.Logger
	OTelProviders    *infrastructure.OTelProviders
}

// New creates and wires the application
func New(cfg *config.Config) (*Application, error) {
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	providers, err := infrastructure.InitializeOTel(infrastructure.DefaultOTelConfig(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize observability: %w", err)
	}

	var metrics *infrastructure.IngestionMetrics
	if providers.Meter != nil {
		metrics, err = infrastructure.CreateIngestionMetrics(providers.Meter)
		if err != nil {
			return nil, fmt.Errorf("failed to create ingestion metrics: %w", err)
		}
	}

	analyticsService := services.NewAnalyticsService(cfg.Analytics, logger, metrics)
	healthService := services.NewHealthService(analyticsService)

	app := &Application{
		Config:           cfg,
		AnalyticsService: analyticsService,
		HealthService:    healthService,
		Logger:           logger,
		OTelProviders:    providers,
	}

	app.Router = app.buildRouter()
	app.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      app.Router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return app, nil
}

// buildRouter assembles the middleware chain and routes
func (a *Application) buildRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(a.Logger))
	r.Use(customMiddleware.SecurityHeaders)
	r.Use(customMiddleware.Compress(5))

	if a.Config.Security.EnableCORS {
		r.Use(customMiddleware.CORS(customMiddleware.CORSConfig{
			AllowedOrigins: a.Config.Security.AllowedOrigins,
		}))
	}

	if a.Config.Security.RateLimit.Enabled {
		limiter := customMiddleware.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			a.Logger,
		)
		r.Use(limiter.Handler)
	}

	r.Use(render.SetContentType(render.ContentTypeJSON))

	errorHandler := errors.NewErrorHandler(a.Logger)

	datasetHandler := handlers.NewDatasetHandler(
		a.AnalyticsService, a.Logger, errorHandler,
		a.Config.Analytics.MaxUploadBytes,
	)
	healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)

	r.Route("/api", func(api chi.Router) {
		api.Mount("/health", healthHandler.Routes())
		api.Get("/datasets", datasetHandler.GetDatasets)
		api.With(datasetHandler.KindCtx).Post("/datasets/{kind}", datasetHandler.UploadDataset)
		api.Get("/summary", datasetHandler.GetSummary)
		api.Get("/bundle", datasetHandler.GetBundle)
	})

	var promHandler http.Handler
	if a.OTelProviders != nil {
		promHandler = a.OTelProviders.PrometheusHTTP
	}
	r.Method(http.MethodGet, "/metrics", handlers.MetricsHandler(promHandler))

	return r
}

// Run starts the HTTP server and blocks until shutdown
func (a *Application) Run() error {
	ctx := context.Background()

	a.Logger.InfoContext(ctx, "starting server",
		slog.String("app", AppName),
		slog.String("version", contracts.Version),
		slog.Int("port", a.Config.Server.Port))

	errCh := make(chan error, 1)
	go func() {
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-stop:
		a.Logger.InfoContext(ctx, "shutdown signal received", slog.String("signal", sig.String()))
	}

	return a.Shutdown()
}

// Shutdown drains in-flight requests and stops the providers
func (a *Application) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	if a.OTelProviders != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.Warn("observability shutdown failed", slog.String("error", err.Error()))
		}
	}

	a.Logger.Info("server stopped")
	return nil
}
