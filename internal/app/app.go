// Package app wires configuration, observability, artifacts and the HTTP
// router into a runnable prediction service.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"radiosignals/internal/config"
	apierrors "radiosignals/internal/errors"
	"radiosignals/internal/infrastructure"
	custommw "radiosignals/internal/middleware"
	"radiosignals/internal/predictor"
	"radiosignals/internal/registry"
	"radiosignals/internal/schema"
	"radiosignals/internal/services"
	transport "radiosignals/internal/transport/http"
	"radiosignals/pkg/contracts/domain"
)

const (
	// AppName is the service identifier used in startup logs
	AppName = "radiosignals-predictd"
	// Version is the release version of the serving binary
	Version = "1.0.0"
)

// Application holds all wired components of the prediction service
type Application struct {
	Config *config.Config
	Logger *slog.Logger
	Router *chi.Mux
	Server *http.Server

	OTel    *infrastructure.OTelProviders
	Metrics *infrastructure.BusinessMetrics

	Store    *predictor.Store
	Registry registry.Registry
	Schemas  map[domain.Technology]schema.FeatureSchema

	PredictionService *services.PredictionService
	HealthService     *services.HealthService
}

// NewApplication builds a fully wired application from configuration.
// Missing model artifacts are a startup failure, not a runtime 500.
func NewApplication(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	app := &Application{
		Config: cfg,
		Logger: logger,
	}

	if err := app.loadArtifacts(); err != nil {
		return nil, err
	}

	if err := app.initializeObservability(); err != nil {
		return nil, err
	}

	app.initializeServices()
	app.setupRouter()
	app.createServer()

	return app, nil
}

// loadArtifacts verifies and loads everything the predictor needs: the two
// model files, both feature-schema documents and the location registry.
func (a *Application) loadArtifacts() error {
	art := a.Config.Artifacts

	a.Store = predictor.NewStore(art.DigitalModelPath(), art.FMModelPath())
	if err := a.Store.VerifyArtifacts(); err != nil {
		return fmt.Errorf("model artifacts missing: %w", err)
	}

	a.Schemas = make(map[domain.Technology]schema.FeatureSchema, 2)
	for tech, path := range map[domain.Technology]string{
		domain.TechDigital: art.DigitalMetricsPath(),
		domain.TechFM:      art.FMMetricsPath(),
	} {
		doc, err := schema.Load(path)
		if err != nil {
			return fmt.Errorf("feature schema for %s: %w", tech, err)
		}
		a.Schemas[tech] = doc.Features
	}

	reg, err := registry.Load(art.LocationLookupPath())
	if err != nil {
		return fmt.Errorf("location registry: %w", err)
	}
	a.Registry = reg

	a.Logger.Info("artifacts loaded",
		slog.String("dir", art.Dir),
		slog.Int("registry_entries", len(reg)))

	return nil
}

// initializeObservability sets up OpenTelemetry tracing and metrics
func (a *Application) initializeObservability() error {
	providers, err := infrastructure.InitializeOTel(infrastructure.DefaultOTelConfig(), a.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	a.OTel = providers

	if providers.Meter != nil {
		metrics, err := infrastructure.CreateBusinessMetrics(providers.Meter)
		if err != nil {
			return fmt.Errorf("failed to create business metrics: %w", err)
		}
		a.Metrics = metrics
	}

	return nil
}

// initializeServices constructs the business-logic layer
func (a *Application) initializeServices() {
	if a.Metrics != nil {
		a.Store.OnLoad(func(tech domain.Technology, duration time.Duration, err error) {
			infrastructure.RecordModelLoad(context.Background(), a.Metrics, string(tech), duration, err)
		})
	}

	a.PredictionService = services.NewPredictionService(a.Store, a.Registry, a.Schemas, a.Metrics, a.Logger)
	a.HealthService = services.NewHealthService(Version, a.Config.Artifacts, a.Logger)
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(custommw.RequestID)
	r.Use(custommw.RealIP)
	r.Use(custommw.StructuredLogger(a.Logger))
	if a.OTel != nil && a.Metrics != nil {
		r.Use(custommw.NewOTelMiddleware(a.OTel, a.Metrics).Handler)
	}
	r.Use(custommw.Recoverer(a.Logger))
	r.Use(custommw.SecurityHeaders)

	if a.Config.Security.EnableCORS {
		r.Use(custommw.CORS(custommw.CORSConfig{
			AllowedOrigins: a.Config.Security.AllowedOrigins,
			Logger:         a.Logger,
		}))
	}

	if a.Config.Security.RateLimit.Enabled {
		r.Use(custommw.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			a.Logger,
		).Handler)
	}

	errorHandler := apierrors.NewErrorHandler(a.Logger, a.Config.Logging.Development)
	validation := custommw.NewValidationMiddleware(a.Logger, errorHandler)

	predictHandler := transport.NewPredictHandler(a.PredictionService, validation, a.Logger)
	healthHandler := transport.NewHealthHandler(a.HealthService, a.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(custommw.ContentTypeValidator("application/json"))
		r.Use(validation.ValidateRequest)
		r.Use(custommw.Timeout(a.Config.Server.RequestTimeout, a.Logger))

		r.Post("/predict", predictHandler.Predict)
		r.Get("/health", healthHandler.HealthCheck)
		r.Get("/health/ready", healthHandler.ReadinessCheck)
	})

	if a.OTel != nil && a.OTel.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTel.PrometheusHTTP)
	}

	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	a.Router = r
}

// createServer builds the HTTP server from configuration
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

// Start starts the HTTP server. The cancel function is invoked if the
// listener fails so the caller's run loop unwinds.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("name", AppName),
		slog.String("version", Version),
		slog.Int("port", a.Config.Server.Port),
		slog.String("level", a.Config.Logging.Level))

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	a.Logger.InfoContext(ctx, "Application started successfully",
		slog.String("address", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)))

	return nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if a.OTel != nil {
		otelCtx, otelCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer otelCancel()
		if err := a.OTel.Shutdown(otelCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Observability shutdown error", slog.String("error", err.Error()))
		}
	}

	infrastructure.CloseLogFile()

	a.Logger.InfoContext(ctx, "Application stopped")
	return nil
}
