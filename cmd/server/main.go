// Package main is the entry point for the flight reconciliation service.
//
//	@title						Flight Reconciliation API
//	@version					1.0.0
//	@description				Clusters extracted flight legs into journeys and reconciles them against a trip's segment structure, attaching reservations idempotently.
//
//	@contact.name				API Support
//	@contact.url				https://github.com/tripdesk/flight-reconciliation-service/issues
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/api/v1
//
//	@schemes					http https
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"

	// Import generated docs for swagger
	_ "github.com/tripdesk/flight-reconciliation-service/docs"

	reconhttp "github.com/tripdesk/flight-reconciliation-service/internal/adapter/http"
	"github.com/tripdesk/flight-reconciliation-service/internal/adapter/http/middleware"
	"github.com/tripdesk/flight-reconciliation-service/internal/adapter/store/memory"
	"github.com/tripdesk/flight-reconciliation-service/internal/adapter/store/postgres"
	"github.com/tripdesk/flight-reconciliation-service/internal/config"
	"github.com/tripdesk/flight-reconciliation-service/internal/domain"
	"github.com/tripdesk/flight-reconciliation-service/internal/infrastructure/logger"
	"github.com/tripdesk/flight-reconciliation-service/internal/infrastructure/metrics"
	"github.com/tripdesk/flight-reconciliation-service/internal/usecase"
)

const (
	shutdownTimeout  = 10 * time.Second
	metricsNamespace = "flight_reconcile"
)

func main() {
	// Load configuration
	cfg := config.MustLoad()

	// Initialize logger with config
	log := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		ServiceName: "flight-reconcile",
	})
	logger.SetGlobal(log)

	log.Info().
		Str("env", cfg.App.Env).
		Int("port", cfg.Server.Port).
		Str("store", cfg.Store.Driver).
		Msg("Configuration loaded")

	// Initialize trip store
	store, cleanup, err := buildStore(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize trip store")
	}
	defer cleanup()

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Configure server timeouts from config
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	// Setup middleware
	middleware.Setup(e, log.Logger)

	// Setup routes
	setupRoutes(e, cfg, store, log)

	// Start server with graceful shutdown
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	go func() {
		log.Info().Str("address", addr).Msg("Starting server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	gracefulShutdown(e, log)
}

// buildStore creates the trip store named by config. The returned cleanup
// releases any held connections.
func buildStore(cfg *config.Config, log *logger.Logger) (domain.TripStore, func(), error) {
	switch cfg.Store.Driver {
	case "postgres":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		pg, err := postgres.New(ctx, cfg.Store.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Msg("Connected to postgres trip store")
		return pg, pg.Close, nil
	default:
		log.Warn().Msg("Using in-memory trip store; data will not survive a restart")
		return memory.New(), func() {}, nil
	}
}

// setupRoutes configures the HTTP routes.
func setupRoutes(e *echo.Echo, cfg *config.Config, store domain.TripStore, log *logger.Logger) {
	m := metrics.New(metricsNamespace)

	reconcileUseCase := usecase.NewFlightReconcileUseCase(store, log.Logger, m)

	defaults := usecase.Options{
		AutoCluster:             cfg.Engine.AutoCluster,
		MaxGapHours:             cfg.Engine.MaxGapHours,
		CreateSuggestedSegments: cfg.Engine.CreateSuggestedSegments,
	}
	handler := reconhttp.NewReconcileHandler(reconcileUseCase, defaults)

	reconhttp.RegisterRoutes(e, handler)

	// Prometheus metrics endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Swagger documentation endpoint
	e.GET("/swagger/*", echoSwagger.WrapHandler)
}

// gracefulShutdown handles graceful server shutdown on interrupt signals.
func gracefulShutdown(e *echo.Echo, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	log.Info().Msg("Server stopped")
}
