package main

// @title Geocoding Microservice API
// @version 1.0.0
// @description Микросервис пакетного прямого геокодирования через Mapbox. Результаты возвращаются в порядке запросов вместе с атрибуцией провайдера.

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/geocoding-microservice/docs/swagger"
	"github.com/geocoding-microservice/internal/config"
	httpDelivery "github.com/geocoding-microservice/internal/delivery/http"
	"github.com/geocoding-microservice/internal/delivery/http/handler"
	"github.com/geocoding-microservice/internal/domain/repository"
	"github.com/geocoding-microservice/internal/infrastructure/mapbox"
	"github.com/geocoding-microservice/internal/pkg/logger"
	"github.com/geocoding-microservice/internal/repository/postgres"
	"github.com/geocoding-microservice/internal/usecase"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, zap.String("service", "geocoding-api"))
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Geocoding Microservice")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.String("mapbox_base_url", cfg.Mapbox.BaseURL),
		zap.Bool("mapbox_permanent", cfg.Mapbox.Permanent),
		zap.Int("max_batch_queries", cfg.Mapbox.MaxBatchQueries),
		zap.Bool("journal_enabled", cfg.Journal.Enabled),
	)

	if cfg.Mapbox.AccessToken == "" {
		log.Warn("MAPBOX_ACCESS_TOKEN is not set, every geocoding request will fail")
	}

	checks := make(map[string]httpDelivery.HealthChecker)

	// 3. Connect to PostgreSQL (журнал запросов, необязателен)
	var journalRepo repository.GeocodeJournalRepository
	if cfg.Journal.Enabled {
		db, err := postgres.New(&cfg.Database, log)
		if err != nil {
			log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
		}
		defer func() {
			if err := db.Close(); err != nil {
				log.Error("Failed to close PostgreSQL connection", zap.Error(err))
			}
		}()

		journalRepo = postgres.NewJournalRepository(db)
		checks["postgres"] = db
	}

	// 4. Initialize repositories
	geocodingRepo := mapbox.NewMapboxGeocoder(&cfg.Mapbox, log)

	log.Info("Repositories initialized")

	// 5. Initialize use cases
	geocodeUC := usecase.NewGeocodeUseCase(geocodingRepo, journalRepo, log)

	scheduler := usecase.NewGeocodeBatchScheduler(
		geocodeUC,
		log,
		cfg.Scheduler.BatchSize,
		cfg.Scheduler.Interval,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	scheduler.Start(ctx)

	log.Info("Use cases initialized")

	// 6. Initialize HTTP handlers and server
	server := httpDelivery.NewServer(
		cfg,
		log,
		handler.NewGeocodeHandler(geocodeUC, scheduler, log),
		handler.NewStatsHandler(geocodeUC, log),
		checks,
	)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 7. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	scheduler.Stop()

	log.Info("Server stopped successfully")
}
