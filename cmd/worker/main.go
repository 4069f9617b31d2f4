package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/geocoding-microservice/internal/config"
	"github.com/geocoding-microservice/internal/domain/repository"
	"github.com/geocoding-microservice/internal/infrastructure/mapbox"
	"github.com/geocoding-microservice/internal/pkg/logger"
	"github.com/geocoding-microservice/internal/repository/postgres"
	redisRepo "github.com/geocoding-microservice/internal/repository/redis"
	"github.com/geocoding-microservice/internal/usecase"
	"github.com/geocoding-microservice/internal/worker"
	"github.com/geocoding-microservice/internal/worker/geocode"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if !cfg.Worker.Enabled {
		fmt.Println("Worker is disabled in configuration. Set WORKER_ENABLED=true to enable.")
		os.Exit(0)
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, zap.String("service", "geocoding-worker"))
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Batch Geocode Worker")
	log.Info("Configuration loaded",
		zap.String("consumer_group", cfg.Worker.ConsumerGroup),
		zap.Int("max_batch_size", cfg.Worker.MaxBatchSize),
		zap.Duration("poll_interval", cfg.Worker.StreamReadTimeout))

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
	}

	// 4. Connect to Redis
	redisClient, err := redisRepo.NewClient(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	// 5. Initialize repositories and use cases
	streamRepo := redisRepo.NewStreamRepository(redisClient.Client(), log)
	geocodeUC := usecase.NewGeocodeUseCase(mapbox.NewMapboxGeocoder(&cfg.Mapbox, log), journalRepo, log)

	// 6. Initialize workers
	batchWorker := geocode.NewBatchGeocodeWorker(
		streamRepo,
		geocodeUC,
		cfg.Worker.ConsumerGroup,
		cfg.Worker.MaxBatchSize,
		cfg.Worker.StreamReadTimeout,
		log,
	)

	workerManager := worker.NewWorkerManager(log, worker.DefaultShutdownTimeout)
	workerManager.Register(batchWorker)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := workerManager.Start(ctx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	// Wait for interrupt signal or worker failure
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		log.Info("Received shutdown signal")
	case err := <-workerManager.Errors():
		log.Error("Worker exited with error", zap.Error(err))
	}

	cancel()

	if err := workerManager.Stop(); err != nil {
		log.Error("Error stopping workers", zap.Error(err))
	}

	log.Info("Worker shutdown complete")
}
