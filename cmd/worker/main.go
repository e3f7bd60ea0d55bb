package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/taxengine/internal/config"
	"github.com/sells-group/taxengine/internal/domain/repository"
	"github.com/sells-group/taxengine/internal/geo/resolver"
	"github.com/sells-group/taxengine/internal/pkg/logger"
	"github.com/sells-group/taxengine/internal/repository/postgres"
	redisRepo "github.com/sells-group/taxengine/internal/repository/redis"
	"github.com/sells-group/taxengine/internal/usecase"
	"github.com/sells-group/taxengine/internal/worker"
	"github.com/sells-group/taxengine/internal/worker/importjob"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	if !cfg.Worker.Enabled {
		fmt.Println("Worker is disabled in configuration. Set WORKER_ENABLED=true to enable.")
		os.Exit(0)
	}

	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("starting import worker",
		zap.String("consumer_group", cfg.Worker.ConsumerGroup),
	)

	db, err := postgres.New(&cfg.Database, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("failed to close postgres connection", zap.Error(err))
		}
	}()

	healthCtx, healthCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := db.Health(healthCtx); err != nil {
		log.Fatal("postgres health check failed", zap.Error(err))
	}
	healthCancel()
	log.Info("postgres connected and healthy")

	queueClient, err := redisRepo.NewClient(redisRepo.ClientConfig{
		Addr:     cfg.Queue.BrokerURL,
		Password: cfg.Queue.Password,
		DB:       cfg.Queue.DB,
	}, log)
	if err != nil {
		log.Fatal("failed to connect to queue redis", zap.Error(err))
	}
	defer func() {
		if err := queueClient.Close(); err != nil {
			log.Error("failed to close queue redis connection", zap.Error(err))
		}
	}()

	geocodeCacheRepo := postgres.NewGeocodeCacheRepository(db)
	importJobRepo := postgres.NewImportJobRepository(db)
	orderRepo := postgres.NewOrderRepository(db)
	rateRepo := postgres.NewRateRepository(db)
	taskQueue := redisRepo.NewTaskQueue(queueClient, log)

	geoResolver := newResolver(cfg, geocodeCacheRepo, log)
	taxUC := usecase.NewTaxUseCase(geoResolver, rateRepo, orderRepo, log)

	importWorker := importjob.NewImportWorker(
		taskQueue,
		importJobRepo,
		taxUC,
		cfg.Worker.ConsumerGroup,
		log,
	)

	workerManager := worker.NewWorkerManager(log)
	workerManager.Register(importWorker)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := workerManager.Start(ctx); err != nil {
		log.Fatal("failed to start workers", zap.Error(err))
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Info("received shutdown signal")

	cancel()

	if err := workerManager.Stop(); err != nil {
		log.Error("error stopping workers", zap.Error(err))
	}

	log.Info("worker shutdown complete")
}

// newResolver selects the geocode provider at construction time: the online
// HTTP resolver when a base URL is configured, otherwise the offline polygon
// resolver backed by the configured GeoJSON file.
func newResolver(cfg *config.Config, cacheRepo repository.GeocodeCacheRepository, log *zap.Logger) resolver.Resolver {
	if cfg.Geo.HTTPResolverBaseURL != "" {
		return resolver.NewHTTPResolver(resolver.HTTPResolverConfig{
			BaseURL:        cfg.Geo.HTTPResolverBaseURL,
			UserAgent:      cfg.Geo.HTTPResolverUserAgent,
			RequestTimeout: cfg.Geo.HTTPRequestTimeout,
		}, cacheRepo, log)
	}

	return resolver.NewPolygonResolver(cfg.Geo.PolygonPath)
}
