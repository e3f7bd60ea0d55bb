package main

// @title Tax Engine API
// @version 1.0.0
// @description Computes United States sales tax for point-of-sale orders
// @description located only by geographic coordinates. Resolves the taxing
// @description jurisdiction for a coordinate, assembles a composite rate
// @description from a time-versioned rate table, and persists an immutable
// @description order record with a full per-jurisdiction breakdown. Also
// @description ingests bulk historical orders from a delimited text file as
// @description a background job.

// @contact.name API Support
// @contact.email support@taxengine.local

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/sells-group/taxengine/docs"
	"github.com/sells-group/taxengine/internal/config"
	httpDelivery "github.com/sells-group/taxengine/internal/delivery/http"
	"github.com/sells-group/taxengine/internal/delivery/http/handler"
	"github.com/sells-group/taxengine/internal/domain/repository"
	"github.com/sells-group/taxengine/internal/geo/resolver"
	"github.com/sells-group/taxengine/internal/pkg/logger"
	"github.com/sells-group/taxengine/internal/repository/postgres"
	redisRepo "github.com/sells-group/taxengine/internal/repository/redis"
	"github.com/sells-group/taxengine/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("starting tax engine API",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
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

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := db.Health(ctx); err != nil {
		log.Fatal("postgres health check failed", zap.Error(err))
	}
	cancel()

	log.Info("all connections healthy")

	geocodeCacheRepo := postgres.NewGeocodeCacheRepository(db)
	importJobRepo := postgres.NewImportJobRepository(db)
	orderRepo := postgres.NewOrderRepository(db)
	rateRepo := postgres.NewRateRepository(db)
	taskQueue := redisRepo.NewTaskQueue(queueClient, log)

	geoResolver := newResolver(cfg, geocodeCacheRepo, log)

	taxUC := usecase.NewTaxUseCase(geoResolver, rateRepo, orderRepo, log)
	orderUC := usecase.NewOrderUseCase(orderRepo, log)
	importUC := usecase.NewImportUseCase(importJobRepo, taskQueue, log)

	log.Info("use cases initialized")

	orderHandler := handler.NewOrderHandler(taxUC, orderUC, log)
	importHandler := handler.NewImportHandler(importUC, log)

	server := httpDelivery.NewServer(cfg, log, orderHandler, importHandler)

	log.Info("HTTP server initialized")

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	log.Info("server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown error", zap.Error(err))
	}

	log.Info("server stopped successfully")
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
