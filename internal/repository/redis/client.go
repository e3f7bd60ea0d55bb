package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ClientConfig addresses a single Redis instance used either as the
// durable task-queue broker or as the result backend.
type ClientConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewClient dials addr and verifies connectivity before returning.
func NewClient(cfg ClientConfig, logger *zap.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	logger.Info("redis connected", zap.String("addr", cfg.Addr))

	return client, nil
}
