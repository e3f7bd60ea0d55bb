package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/sells-group/taxengine/internal/domain/repository"
)

type taskQueue struct {
	client *redis.Client
	logger *zap.Logger
}

// NewTaskQueue creates a new TaskQueue backed by Redis Streams.
func NewTaskQueue(client *redis.Client, logger *zap.Logger) repository.TaskQueue {
	return &taskQueue{
		client: client,
		logger: logger,
	}
}

// CreateConsumerGroup creates a consumer group starting from "$" (new
// messages only), auto-creating the stream via MKSTREAM if absent.
func (q *taskQueue) CreateConsumerGroup(ctx context.Context, stream, group string) error {
	err := q.client.XGroupCreateMkStream(ctx, stream, group, "$").Err()
	if err != nil {
		if err.Error() == "BUSYGROUP Consumer Group name already exists" {
			q.logger.Debug("consumer group already exists",
				zap.String("stream", stream),
				zap.String("group", group))
			return nil
		}
		q.logger.Error("failed to create consumer group",
			zap.String("stream", stream),
			zap.String("group", group),
			zap.Error(err))
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	q.logger.Info("consumer group created",
		zap.String("stream", stream),
		zap.String("group", group))
	return nil
}

// Publish marshals payload to JSON and appends it to the stream.
func (q *taskQueue) Publish(ctx context.Context, stream string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		q.logger.Error("failed to marshal queue payload", zap.String("stream", stream), zap.Error(err))
		return fmt.Errorf("failed to marshal queue payload: %w", err)
	}

	id, err := q.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]interface{}{
			"data": string(data),
		},
	}).Result()
	if err != nil {
		q.logger.Error("failed to publish to stream", zap.String("stream", stream), zap.Error(err))
		return fmt.Errorf("failed to publish to stream: %w", err)
	}

	q.logger.Debug("message published", zap.String("stream", stream), zap.String("id", id))
	return nil
}

// ConsumeBatch reads up to count unacknowledged messages in non-blocking
// mode, claiming new ("> ") entries for the given consumer.
func (q *taskQueue) ConsumeBatch(ctx context.Context, stream, group, consumer string, count int) ([]repository.QueueMessage, error) {
	result, err := q.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    group,
		Consumer: consumer,
		Streams:  []string{stream, ">"},
		Count:    int64(count),
		Block:    -1,
		NoAck:    false,
	}).Result()

	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		q.logger.Error("failed to read from stream",
			zap.String("stream", stream),
			zap.String("group", group),
			zap.Error(err))
		return nil, fmt.Errorf("failed to read from stream: %w", err)
	}

	var messages []repository.QueueMessage
	for _, s := range result {
		for _, msg := range s.Messages {
			data, ok := msg.Values["data"].(string)
			if !ok {
				q.logger.Warn("message missing data field", zap.String("id", msg.ID))
				continue
			}
			messages = append(messages, repository.QueueMessage{ID: msg.ID, Data: data})
		}
	}

	return messages, nil
}

// AckMessages acknowledges a batch of message ids.
func (q *taskQueue) AckMessages(ctx context.Context, stream, group string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	err := q.client.XAck(ctx, stream, group, ids...).Err()
	if err != nil {
		q.logger.Error("failed to acknowledge messages",
			zap.String("stream", stream),
			zap.String("group", group),
			zap.Error(err))
		return fmt.Errorf("failed to acknowledge messages: %w", err)
	}

	q.logger.Debug("messages acknowledged", zap.Int("count", len(ids)))
	return nil
}
