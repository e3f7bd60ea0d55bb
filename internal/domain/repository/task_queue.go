package repository

import "context"

// QueueMessage is one unit of work read off the durable task queue.
type QueueMessage struct {
	ID   string
	Data string
}

// TaskQueue is the durable task queue used to dispatch import jobs from the
// boundary adapter to the background worker tier.
type TaskQueue interface {
	// CreateConsumerGroup creates (or no-ops if it already exists) a
	// consumer group on the given stream.
	CreateConsumerGroup(ctx context.Context, stream, group string) error

	// Publish enqueues a JSON-marshalable payload onto the stream.
	Publish(ctx context.Context, stream string, payload interface{}) error

	// ConsumeBatch reads up to count unacknowledged messages for the given
	// consumer group/consumer, in non-blocking mode.
	ConsumeBatch(ctx context.Context, stream, group, consumer string, count int) ([]QueueMessage, error)

	// AckMessages acknowledges a batch of message ids.
	AckMessages(ctx context.Context, stream, group string, ids []string) error
}
