package worker

import (
	"sync"

	"go.uber.org/zap"
)

// BaseWorker holds the lifecycle logic shared by every worker.
type BaseWorker struct {
	name          string
	logger        *zap.Logger
	stopChan      chan struct{}
	stopped       bool
	mu            sync.Mutex
	consumerGroup string
}

// NewBaseWorker constructs a BaseWorker.
func NewBaseWorker(name, consumerGroup string, logger *zap.Logger) *BaseWorker {
	return &BaseWorker{
		name:          name,
		logger:        logger,
		stopChan:      make(chan struct{}),
		consumerGroup: consumerGroup,
	}
}

// Name returns the worker's name.
func (w *BaseWorker) Name() string {
	return w.name
}

// Stop signals the worker to shut down.
func (w *BaseWorker) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}

	w.logger.Info("Stopping worker", zap.String("name", w.name))
	close(w.stopChan)
	w.stopped = true

	return nil
}

// IsStopped reports whether Stop has already run.
func (w *BaseWorker) IsStopped() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stopped
}

// StopChan returns the channel closed when Stop runs.
func (w *BaseWorker) StopChan() <-chan struct{} {
	return w.stopChan
}

// ConsumerGroup returns the worker's consumer group name.
func (w *BaseWorker) ConsumerGroup() string {
	return w.consumerGroup
}

// Logger returns the worker's logger.
func (w *BaseWorker) Logger() *zap.Logger {
	return w.logger
}
