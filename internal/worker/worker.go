package worker

import (
	"context"
)

// Worker is the interface every background worker implements.
type Worker interface {
	// Start runs the worker until ctx is done or Stop is called.
	Start(ctx context.Context) error

	// Stop signals the worker to shut down.
	Stop() error

	// Name returns the worker's name.
	Name() string
}
