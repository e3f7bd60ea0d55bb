package repository

import (
	"context"

	"github.com/sells-group/taxengine/internal/domain"
)

// GeocodeCacheRepository is the durable key/value cache of resolver outputs.
type GeocodeCacheRepository interface {
	// Get looks up a cache entry by its canonical cache key. Returns nil,
	// nil on a miss.
	Get(ctx context.Context, cacheKey string) (*domain.GeocodeCacheEntry, error)

	// Insert persists a new cache entry. A unique-key collision (another
	// worker raced the same bucket) MUST be treated as a benign no-op, not
	// an error.
	Insert(ctx context.Context, e *domain.GeocodeCacheEntry) error
}
