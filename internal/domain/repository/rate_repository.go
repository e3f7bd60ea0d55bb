package repository

import (
	"context"
	"time"

	"github.com/sells-group/taxengine/internal/domain"
)

// RateRepository resolves the applicable rate record for a jurisdiction
// triple at a point in time, via the most-specific-first cascading lookup
// across state, county, and locality tiers.
type RateRepository interface {
	// FetchRate returns the best-matching RateRecord for (state, county,
	// locality) valid at "at", or nil if no tier of the cascade matches.
	FetchRate(ctx context.Context, state, county, locality string, at time.Time) (*domain.RateRecord, error)

	// Insert adds a new rate record (administrative seeding / import).
	Insert(ctx context.Context, r *domain.RateRecord) error
}
