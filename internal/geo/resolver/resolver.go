// Package resolver implements the Resolver capability set: reverse
// geocoding from a raw coordinate to a jurisdiction triple, with three
// interchangeable variants (offline polygon, offline nearest-neighbor,
// online HTTP) selected at construction rather than at call time.
package resolver

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/sells-group/taxengine/internal/decimalx"
	"github.com/sells-group/taxengine/internal/domain"
)

// Resolver is implemented by every geocode provider variant. Implementations
// are constructed with their capabilities fixed; callers never branch on
// provider type.
type Resolver interface {
	// Resolve reverse-geocodes a coordinate into a jurisdiction triple.
	Resolve(ctx context.Context, lat, lon float64) (*domain.GeocodeResult, error)

	// ProviderName returns the stable identifier used in cache keys and
	// persisted as an order's geo_source.
	ProviderName() string
}

// quantize rounds a float coordinate to 4 fractional digits, half-up, and
// renders it in fixed-point form with no trailing-zero stripping.
func quantize(f float64) string {
	return decimalx.Rate4(decimal.NewFromFloat(f)).StringFixed(4)
}

// CacheKey builds the canonical {provider}_{lat4}_{lon4} cache key.
func CacheKey(provider string, lat, lon float64) string {
	return provider + "_" + quantize(lat) + "_" + quantize(lon)
}
