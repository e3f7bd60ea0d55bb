package domain

import "time"

// GeocodeResult is the outcome of a Resolver.Resolve call.
type GeocodeResult struct {
	State       string
	County      string
	Locality    string
	Provider    string
	RawResponse []byte
	LatRounded  string
	LonRounded  string
}

// GeocodeCacheEntry is a durable, unique-keyed cache row of resolver output,
// keyed by (provider, rounded-coordinate).
type GeocodeCacheEntry struct {
	ID          int64     `json:"id" db:"id"`
	CacheKey    string    `json:"cache_key" db:"cache_key"`
	Provider    string    `json:"provider" db:"provider"`
	LatRounded  string    `json:"lat_rounded" db:"lat_rounded"`
	LonRounded  string    `json:"lon_rounded" db:"lon_rounded"`
	State       string    `json:"state" db:"state"`
	County      string    `json:"county" db:"county"`
	Locality    string    `json:"locality" db:"locality"`
	RawResponse []byte    `json:"raw_response,omitempty" db:"raw_response"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
