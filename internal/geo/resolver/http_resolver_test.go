package resolver_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sells-group/taxengine/internal/domain"
	"github.com/sells-group/taxengine/internal/geo/resolver"
)

type mockCacheRepo struct {
	mock.Mock
}

func (m *mockCacheRepo) Get(ctx context.Context, cacheKey string) (*domain.GeocodeCacheEntry, error) {
	args := m.Called(ctx, cacheKey)
	entry, _ := args.Get(0).(*domain.GeocodeCacheEntry)
	return entry, args.Error(1)
}

func (m *mockCacheRepo) Insert(ctx context.Context, e *domain.GeocodeCacheEntry) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func TestHTTPResolver_CacheHitSkipsExternalCall(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cache := new(mockCacheRepo)
	cache.On("Get", mock.Anything, "http_40.7128_-74.0060").Return(&domain.GeocodeCacheEntry{
		State:      "New York",
		County:     "New York",
		LatRounded: "40.7128",
		LonRounded: "-74.0060",
	}, nil)

	logger := zap.NewNop()
	r := resolver.NewHTTPResolver(resolver.HTTPResolverConfig{BaseURL: server.URL}, cache, logger)

	result, err := r.Resolve(context.Background(), 40.7128, -74.0060)
	require.NoError(t, err)
	assert.Equal(t, "New York", result.State)
	assert.False(t, called, "cache hit must not reach the external endpoint")
	cache.AssertExpectations(t)
}

// fakeCacheRepo is a tiny in-memory stand-in for the Postgres-backed
// geocode cache, used to exercise real read-after-write behavior across
// multiple Resolve calls rather than per-call mock expectations.
type fakeCacheRepo struct {
	entries map[string]*domain.GeocodeCacheEntry
}

func newFakeCacheRepo() *fakeCacheRepo {
	return &fakeCacheRepo{entries: make(map[string]*domain.GeocodeCacheEntry)}
}

func (f *fakeCacheRepo) Get(ctx context.Context, cacheKey string) (*domain.GeocodeCacheEntry, error) {
	return f.entries[cacheKey], nil
}

func (f *fakeCacheRepo) Insert(ctx context.Context, e *domain.GeocodeCacheEntry) error {
	f.entries[e.CacheKey] = e
	return nil
}

func TestHTTPResolver_SecondCallInSameBucketIsIdempotent(t *testing.T) {
	callCount := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		callCount++
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"address": map[string]string{
				"state":  "New York",
				"county": "Kings County",
				"city":   "Brooklyn",
			},
		})
	}))
	defer server.Close()

	cache := newFakeCacheRepo()
	logger := zap.NewNop()
	r := resolver.NewHTTPResolver(resolver.HTTPResolverConfig{BaseURL: server.URL}, cache, logger)

	first, err := r.Resolve(context.Background(), 40.71280, -74.00601)
	require.NoError(t, err)

	second, err := r.Resolve(context.Background(), 40.71283, -74.00604)
	require.NoError(t, err)

	assert.Equal(t, 1, callCount, "both coordinates quantize into the same cache bucket")
	assert.Equal(t, first.State, second.State)
	assert.Equal(t, first.County, second.County)
	assert.Len(t, cache.entries, 1)
}

func TestHTTPResolver_MissCallsExternalAndPersists(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"address": map[string]string{
				"state":  "New York",
				"county": "Kings County",
				"city":   "Brooklyn",
			},
		})
	}))
	defer server.Close()

	cache := new(mockCacheRepo)
	cache.On("Get", mock.Anything, mock.Anything).Return(nil, nil)
	cache.On("Insert", mock.Anything, mock.AnythingOfType("*domain.GeocodeCacheEntry")).Return(nil)

	logger := zap.NewNop()
	r := resolver.NewHTTPResolver(resolver.HTTPResolverConfig{BaseURL: server.URL}, cache, logger)

	result, err := r.Resolve(context.Background(), 40.71281, -74.00601)
	require.NoError(t, err)
	assert.Equal(t, "New York", result.State)
	assert.Equal(t, "Kings", result.County)
	assert.Equal(t, "Brooklyn", result.Locality)
	cache.AssertExpectations(t)
}
