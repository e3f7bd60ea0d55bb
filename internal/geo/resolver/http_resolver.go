package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/taxengine/internal/domain"
	"github.com/sells-group/taxengine/internal/domain/repository"
)

const httpProviderName = "http"

// addressResponse is the subset of an external reverse-geocode response this
// resolver understands. Field names follow the Nominatim reverse-geocode
// convention: a flat "address" object keyed by canonical jurisdiction names.
type addressResponse struct {
	Address struct {
		State   string `json:"state"`
		County  string `json:"county"`
		City    string `json:"city"`
		Town    string `json:"town"`
		Village string `json:"village"`
		Hamlet  string `json:"hamlet"`
	} `json:"address"`
}

// HTTPResolver reverse-geocodes via an external HTTP endpoint, checking the
// durable cache store first and throttling outbound calls to no more than
// one per second per process.
type HTTPResolver struct {
	httpClient *http.Client
	cache      repository.GeocodeCacheRepository
	limiter    *rate.Limiter
	baseURL    string
	userAgent  string
	logger     *zap.Logger
}

// HTTPResolverConfig configures a new HTTPResolver.
type HTTPResolverConfig struct {
	BaseURL        string
	UserAgent      string
	RequestTimeout time.Duration
}

// NewHTTPResolver constructs an online resolver backed by cache. The limiter
// enforces a ≥1.1s-between-requests per-process throttle, matching Nominatim's
// usage-policy rate limit; a distributed deployment would replace this with a
// shared coordinated limiter instead.
func NewHTTPResolver(cfg HTTPResolverConfig, cache repository.GeocodeCacheRepository, logger *zap.Logger) *HTTPResolver {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &HTTPResolver{
		httpClient: &http.Client{Timeout: timeout},
		cache:      cache,
		limiter:    rate.NewLimiter(rate.Every(1100*time.Millisecond), 1),
		baseURL:    cfg.BaseURL,
		userAgent:  cfg.UserAgent,
		logger:     logger,
	}
}

func (r *HTTPResolver) ProviderName() string { return httpProviderName }

// Resolve checks the cache store by canonical key first. On a miss it
// throttles, calls the external endpoint, normalizes the county, persists a
// new cache entry, and returns. No negative caching: a resolver error is
// never cached.
func (r *HTTPResolver) Resolve(ctx context.Context, lat, lon float64) (*domain.GeocodeResult, error) {
	latR := quantize(lat)
	lonR := quantize(lon)
	cacheKey := httpProviderName + "_" + latR + "_" + lonR

	entry, err := r.cache.Get(ctx, cacheKey)
	if err != nil {
		return nil, fmt.Errorf("http resolver: cache lookup: %w", err)
	}

	if entry != nil {
		return &domain.GeocodeResult{
			State:       entry.State,
			County:      entry.County,
			Locality:    entry.Locality,
			Provider:    httpProviderName,
			RawResponse: entry.RawResponse,
			LatRounded:  entry.LatRounded,
			LonRounded:  entry.LonRounded,
		}, nil
	}

	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("http resolver: rate limit wait: %w", err)
	}

	raw, addr, err := r.callExternal(ctx, lat, lon)
	if err != nil {
		return nil, fmt.Errorf("http resolver: external call: %w", err)
	}

	locality := firstNonEmpty(addr.Address.City, addr.Address.Town, addr.Address.Village, addr.Address.Hamlet)
	county := NormalizeCounty(addr.Address.County, locality)

	result := &domain.GeocodeResult{
		State:       addr.Address.State,
		County:      county,
		Locality:    locality,
		Provider:    httpProviderName,
		RawResponse: raw,
		LatRounded:  latR,
		LonRounded:  lonR,
	}

	if err := r.cache.Insert(ctx, &domain.GeocodeCacheEntry{
		CacheKey:    cacheKey,
		Provider:    httpProviderName,
		LatRounded:  latR,
		LonRounded:  lonR,
		State:       result.State,
		County:      result.County,
		Locality:    result.Locality,
		RawResponse: raw,
	}); err != nil {
		r.logger.Warn("http resolver: cache insert failed, proceeding without cache", zap.Error(err))
	}

	return result, nil
}

func (r *HTTPResolver) callExternal(ctx context.Context, lat, lon float64) ([]byte, *addressResponse, error) {
	q := url.Values{}
	q.Set("format", "jsonv2")
	q.Set("lat", fmt.Sprintf("%f", lat))
	q.Set("lon", fmt.Sprintf("%f", lon))

	reqURL := r.baseURL + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("build request: %w", err)
	}
	if r.userAgent != "" {
		req.Header.Set("User-Agent", r.userAgent)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("read response: %w", err)
	}

	var addr addressResponse
	if err := json.Unmarshal(body, &addr); err != nil {
		return nil, nil, fmt.Errorf("decode response: %w", err)
	}

	return body, &addr, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
