package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/sells-group/taxengine/internal/domain"
	"github.com/sells-group/taxengine/internal/domain/repository"
	apperrors "github.com/sells-group/taxengine/internal/pkg/errors"
)

const pgUniqueViolation = "23505"

type geocodeCacheRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewGeocodeCacheRepository creates a new GeocodeCacheRepository backed by
// Postgres.
func NewGeocodeCacheRepository(db *DB) repository.GeocodeCacheRepository {
	return &geocodeCacheRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

// Get looks up a cache entry by its canonical key, returning nil, nil on a
// miss.
func (r *geocodeCacheRepository) Get(ctx context.Context, cacheKey string) (*domain.GeocodeCacheEntry, error) {
	query := `
		SELECT id, cache_key, provider, lat_rounded, lon_rounded, state, county, locality, raw_response, created_at
		FROM geocode_cache
		WHERE cache_key = $1
	`

	var e domain.GeocodeCacheEntry
	err := r.db.QueryRowContext(ctx, query, cacheKey).Scan(
		&e.ID, &e.CacheKey, &e.Provider, &e.LatRounded, &e.LonRounded,
		&e.State, &e.County, &e.Locality, &e.RawResponse, &e.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("failed to get geocode cache entry", zap.String("cache_key", cacheKey), zap.Error(err))
		return nil, apperrors.ErrDatabaseError
	}

	return &e, nil
}

// Insert persists a new cache entry. A unique-key collision is treated as a
// benign no-op: two workers racing to cache the same coordinate bucket must
// not surface as an error.
func (r *geocodeCacheRepository) Insert(ctx context.Context, e *domain.GeocodeCacheEntry) error {
	query := `
		INSERT INTO geocode_cache (cache_key, provider, lat_rounded, lon_rounded, state, county, locality, raw_response)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		e.CacheKey, e.Provider, e.LatRounded, e.LonRounded, e.State, e.County, e.Locality, e.RawResponse,
	).Scan(&e.ID, &e.CreatedAt)

	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		r.logger.Debug("geocode cache insert raced, entry already present", zap.String("cache_key", e.CacheKey))
		return nil
	}

	r.logger.Error("failed to insert geocode cache entry", zap.Error(err))
	return apperrors.ErrDatabaseError
}
