package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sells-group/taxengine/internal/domain"
	"github.com/sells-group/taxengine/internal/domain/repository"
	"github.com/sells-group/taxengine/internal/pkg/errors"
)

type rateRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewRateRepository creates a new RateRepository backed by Postgres.
func NewRateRepository(db *DB) repository.RateRepository {
	return &rateRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

const rateColumns = `
	id, state, county, locality,
	rate_state, rate_county, rate_locality, rate_special,
	valid_from, valid_to, created_at
`

// FetchRate runs the cascading lookup: exact (state, county, locality),
// then exact (state, county) with no locality, then a fuzzy county
// substring match, then the explicit state-level generic fallback
// (county = ''), then any record for the state. The first tier with a
// candidate wins; within a tier the record with the greatest valid_from is
// chosen.
func (r *rateRepository) FetchRate(ctx context.Context, state, county, locality string, at time.Time) (*domain.RateRecord, error) {
	tiers := []func() (*domain.RateRecord, error){
		func() (*domain.RateRecord, error) {
			if locality == "" {
				return nil, nil
			}
			return r.queryOne(ctx, `
				SELECT `+rateColumns+` FROM rate_records
				WHERE lower(state) = lower($1) AND lower(county) = lower($2) AND lower(locality) = lower($3)
				  AND valid_from <= $4 AND (valid_to IS NULL OR valid_to >= $4)
				ORDER BY valid_from DESC LIMIT 1
			`, state, county, locality, at)
		},
		func() (*domain.RateRecord, error) {
			return r.queryOne(ctx, `
				SELECT `+rateColumns+` FROM rate_records
				WHERE lower(state) = lower($1) AND lower(county) = lower($2) AND (locality IS NULL OR locality = '')
				  AND valid_from <= $3 AND (valid_to IS NULL OR valid_to >= $3)
				ORDER BY valid_from DESC LIMIT 1
			`, state, county, at)
		},
		func() (*domain.RateRecord, error) {
			if county == "" {
				return nil, nil
			}
			fuzzy := fuzzyCounty(county)
			return r.queryOne(ctx, `
				SELECT `+rateColumns+` FROM rate_records
				WHERE lower(state) = lower($1) AND lower(county) LIKE '%' || lower($2) || '%'
				  AND valid_from <= $3 AND (valid_to IS NULL OR valid_to >= $3)
				ORDER BY valid_from DESC LIMIT 1
			`, state, fuzzy, at)
		},
		func() (*domain.RateRecord, error) {
			return r.queryOne(ctx, `
				SELECT `+rateColumns+` FROM rate_records
				WHERE lower(state) = lower($1) AND county = ''
				  AND valid_from <= $2 AND (valid_to IS NULL OR valid_to >= $2)
				ORDER BY valid_from DESC LIMIT 1
			`, state, at)
		},
		func() (*domain.RateRecord, error) {
			return r.queryOne(ctx, `
				SELECT `+rateColumns+` FROM rate_records
				WHERE lower(state) = lower($1)
				  AND valid_from <= $2 AND (valid_to IS NULL OR valid_to >= $2)
				ORDER BY valid_from DESC LIMIT 1
			`, state, at)
		},
	}

	for _, tier := range tiers {
		rec, err := tier()
		if err != nil {
			return nil, err
		}
		if rec != nil {
			return rec, nil
		}
	}

	return nil, nil
}

// fuzzyCounty strips " County" and " City" suffixes case-insensitively, as
// required before the substring match tier runs.
func fuzzyCounty(county string) string {
	stripped := county
	for changed := true; changed; {
		changed = false
		for _, suffix := range []string{" county", " city"} {
			if strings.HasSuffix(strings.ToLower(stripped), suffix) {
				stripped = strings.TrimSpace(stripped[:len(stripped)-len(suffix)])
				changed = true
			}
		}
	}
	return stripped
}

func (r *rateRepository) queryOne(ctx context.Context, query string, args ...interface{}) (*domain.RateRecord, error) {
	var rec domain.RateRecord
	var validTo sql.NullTime
	var rateSpecial decimal.NullDecimal

	row := r.db.QueryRowContext(ctx, query, args...)
	err := row.Scan(
		&rec.ID, &rec.State, &rec.County, &rec.Locality,
		&rec.RateState, &rec.RateCounty, &rec.RateLocality, &rateSpecial,
		&rec.ValidFrom, &validTo, &rec.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("failed to query rate record", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	if validTo.Valid {
		rec.ValidTo = &validTo.Time
	}
	if rateSpecial.Valid {
		rec.RateSpecial = rateSpecial.Decimal
	}

	return &rec, nil
}

// Insert adds a new rate record.
func (r *rateRepository) Insert(ctx context.Context, rec *domain.RateRecord) error {
	query := `
		INSERT INTO rate_records
			(state, county, locality, rate_state, rate_county, rate_locality, rate_special, valid_from, valid_to)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		rec.State, rec.County, rec.Locality,
		rec.RateState, rec.RateCounty, rec.RateLocality, rec.RateSpecial,
		rec.ValidFrom, rec.ValidTo,
	).Scan(&rec.ID, &rec.CreatedAt)

	if err != nil {
		r.logger.Error("failed to insert rate record", zap.Error(err))
		return errors.ErrDatabaseError
	}

	return nil
}
