package testhelpers

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/sells-group/taxengine/internal/domain/repository"
	"github.com/sells-group/taxengine/internal/repository/postgres"
)

// NewDBForTest creates a postgres.DB with test database and logger.
func NewDBForTest(db *sqlx.DB, logger *zap.Logger) *postgres.DB {
	return postgres.NewDBForTest(db, logger)
}

// NewRateRepositoryForTest creates a rate repository with test database and logger.
func NewRateRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.RateRepository {
	return postgres.NewRateRepository(NewDBForTest(db, logger))
}

// NewGeocodeCacheRepositoryForTest creates a geocode cache repository with test database and logger.
func NewGeocodeCacheRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.GeocodeCacheRepository {
	return postgres.NewGeocodeCacheRepository(NewDBForTest(db, logger))
}

// NewOrderRepositoryForTest creates an order repository with test database and logger.
func NewOrderRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.OrderRepository {
	return postgres.NewOrderRepository(NewDBForTest(db, logger))
}

// NewImportJobRepositoryForTest creates an import job repository with test database and logger.
func NewImportJobRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.ImportJobRepository {
	return postgres.NewImportJobRepository(NewDBForTest(db, logger))
}
