package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/sells-group/taxengine/internal/domain"
	"github.com/sells-group/taxengine/internal/domain/repository"
	"github.com/sells-group/taxengine/internal/repository/postgres/testhelpers"
)

type GeocodeCacheRepositoryTestSuite struct {
	suite.Suite
	testDB *testhelpers.TestDB
	repo   repository.GeocodeCacheRepository
	ctx    context.Context
}

func (s *GeocodeCacheRepositoryTestSuite) SetupSuite() {
	s.testDB = testhelpers.SetupTestDB(s.T())
	s.NoError(s.testDB.Cleanup(context.Background()))
	_ = testhelpers.ApplyMigrations(s.testDB.DB.DB, "../../../migrations")
	s.repo = testhelpers.NewGeocodeCacheRepositoryForTest(s.testDB.DB, s.testDB.Logger)
}

func (s *GeocodeCacheRepositoryTestSuite) TearDownSuite() {
	if s.testDB != nil {
		s.testDB.Close()
	}
}

func (s *GeocodeCacheRepositoryTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.Require().NoError(s.testDB.Cleanup(s.ctx))
}

func (s *GeocodeCacheRepositoryTestSuite) TestInsertAndGet() {
	entry := &domain.GeocodeCacheEntry{
		CacheKey:   "http_40.7128_-74.0060",
		Provider:   "http",
		LatRounded: "40.7128",
		LonRounded: "-74.0060",
		State:      "New York",
		County:     "New York",
	}
	s.Require().NoError(s.repo.Insert(s.ctx, entry))

	got, err := s.repo.Get(s.ctx, "http_40.7128_-74.0060")
	s.NoError(err)
	s.Require().NotNil(got)
	s.Equal("New York", got.State)
}

func (s *GeocodeCacheRepositoryTestSuite) TestGet_Miss() {
	got, err := s.repo.Get(s.ctx, "nonexistent_key")
	s.NoError(err)
	s.Nil(got)
}

func (s *GeocodeCacheRepositoryTestSuite) TestInsert_DuplicateKeyIsBenign() {
	entry := &domain.GeocodeCacheEntry{
		CacheKey:   "polygon_40.7128_-74.0060",
		Provider:   "polygon",
		LatRounded: "40.7128",
		LonRounded: "-74.0060",
		State:      "New York",
	}
	s.Require().NoError(s.repo.Insert(s.ctx, entry))

	race := &domain.GeocodeCacheEntry{
		CacheKey:   "polygon_40.7128_-74.0060",
		Provider:   "polygon",
		LatRounded: "40.7128",
		LonRounded: "-74.0060",
		State:      "New York",
	}
	err := s.repo.Insert(s.ctx, race)
	s.NoError(err, "a racing duplicate insert must be treated as already-present, not an error")
}

func TestGeocodeCacheRepositorySuite(t *testing.T) {
	suite.Run(t, new(GeocodeCacheRepositoryTestSuite))
}
