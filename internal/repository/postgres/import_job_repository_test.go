package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/sells-group/taxengine/internal/domain"
	"github.com/sells-group/taxengine/internal/domain/repository"
	"github.com/sells-group/taxengine/internal/repository/postgres/testhelpers"
)

type ImportJobRepositoryTestSuite struct {
	suite.Suite
	testDB *testhelpers.TestDB
	repo   repository.ImportJobRepository
	ctx    context.Context
}

func (s *ImportJobRepositoryTestSuite) SetupSuite() {
	s.testDB = testhelpers.SetupTestDB(s.T())
	s.NoError(s.testDB.Cleanup(context.Background()))
	_ = testhelpers.ApplyMigrations(s.testDB.DB.DB, "../../../migrations")
	s.repo = testhelpers.NewImportJobRepositoryForTest(s.testDB.DB, s.testDB.Logger)
}

func (s *ImportJobRepositoryTestSuite) TearDownSuite() {
	if s.testDB != nil {
		s.testDB.Close()
	}
}

func (s *ImportJobRepositoryTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.Require().NoError(s.testDB.Cleanup(s.ctx))
}

func (s *ImportJobRepositoryTestSuite) TestInsert_DefaultsStatusAndID() {
	j := &domain.ImportJob{TotalRows: 10}
	s.Require().NoError(s.repo.Insert(s.ctx, j))

	s.NotEqual(uuid.Nil, j.ID)
	s.Equal(domain.ImportJobPending, j.Status)
	s.False(j.CreatedAt.IsZero())
}

func (s *ImportJobRepositoryTestSuite) TestGet_NotFound() {
	_, err := s.repo.Get(s.ctx, uuid.New())
	s.Error(err)
}

func (s *ImportJobRepositoryTestSuite) TestUpdate_TransitionsAndErrorReport() {
	j := &domain.ImportJob{TotalRows: 3}
	s.Require().NoError(s.repo.Insert(s.ctx, j))

	now := time.Now().UTC().Truncate(time.Second)
	j.Status = domain.ImportJobProcessing
	j.StartedAt = &now
	s.Require().NoError(s.repo.Update(s.ctx, j))

	got, err := s.repo.Get(s.ctx, j.ID)
	s.NoError(err)
	s.Equal(domain.ImportJobProcessing, got.Status)
	s.Require().NotNil(got.StartedAt)

	finished := now.Add(time.Minute)
	j.Status = domain.ImportJobFailed
	j.ProcessedRows = 3
	j.SuccessRows = 2
	j.FailedRows = 1
	j.ErrorReport = []domain.ImportRowError{{Row: 2, Error: "invalid subtotal"}}
	j.FinishedAt = &finished
	s.Require().NoError(s.repo.Update(s.ctx, j))

	got, err = s.repo.Get(s.ctx, j.ID)
	s.NoError(err)
	s.Equal(domain.ImportJobFailed, got.Status)
	s.Equal(1, got.FailedRows)
	s.Require().Len(got.ErrorReport, 1)
	s.Equal("invalid subtotal", got.ErrorReport[0].Error)
	s.Require().NotNil(got.FinishedAt)
}

func (s *ImportJobRepositoryTestSuite) TestUpdate_NotFound() {
	j := &domain.ImportJob{ID: uuid.New(), Status: domain.ImportJobFailed}
	err := s.repo.Update(s.ctx, j)
	s.Error(err)
}

func TestImportJobRepositorySuite(t *testing.T) {
	suite.Run(t, new(ImportJobRepositoryTestSuite))
}
