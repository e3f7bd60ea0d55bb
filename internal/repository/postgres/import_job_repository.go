package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/sells-group/taxengine/internal/domain"
	"github.com/sells-group/taxengine/internal/domain/repository"
	"github.com/sells-group/taxengine/internal/pkg/errors"
)

type importJobRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewImportJobRepository creates a new ImportJobRepository backed by
// Postgres.
func NewImportJobRepository(db *DB) repository.ImportJobRepository {
	return &importJobRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

// Insert creates a new job row, defaulting status to PENDING.
func (r *importJobRepository) Insert(ctx context.Context, j *domain.ImportJob) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	if j.Status == "" {
		j.Status = domain.ImportJobPending
	}

	errorReport, err := json.Marshal(j.ErrorReport)
	if err != nil {
		return errors.ErrInternalServer
	}

	query := `
		INSERT INTO import_jobs (id, status, total_rows, processed_rows, success_rows, failed_rows, error_report, global_error)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`

	err = r.db.QueryRowContext(ctx, query,
		j.ID, j.Status, j.TotalRows, j.ProcessedRows, j.SuccessRows, j.FailedRows, errorReport, j.GlobalError,
	).Scan(&j.CreatedAt)

	if err != nil {
		r.logger.Error("failed to insert import job", zap.Error(err))
		return errors.ErrDatabaseError
	}

	return nil
}

// Get returns a job by id.
func (r *importJobRepository) Get(ctx context.Context, id uuid.UUID) (*domain.ImportJob, error) {
	query := `
		SELECT id, status, total_rows, processed_rows, success_rows, failed_rows,
		       error_report, global_error, created_at, started_at, finished_at
		FROM import_jobs WHERE id = $1
	`

	var j domain.ImportJob
	var errorReport []byte
	var globalError sql.NullString
	var startedAt, finishedAt sql.NullTime

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&j.ID, &j.Status, &j.TotalRows, &j.ProcessedRows, &j.SuccessRows, &j.FailedRows,
		&errorReport, &globalError, &j.CreatedAt, &startedAt, &finishedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.ErrJobNotFound
	}
	if err != nil {
		r.logger.Error("failed to get import job", zap.String("id", id.String()), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	if len(errorReport) > 0 {
		if err := json.Unmarshal(errorReport, &j.ErrorReport); err != nil {
			r.logger.Error("failed to unmarshal import job error report", zap.Error(err))
		}
	}
	j.GlobalError = globalError.String
	if startedAt.Valid {
		j.StartedAt = &startedAt.Time
	}
	if finishedAt.Valid {
		j.FinishedAt = &finishedAt.Time
	}

	return &j, nil
}

// Update persists the full mutable state of a job (status, counters, error
// report, and timestamps).
func (r *importJobRepository) Update(ctx context.Context, j *domain.ImportJob) error {
	errorReport, err := json.Marshal(j.ErrorReport)
	if err != nil {
		return errors.ErrInternalServer
	}

	query := `
		UPDATE import_jobs
		SET status = $2, total_rows = $3, processed_rows = $4, success_rows = $5, failed_rows = $6,
		    error_report = $7, global_error = $8, started_at = $9, finished_at = $10
		WHERE id = $1
	`

	res, err := r.db.ExecContext(ctx, query,
		j.ID, j.Status, j.TotalRows, j.ProcessedRows, j.SuccessRows, j.FailedRows,
		errorReport, j.GlobalError, j.StartedAt, j.FinishedAt,
	)
	if err != nil {
		r.logger.Error("failed to update import job", zap.Error(err))
		return errors.ErrDatabaseError
	}

	n, err := res.RowsAffected()
	if err != nil {
		r.logger.Error("failed to read rows affected updating import job", zap.Error(err))
		return errors.ErrDatabaseError
	}
	if n == 0 {
		return errors.ErrJobNotFound
	}

	return nil
}
