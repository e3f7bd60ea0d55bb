package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sells-group/taxengine/internal/domain"
)

// ImportJobRepository persists bulk-import job state.
type ImportJobRepository interface {
	Insert(ctx context.Context, j *domain.ImportJob) error
	Get(ctx context.Context, id uuid.UUID) (*domain.ImportJob, error)
	Update(ctx context.Context, j *domain.ImportJob) error
}
