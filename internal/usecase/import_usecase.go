package usecase

import (
	"bytes"
	"context"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/sells-group/taxengine/internal/domain"
	"github.com/sells-group/taxengine/internal/domain/repository"
	apperrors "github.com/sells-group/taxengine/internal/pkg/errors"
	"github.com/sells-group/taxengine/internal/usecase/dto"
)

// ImportStreamName is the durable task-queue stream import jobs are
// dispatched on.
const ImportStreamName = "tax:stream:imports"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ImportUseCase submits bulk CSV imports and reports their background
// progress.
type ImportUseCase struct {
	jobRepo repository.ImportJobRepository
	queue   repository.TaskQueue
	logger  *zap.Logger
}

// NewImportUseCase constructs an ImportUseCase.
func NewImportUseCase(jobRepo repository.ImportJobRepository, queue repository.TaskQueue, logger *zap.Logger) *ImportUseCase {
	return &ImportUseCase{jobRepo: jobRepo, queue: queue, logger: logger}
}

// SubmitImport decodes the uploaded bytes as text, creates a PENDING
// ImportJob, and enqueues it for the background worker tier.
func (uc *ImportUseCase) SubmitImport(ctx context.Context, req dto.SubmitImportRequest) (*dto.ImportJobResponse, error) {
	if len(req.Content) == 0 {
		return nil, apperrors.ErrImportFileMissing
	}

	text, err := decodeText(req.Content)
	if err != nil {
		return nil, apperrors.ErrImportDecodeFailed
	}

	job := &domain.ImportJob{Status: domain.ImportJobPending}
	if err := uc.jobRepo.Insert(ctx, job); err != nil {
		uc.logger.Error("failed to insert import job", zap.Error(err))
		return nil, apperrors.ErrDatabaseError
	}

	task := dto.ImportTask{JobID: job.ID.String(), Text: text}
	if err := uc.queue.Publish(ctx, ImportStreamName, task); err != nil {
		uc.logger.Error("failed to enqueue import task", zap.Error(err))
		return nil, apperrors.ErrQueueError
	}

	resp := dto.FromImportJob(job)
	return &resp, nil
}

// GetImportStatus returns the full job record, including progress and error
// report.
func (uc *ImportUseCase) GetImportStatus(ctx context.Context, id uuid.UUID) (*dto.ImportJobResponse, error) {
	job, err := uc.jobRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.FromImportJob(job)
	return &resp, nil
}

// decodeText decodes raw upload bytes as UTF-8 with BOM stripping, falling
// back to ISO-8859-1 when the bytes are not valid UTF-8.
func decodeText(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	if utf8.Valid(data) {
		return string(data), nil
	}

	decoded, _, err := transform.Bytes(charmap.ISO8859_1.NewDecoder(), data)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}
