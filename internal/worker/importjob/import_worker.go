package importjob

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sells-group/taxengine/internal/domain"
	"github.com/sells-group/taxengine/internal/domain/repository"
	"github.com/sells-group/taxengine/internal/usecase"
	"github.com/sells-group/taxengine/internal/usecase/dto"
	"github.com/sells-group/taxengine/internal/worker"
)

const (
	jobBatchSize     = 10  // max jobs read off the stream per cycle
	rowBatchSize     = 500 // rows processed before progress is persisted
	emptyStreamSleep = 200 * time.Millisecond
)

// ImportWorker consumes submitted import jobs off the durable task queue and
// drives each one through parse, per-row tax computation, and persistence.
type ImportWorker struct {
	*worker.BaseWorker
	queue        repository.TaskQueue
	jobRepo      repository.ImportJobRepository
	taxUC        *usecase.TaxUseCase
	consumerName string
}

// NewImportWorker constructs an ImportWorker.
func NewImportWorker(
	queue repository.TaskQueue,
	jobRepo repository.ImportJobRepository,
	taxUC *usecase.TaxUseCase,
	consumerGroup string,
	logger *zap.Logger,
) *ImportWorker {
	hostname, _ := os.Hostname()
	consumerName := fmt.Sprintf("%s-%d", hostname, os.Getpid())

	return &ImportWorker{
		BaseWorker:   worker.NewBaseWorker("import-job", consumerGroup, logger),
		queue:        queue,
		jobRepo:      jobRepo,
		taxUC:        taxUC,
		consumerName: consumerName,
	}
}

// Start runs the worker's read/process/ack loop until stopped or ctx is
// cancelled.
func (w *ImportWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("starting import worker",
		zap.String("consumer_group", w.ConsumerGroup()),
		zap.String("consumer_name", w.consumerName))

	if err := w.queue.CreateConsumerGroup(ctx, usecase.ImportStreamName, w.ConsumerGroup()); err != nil {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	for {
		select {
		case <-w.StopChan():
			logger.Info("import worker stopped")
			return nil
		case <-ctx.Done():
			logger.Info("import worker context cancelled")
			return ctx.Err()
		default:
			processed, err := w.processBatch(ctx)
			if err != nil {
				logger.Error("failed to process job batch", zap.Error(err))
				time.Sleep(time.Second)
				continue
			}
			if processed == 0 {
				time.Sleep(emptyStreamSleep)
			}
		}
	}
}

// processBatch reads up to jobBatchSize pending job messages and runs each
// one to completion, acknowledging every message it reads (including
// malformed ones, so they do not wedge the consumer group).
func (w *ImportWorker) processBatch(ctx context.Context) (int, error) {
	logger := w.Logger()

	messages, err := w.queue.ConsumeBatch(ctx, usecase.ImportStreamName, w.ConsumerGroup(), w.consumerName, jobBatchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to consume batch: %w", err)
	}
	if len(messages) == 0 {
		return 0, nil
	}

	ids := make([]string, 0, len(messages))
	for _, msg := range messages {
		var task dto.ImportTask
		if err := json.Unmarshal([]byte(msg.Data), &task); err != nil {
			logger.Warn("failed to unmarshal import task, skipping", zap.String("message_id", msg.ID), zap.Error(err))
			ids = append(ids, msg.ID)
			continue
		}

		if err := w.processJob(ctx, task); err != nil {
			logger.Error("failed to process import job", zap.String("job_id", task.JobID), zap.Error(err))
		}
		ids = append(ids, msg.ID)
	}

	if err := w.queue.AckMessages(ctx, usecase.ImportStreamName, w.ConsumerGroup(), ids); err != nil {
		logger.Error("failed to ack import messages", zap.Error(err))
	}

	return len(messages), nil
}

// processJob runs one import job through its full lifecycle. Any error
// returned here has already been recorded on the job record (or the job
// could not be loaded at all) — it is surfaced only for logging.
func (w *ImportWorker) processJob(ctx context.Context, task dto.ImportTask) (err error) {
	logger := w.Logger()

	jobID, parseErr := uuid.Parse(task.JobID)
	if parseErr != nil {
		return fmt.Errorf("invalid job id %q: %w", task.JobID, parseErr)
	}

	job, getErr := w.jobRepo.Get(ctx, jobID)
	if getErr != nil {
		return fmt.Errorf("failed to load job %s: %w", jobID, getErr)
	}

	// Replay guard: a job is dispatched at most once by SubmitImport, but
	// at-least-once stream delivery can redeliver the same message.
	if job.Status != domain.ImportJobPending {
		logger.Info("skipping non-pending job", zap.String("job_id", jobID.String()), zap.String("status", string(job.Status)))
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			w.failJob(ctx, job, fmt.Sprintf("panic: %v", r))
			err = fmt.Errorf("job %s panicked: %v", jobID, r)
		}
	}()

	now := time.Now().UTC()
	job.Status = domain.ImportJobProcessing
	job.StartedAt = &now
	job.TotalRows = countDataRows(task.Text)
	if updErr := w.jobRepo.Update(ctx, job); updErr != nil {
		w.failJob(ctx, job, updErr.Error())
		return fmt.Errorf("failed to mark job processing: %w", updErr)
	}

	header, records, parseErr := parseRecords(task.Text)
	if parseErr != nil {
		w.failJob(ctx, job, parseErr.Error())
		return parseErr
	}

	cols, colErr := resolveColumns(header)
	if colErr != nil {
		w.failJob(ctx, job, colErr.Error())
		return colErr
	}

	w.runRows(ctx, job, cols, records)

	finished := time.Now().UTC()
	job.Status = domain.ImportJobCompleted
	job.FinishedAt = &finished
	if updErr := w.jobRepo.Update(ctx, job); updErr != nil {
		w.failJob(ctx, job, updErr.Error())
		return fmt.Errorf("failed to mark job completed: %w", updErr)
	}

	logger.Info("import job completed",
		zap.String("job_id", jobID.String()),
		zap.Int("total_rows", job.TotalRows),
		zap.Int("success_rows", job.SuccessRows),
		zap.Int("failed_rows", job.FailedRows))

	return nil
}

// runRows processes every data record in batches of rowBatchSize, isolating
// a single row's failure from the rest of the job and persisting progress
// after each batch.
func (w *ImportWorker) runRows(ctx context.Context, job *domain.ImportJob, cols columnIndex, records [][]string) {
	logger := w.Logger()

	for start := 0; start < len(records); start += rowBatchSize {
		end := start + rowBatchSize
		if end > len(records) {
			end = len(records)
		}

		for i := start; i < end; i++ {
			rowIndex := i + 1 // 1-based data row index
			w.processRow(ctx, job, cols, records[i], rowIndex)
			job.ProcessedRows++
		}

		if err := w.jobRepo.Update(ctx, job); err != nil {
			logger.Error("failed to persist batch progress", zap.Error(err))
		}
	}
}

// processRow converts one record into a ProcessOrder request and runs it
// through the tax engine, isolating any failure (including a panic) to this
// row alone.
func (w *ImportWorker) processRow(ctx context.Context, job *domain.ImportJob, cols columnIndex, rec []string, rowIndex int) {
	defer func() {
		if r := recover(); r != nil {
			job.FailedRows++
			job.ErrorReport = append(job.ErrorReport, domain.ImportRowError{Row: rowIndex, Error: fmt.Sprintf("panic: %v", r)})
		}
	}()

	if isBlankRecord(rec) {
		job.FailedRows++
		job.ErrorReport = append(job.ErrorReport, domain.ImportRowError{Row: rowIndex, Error: "blank row"})
		return
	}

	req, err := buildProcessOrderRequest(rec, cols)
	if err != nil {
		job.FailedRows++
		job.ErrorReport = append(job.ErrorReport, domain.ImportRowError{Row: rowIndex, Error: err.Error()})
		return
	}

	if _, err := w.taxUC.ProcessOrder(ctx, req); err != nil {
		job.FailedRows++
		job.ErrorReport = append(job.ErrorReport, domain.ImportRowError{Row: rowIndex, Error: err.Error()})
		return
	}

	job.SuccessRows++
}

// buildProcessOrderRequest extracts and parses the fields of one CSV record
// into a ProcessOrderRequest, leaving subtotal as a raw string for the tax
// engine's own exact-decimal parsing.
func buildProcessOrderRequest(rec []string, cols columnIndex) (dto.ProcessOrderRequest, error) {
	lat, err := parseRowCoordinate(field(rec, cols.lat), "lat")
	if err != nil {
		return dto.ProcessOrderRequest{}, err
	}

	lon, err := parseRowCoordinate(field(rec, cols.lon), "lon")
	if err != nil {
		return dto.ProcessOrderRequest{}, err
	}

	subtotal := field(rec, cols.subtotal)
	if subtotal == "" {
		return dto.ProcessOrderRequest{}, fmt.Errorf("missing subtotal")
	}

	ts, err := parseRowTimestamp(field(rec, cols.timestamp))
	if err != nil {
		return dto.ProcessOrderRequest{}, err
	}

	return dto.ProcessOrderRequest{Lat: lat, Lon: lon, Subtotal: subtotal, Timestamp: ts}, nil
}

// failJob transitions a job straight to FAILED with a global error, used
// for failures outside per-row scope (parse error, store outage).
func (w *ImportWorker) failJob(ctx context.Context, job *domain.ImportJob, reason string) {
	now := time.Now().UTC()
	job.Status = domain.ImportJobFailed
	job.GlobalError = reason
	job.FinishedAt = &now

	if err := w.jobRepo.Update(ctx, job); err != nil {
		w.Logger().Error("failed to persist failed job state", zap.String("job_id", job.ID.String()), zap.Error(err))
	}
}
