package domain

import (
	"time"

	"github.com/google/uuid"
)

// ImportJobStatus is the state of a background import job.
type ImportJobStatus string

const (
	ImportJobPending    ImportJobStatus = "PENDING"
	ImportJobProcessing ImportJobStatus = "PROCESSING"
	ImportJobCompleted  ImportJobStatus = "COMPLETED"
	ImportJobFailed     ImportJobStatus = "FAILED"
)

// ImportRowError is one row-level failure recorded during an import.
type ImportRowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// ImportJob is the background job state for a bulk CSV import.
type ImportJob struct {
	ID            uuid.UUID        `json:"id" db:"id"`
	Status        ImportJobStatus  `json:"status" db:"status"`
	TotalRows     int              `json:"total_rows" db:"total_rows"`
	ProcessedRows int              `json:"processed_rows" db:"processed_rows"`
	SuccessRows   int              `json:"success_rows" db:"success_rows"`
	FailedRows    int              `json:"failed_rows" db:"failed_rows"`
	ErrorReport   []ImportRowError `json:"error_report" db:"-"`
	GlobalError   string           `json:"global_error,omitempty" db:"global_error"`
	CreatedAt     time.Time        `json:"created_at" db:"created_at"`
	StartedAt     *time.Time       `json:"started_at,omitempty" db:"started_at"`
	FinishedAt    *time.Time       `json:"finished_at,omitempty" db:"finished_at"`
}

// IsTerminal reports whether the job has reached a terminal state.
func (j *ImportJob) IsTerminal() bool {
	return j.Status == ImportJobCompleted || j.Status == ImportJobFailed
}
