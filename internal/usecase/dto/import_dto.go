package dto

import "time"

// SubmitImportRequest carries the raw uploaded file bytes and its declared
// filename, before encoding detection.
type SubmitImportRequest struct {
	FileName string
	Content  []byte
}

// ImportRowErrorResponse is one row-level failure recorded during an import.
type ImportRowErrorResponse struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// ImportJobResponse is the full background job record.
type ImportJobResponse struct {
	ID            string                   `json:"id"`
	Status        string                   `json:"status"`
	TotalRows     int                      `json:"total_rows"`
	ProcessedRows int                      `json:"processed_rows"`
	SuccessRows   int                      `json:"success_rows"`
	FailedRows    int                      `json:"failed_rows"`
	ErrorReport   []ImportRowErrorResponse `json:"error_report,omitempty"`
	GlobalError   string                   `json:"global_error,omitempty"`
	CreatedAt     time.Time                `json:"created_at"`
	StartedAt     *time.Time               `json:"started_at,omitempty"`
	FinishedAt    *time.Time               `json:"finished_at,omitempty"`
}

// ImportTask is the payload enqueued on the durable task queue for a
// submitted CSV import.
type ImportTask struct {
	JobID string `json:"job_id"`
	Text  string `json:"text"`
}
