package domain

import (
	"time"

	"github.com/google/uuid"
)

// StatementStatus represents the processing status of an uploaded statement
type StatementStatus string

const (
	StatementUploaded   StatementStatus = "UPLOADED"
	StatementProcessing StatementStatus = "PROCESSING"
	StatementProcessed  StatementStatus = "PROCESSED"
	StatementFailed     StatementStatus = "FAILED"
)

// Statement is one uploaded batch of transaction rows and its processing status
type Statement struct {
	ID             int             `json:"id" db:"id"`
	StatementID    uuid.UUID       `json:"statement_id" db:"statement_id"`
	FileName       string          `json:"file_name" db:"file_name"`
	Status         StatementStatus `json:"status" db:"status"`
	TotalRows      int             `json:"total_rows" db:"total_rows"`
	SuccessfulRows int             `json:"successful_rows" db:"successful_rows"`
	FailedRows     int             `json:"failed_rows" db:"failed_rows"`
	PeriodStart    *time.Time      `json:"period_start,omitempty" db:"period_start"`
	PeriodEnd      *time.Time      `json:"period_end,omitempty" db:"period_end"`
	ErrorMessage   *string         `json:"error_message,omitempty" db:"error_message"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`
}

// IngestResult reports the outcome of parsing one statement upload.
// SuccessfulRows + FailedRows == TotalRows always holds.
type IngestResult struct {
	StatementID    uuid.UUID     `json:"statement_id"`
	TotalRows      int           `json:"total_rows"`
	SuccessfulRows int           `json:"successful_rows"`
	FailedRows     int           `json:"failed_rows"`
	Errors         []string      `json:"errors,omitempty"`
	Transactions   []Transaction `json:"-"`
}
