package domain

import (
	"errors"
	"fmt"
)

// ErrEmptyInput is returned when insights are requested for a statement with
// no transactions to aggregate
var ErrEmptyInput = errors.New("no transactions to analyze")

// ParseRowError is a per-row, non-fatal parse failure. It is recorded in the
// ingest result and never aborts the batch.
type ParseRowError struct {
	Line  int
	Field string
	Value string
}

func (e *ParseRowError) Error() string {
	return fmt.Sprintf("row %d: invalid %s %q", e.Line, e.Field, e.Value)
}

// IntegrationError is a failed outward call. Transient failures are retried,
// permanent ones end the call immediately.
type IntegrationError struct {
	StatusCode int
	Transient  bool
	Err        error
}

func (e *IntegrationError) Error() string {
	kind := "permanent"
	if e.Transient {
		kind = "transient"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s integration failure (status %d): %v", kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s integration failure (status %d)", kind, e.StatusCode)
}

func (e *IntegrationError) Unwrap() error {
	return e.Err
}
