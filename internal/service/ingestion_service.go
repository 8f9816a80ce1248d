package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"insight-engine/internal/domain"
	"insight-engine/internal/parser"
	"insight-engine/internal/repository"
	"insight-engine/pkg/logger"
)

type IngestionService interface {
	Ingest(fileName string, r io.Reader) (*domain.IngestResult, error)
	GetStatement(statementID uuid.UUID) (*domain.Statement, error)
}

type ingestionService struct {
	statementRepo repository.StatementRepository
	txRepo        repository.TransactionRepository
	rowParser     *parser.RowParser
	batchSize     int
	ready         chan<- uuid.UUID
}

// NewIngestionService wires the row parser and repositories. Parsed batches
// are persisted in chunks of at most batchSize rows; completed statements
// are announced on the ready channel for insight computation.
func NewIngestionService(
	statementRepo repository.StatementRepository,
	txRepo repository.TransactionRepository,
	rowParser *parser.RowParser,
	batchSize int,
	ready chan<- uuid.UUID,
) IngestionService {
	return &ingestionService{
		statementRepo: statementRepo,
		txRepo:        txRepo,
		rowParser:     rowParser,
		batchSize:     batchSize,
		ready:         ready,
	}
}

// Ingest parses one uploaded statement in a single sequential pass.
// Row-level failures accumulate in the result and never abort the batch;
// a batch with zero successful rows is a terminal failure for the statement.
func (s *ingestionService) Ingest(fileName string, r io.Reader) (*domain.IngestResult, error) {
	statementID := uuid.New()
	statement := &domain.Statement{
		StatementID: statementID,
		FileName:    fileName,
		Status:      domain.StatementProcessing,
	}
	if err := s.statementRepo.Create(statement); err != nil {
		return nil, fmt.Errorf("failed to create statement: %w", err)
	}

	logger.GetLogger().WithFields(map[string]interface{}{
		"statement_id": statementID,
		"file_name":    fileName,
	}).Info("Starting statement ingestion")

	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		s.failStatement(statementID, nil, "failed to read header")
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	layout := parser.NewLayout(header)
	if err := layout.Validate(); err != nil {
		s.failStatement(statementID, nil, err.Error())
		return nil, fmt.Errorf("invalid statement format: %w", err)
	}

	result := &domain.IngestResult{StatementID: statementID}
	ordinal := 0

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		ordinal++
		result.TotalRows++

		if err != nil {
			result.FailedRows++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", ordinal, err))
			continue
		}

		transaction, err := s.rowParser.ParseRow(layout, record, ordinal)
		if err != nil {
			result.FailedRows++
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		if transaction == nil {
			result.FailedRows++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: missing required fields", ordinal))
			continue
		}

		transaction.StatementID = statementID
		result.SuccessfulRows++
		result.Transactions = append(result.Transactions, *transaction)
	}

	if result.SuccessfulRows == 0 {
		s.failStatement(statementID, result, "no valid rows in statement")
		return result, fmt.Errorf("no valid rows in statement")
	}

	// Chunked purely to bound per-call payload size; totals are unaffected
	for start := 0; start < len(result.Transactions); start += s.batchSize {
		end := start + s.batchSize
		if end > len(result.Transactions) {
			end = len(result.Transactions)
		}
		if err := s.txRepo.BulkCreate(statementID, result.Transactions[start:end]); err != nil {
			s.failStatement(statementID, result, err.Error())
			return result, fmt.Errorf("failed to persist transactions: %w", err)
		}
	}

	periodStart, periodEnd := periodBounds(result.Transactions)
	err = s.statementRepo.UpdateStatus(
		statementID, domain.StatementProcessed,
		result.TotalRows, result.SuccessfulRows, result.FailedRows,
		periodStart, periodEnd, nil,
	)
	if err != nil {
		return result, fmt.Errorf("failed to update statement: %w", err)
	}

	s.announceReady(statementID)

	logger.GetLogger().WithFields(map[string]interface{}{
		"statement_id":    statementID,
		"total_rows":      result.TotalRows,
		"successful_rows": result.SuccessfulRows,
		"failed_rows":     result.FailedRows,
	}).Info("Statement ingestion completed")

	return result, nil
}

func (s *ingestionService) GetStatement(statementID uuid.UUID) (*domain.Statement, error) {
	return s.statementRepo.GetByStatementID(statementID)
}

func (s *ingestionService) failStatement(statementID uuid.UUID, result *domain.IngestResult, message string) {
	total, failed := 0, 0
	if result != nil {
		total, failed = result.TotalRows, result.FailedRows
	}
	if err := s.statementRepo.UpdateStatus(statementID, domain.StatementFailed, total, 0, failed, nil, nil, &message); err != nil {
		logger.GetLogger().WithError(err).WithField("statement_id", statementID).Error("Failed to mark statement failed")
	}
}

// announceReady hands the statement off to the insight stage. A full
// channel only drops the signal; insights are still computed on demand.
func (s *ingestionService) announceReady(statementID uuid.UUID) {
	if s.ready == nil {
		return
	}
	select {
	case s.ready <- statementID:
	default:
		logger.GetLogger().WithField("statement_id", statementID).Warn("Ready queue full, deferring insight computation")
	}
}

func periodBounds(transactions []domain.Transaction) (*time.Time, *time.Time) {
	if len(transactions) == 0 {
		return nil, nil
	}
	start, end := transactions[0].Date, transactions[0].Date
	for _, tx := range transactions[1:] {
		if tx.Date.Before(start) {
			start = tx.Date
		}
		if tx.Date.After(end) {
			end = tx.Date
		}
	}
	return &start, &end
}
