package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"insight-engine/internal/domain"
	"insight-engine/pkg/logger"
)

type StatementRepository interface {
	Create(statement *domain.Statement) error
	GetByStatementID(statementID uuid.UUID) (*domain.Statement, error)
	UpdateStatus(statementID uuid.UUID, status domain.StatementStatus, total, successful, failed int, periodStart, periodEnd *time.Time, errorMessage *string) error
}

type statementRepository struct {
	db *sql.DB
}

func NewStatementRepository(db *sql.DB) StatementRepository {
	return &statementRepository{db: db}
}

func (r *statementRepository) Create(statement *domain.Statement) error {
	query := `
		INSERT INTO statements (statement_id, file_name, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		query,
		statement.StatementID,
		statement.FileName,
		statement.Status,
	).Scan(&statement.ID, &statement.CreatedAt, &statement.UpdatedAt)

	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to create statement")
		return err
	}

	return nil
}

func (r *statementRepository) GetByStatementID(statementID uuid.UUID) (*domain.Statement, error) {
	query := `
		SELECT id, statement_id, file_name, status, total_rows, successful_rows, failed_rows,
		       period_start, period_end, error_message, created_at, updated_at
		FROM statements
		WHERE statement_id = $1
	`

	var statement domain.Statement
	err := r.db.QueryRow(query, statementID).Scan(
		&statement.ID,
		&statement.StatementID,
		&statement.FileName,
		&statement.Status,
		&statement.TotalRows,
		&statement.SuccessfulRows,
		&statement.FailedRows,
		&statement.PeriodStart,
		&statement.PeriodEnd,
		&statement.ErrorMessage,
		&statement.CreatedAt,
		&statement.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("statement not found")
	}
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to get statement")
		return nil, err
	}

	return &statement, nil
}

func (r *statementRepository) UpdateStatus(
	statementID uuid.UUID,
	status domain.StatementStatus,
	total, successful, failed int,
	periodStart, periodEnd *time.Time,
	errorMessage *string,
) error {
	query := `
		UPDATE statements
		SET status = $1, total_rows = $2, successful_rows = $3, failed_rows = $4,
		    period_start = $5, period_end = $6, error_message = $7, updated_at = NOW()
		WHERE statement_id = $8
	`

	_, err := r.db.Exec(query, status, total, successful, failed, periodStart, periodEnd, errorMessage, statementID)
	if err != nil {
		logger.GetLogger().WithError(err).WithField("statement_id", statementID).Error("Failed to update statement status")
		return err
	}

	return nil
}
