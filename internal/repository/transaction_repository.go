package repository

import (
	"database/sql"

	"github.com/google/uuid"

	"insight-engine/internal/domain"
	"insight-engine/pkg/logger"
)

type TransactionRepository interface {
	BulkCreate(statementID uuid.UUID, transactions []domain.Transaction) error
	FindByStatementOrderedByDate(statementID uuid.UUID) ([]domain.Transaction, error)
}

type transactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

// BulkCreate inserts one chunk of a statement's batch inside a transaction.
// Chunking is the caller's concern; chunk boundaries never change totals.
func (r *transactionRepository) BulkCreate(statementID uuid.UUID, transactions []domain.Transaction) error {
	if len(transactions) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to begin transaction")
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO transactions (
			statement_id, ordinal, date, description, amount, direction,
			balance, category, category_confidence, is_income, raw_payload
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`)
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to prepare statement")
		return err
	}
	defer stmt.Close()

	for _, transaction := range transactions {
		_, err = stmt.Exec(
			statementID,
			transaction.Ordinal,
			transaction.Date,
			transaction.Description,
			transaction.Amount,
			transaction.Direction,
			transaction.Balance,
			transaction.Category,
			transaction.CategoryConfidence,
			transaction.IsIncome,
			transaction.RawPayload,
		)
		if err != nil {
			logger.GetLogger().WithError(err).WithField("ordinal", transaction.Ordinal).Error("Failed to insert transaction")
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		logger.GetLogger().WithError(err).Error("Failed to commit transaction")
		return err
	}

	return nil
}

func (r *transactionRepository) FindByStatementOrderedByDate(statementID uuid.UUID) ([]domain.Transaction, error) {
	query := `
		SELECT id, statement_id, ordinal, date, description, amount, direction,
		       balance, category, category_confidence, is_income, raw_payload, created_at
		FROM transactions
		WHERE statement_id = $1
		ORDER BY date, ordinal
	`

	rows, err := r.db.Query(query, statementID)
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to query transactions")
		return nil, err
	}
	defer rows.Close()

	var transactions []domain.Transaction
	for rows.Next() {
		var transaction domain.Transaction
		err := rows.Scan(
			&transaction.ID,
			&transaction.StatementID,
			&transaction.Ordinal,
			&transaction.Date,
			&transaction.Description,
			&transaction.Amount,
			&transaction.Direction,
			&transaction.Balance,
			&transaction.Category,
			&transaction.CategoryConfidence,
			&transaction.IsIncome,
			&transaction.RawPayload,
			&transaction.CreatedAt,
		)
		if err != nil {
			logger.GetLogger().WithError(err).Error("Failed to scan transaction")
			return nil, err
		}
		transactions = append(transactions, transaction)
	}

	return transactions, rows.Err()
}
