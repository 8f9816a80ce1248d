package repository

import (
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"

	"insight-engine/internal/domain"
	"insight-engine/pkg/logger"
)

type InsightRepository interface {
	// FindByStatement returns the stored insights, or nil when none exist
	FindByStatement(statementID uuid.UUID) (*domain.Insights, error)
	// Save stores the insights unless a row already exists and returns
	// whatever ended up stored. Racing first computations are serialized by
	// the statement_id uniqueness constraint; there is no blind insert.
	Save(insights *domain.Insights) (*domain.Insights, error)
}

type insightRepository struct {
	db *sql.DB
}

func NewInsightRepository(db *sql.DB) InsightRepository {
	return &insightRepository{db: db}
}

func (r *insightRepository) FindByStatement(statementID uuid.UUID) (*domain.Insights, error) {
	query := `
		SELECT payload
		FROM insights
		WHERE statement_id = $1
	`

	var payload []byte
	err := r.db.QueryRow(query, statementID).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to get insights")
		return nil, err
	}

	var insights domain.Insights
	if err := json.Unmarshal(payload, &insights); err != nil {
		logger.GetLogger().WithError(err).Error("Failed to decode stored insights")
		return nil, err
	}

	return &insights, nil
}

func (r *insightRepository) Save(insights *domain.Insights) (*domain.Insights, error) {
	payload, err := json.Marshal(insights)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO insights (statement_id, payload)
		VALUES ($1, $2)
		ON CONFLICT (statement_id) DO NOTHING
	`

	if _, err := r.db.Exec(query, insights.StatementID, payload); err != nil {
		logger.GetLogger().WithError(err).Error("Failed to save insights")
		return nil, err
	}

	// Re-read so a lost race returns the winner's record
	return r.FindByStatement(insights.StatementID)
}
