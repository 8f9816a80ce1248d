package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"insight-engine/internal/domain"
	"insight-engine/internal/insights"
	"insight-engine/internal/repository"
	"insight-engine/pkg/logger"
)

type InsightService interface {
	// GetOrCompute returns the stored insights for a statement, computing
	// and storing them on first request. Recomputation never happens once
	// a value exists.
	GetOrCompute(statementID uuid.UUID) (*domain.Insights, error)
	// Run consumes statement-ready signals until the context is cancelled
	Run(ctx context.Context, ready <-chan uuid.UUID)
}

type insightService struct {
	statementRepo repository.StatementRepository
	txRepo        repository.TransactionRepository
	insightRepo   repository.InsightRepository
	engine        *insights.Engine
}

func NewInsightService(
	statementRepo repository.StatementRepository,
	txRepo repository.TransactionRepository,
	insightRepo repository.InsightRepository,
) InsightService {
	return &insightService{
		statementRepo: statementRepo,
		txRepo:        txRepo,
		insightRepo:   insightRepo,
		engine:        insights.NewEngine(),
	}
}

func (s *insightService) GetOrCompute(statementID uuid.UUID) (*domain.Insights, error) {
	existing, err := s.insightRepo.FindByStatement(statementID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	statement, err := s.statementRepo.GetByStatementID(statementID)
	if err != nil {
		return nil, err
	}
	if statement.Status != domain.StatementProcessed {
		return nil, fmt.Errorf("statement %s is not processed (status %s)", statementID, statement.Status)
	}

	transactions, err := s.txRepo.FindByStatementOrderedByDate(statementID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	computed, err := s.engine.Compute(transactions, domain.ParsingStats{
		TotalRows:      statement.TotalRows,
		SuccessfulRows: statement.SuccessfulRows,
		FailedRows:     statement.FailedRows,
	})
	if err != nil {
		return nil, err
	}

	computed.StatementID = statementID
	computed.ComputedAt = time.Now().UTC()

	// Save is find-or-create: a racing computation returns the stored winner
	return s.insightRepo.Save(computed)
}

// Run is the computation stage behind the ingestion handoff. Failures are
// surfaced through the statement status instead of a side-channel log.
func (s *insightService) Run(ctx context.Context, ready <-chan uuid.UUID) {
	for {
		select {
		case <-ctx.Done():
			return
		case statementID, ok := <-ready:
			if !ok {
				return
			}
			if _, err := s.GetOrCompute(statementID); err != nil {
				logger.GetLogger().WithError(err).WithField("statement_id", statementID).Error("Insight computation failed")
				s.markFailed(statementID, err)
			}
		}
	}
}

func (s *insightService) markFailed(statementID uuid.UUID, cause error) {
	statement, err := s.statementRepo.GetByStatementID(statementID)
	if err != nil {
		return
	}

	message := fmt.Sprintf("insight computation failed: %v", cause)
	err = s.statementRepo.UpdateStatus(
		statementID, domain.StatementFailed,
		statement.TotalRows, statement.SuccessfulRows, statement.FailedRows,
		statement.PeriodStart, statement.PeriodEnd, &message,
	)
	if err != nil {
		logger.GetLogger().WithError(err).WithField("statement_id", statementID).Error("Failed to record computation failure")
	}
}
