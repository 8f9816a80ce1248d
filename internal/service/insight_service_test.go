package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"insight-engine/internal/domain"
)

type fakeInsightRepo struct {
	stored map[uuid.UUID]*domain.Insights
	saves  int
}

func newFakeInsightRepo() *fakeInsightRepo {
	return &fakeInsightRepo{stored: make(map[uuid.UUID]*domain.Insights)}
}

func (f *fakeInsightRepo) FindByStatement(statementID uuid.UUID) (*domain.Insights, error) {
	return f.stored[statementID], nil
}

func (f *fakeInsightRepo) Save(insights *domain.Insights) (*domain.Insights, error) {
	f.saves++
	if existing, ok := f.stored[insights.StatementID]; ok {
		return existing, nil
	}
	f.stored[insights.StatementID] = insights
	return insights, nil
}

func processedStatement(statementID uuid.UUID, successful int) *domain.Statement {
	return &domain.Statement{
		StatementID:    statementID,
		Status:         domain.StatementProcessed,
		TotalRows:      successful,
		SuccessfulRows: successful,
	}
}

func sampleTransactions(statementID uuid.UUID) []domain.Transaction {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return []domain.Transaction{
		{
			StatementID: statementID,
			Date:        base,
			Amount:      decimal.RequireFromString("5000.00"),
			Balance:     decimal.RequireFromString("5000.00"),
			Direction:   domain.Credit,
			Category:    domain.CategoryOther,
		},
		{
			StatementID: statementID,
			Date:        base.AddDate(0, 0, 10),
			Amount:      decimal.RequireFromString("120.50"),
			Balance:     decimal.RequireFromString("4879.50"),
			Direction:   domain.Debit,
			Category:    domain.CategoryGroceries,
		},
	}
}

func TestGetOrCompute_ComputesOnce(t *testing.T) {
	statementID := uuid.New()
	statementRepo := newFakeStatementRepo()
	statementRepo.statements[statementID] = processedStatement(statementID, 2)
	txRepo := newFakeTransactionRepo()
	txRepo.byStatement[statementID] = sampleTransactions(statementID)
	insightRepo := newFakeInsightRepo()

	svc := NewInsightService(statementRepo, txRepo, insightRepo)

	first, err := svc.GetOrCompute(statementID)
	assert.NoError(t, err)
	assert.NotNil(t, first)
	assert.Equal(t, statementID, first.StatementID)
	assert.True(t, first.CashFlow.NetCashFlow.Equal(decimal.RequireFromString("4879.50")))

	second, err := svc.GetOrCompute(statementID)
	assert.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, insightRepo.saves)
}

func TestGetOrCompute_RequiresProcessedStatement(t *testing.T) {
	statementID := uuid.New()
	statementRepo := newFakeStatementRepo()
	statementRepo.statements[statementID] = &domain.Statement{
		StatementID: statementID,
		Status:      domain.StatementProcessing,
	}

	svc := NewInsightService(statementRepo, newFakeTransactionRepo(), newFakeInsightRepo())

	_, err := svc.GetOrCompute(statementID)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not processed")
}

func TestGetOrCompute_EmptyTransactionsIsTerminal(t *testing.T) {
	statementID := uuid.New()
	statementRepo := newFakeStatementRepo()
	statementRepo.statements[statementID] = processedStatement(statementID, 0)

	svc := NewInsightService(statementRepo, newFakeTransactionRepo(), newFakeInsightRepo())

	insights, err := svc.GetOrCompute(statementID)

	assert.Nil(t, insights)
	assert.ErrorIs(t, err, domain.ErrEmptyInput)
}

func TestRun_ConsumesReadySignals(t *testing.T) {
	statementID := uuid.New()
	statementRepo := newFakeStatementRepo()
	statementRepo.statements[statementID] = processedStatement(statementID, 2)
	txRepo := newFakeTransactionRepo()
	txRepo.byStatement[statementID] = sampleTransactions(statementID)
	insightRepo := newFakeInsightRepo()

	svc := NewInsightService(statementRepo, txRepo, insightRepo)

	ready := make(chan uuid.UUID, 1)
	ready <- statementID
	close(ready)

	svc.Run(context.Background(), ready)

	assert.Equal(t, 1, insightRepo.saves)
	assert.NotNil(t, insightRepo.stored[statementID])
}

func TestRun_FailureSurfacesThroughStatementStatus(t *testing.T) {
	statementID := uuid.New()
	statementRepo := newFakeStatementRepo()
	// Processed but with no persisted transactions: computation must fail
	statementRepo.statements[statementID] = processedStatement(statementID, 0)

	svc := NewInsightService(statementRepo, newFakeTransactionRepo(), newFakeInsightRepo())

	ready := make(chan uuid.UUID, 1)
	ready <- statementID
	close(ready)

	svc.Run(context.Background(), ready)

	statement := statementRepo.statements[statementID]
	assert.Equal(t, domain.StatementFailed, statement.Status)
	assert.NotNil(t, statement.ErrorMessage)
	assert.Contains(t, *statement.ErrorMessage, "insight computation failed")
}
