package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"insight-engine/internal/domain"
)

type stubChecker struct {
	outcome *domain.CreditCheckOutcome
	calls   int
}

func (s *stubChecker) CheckCredit(ctx context.Context, req domain.CreditCheckRequest) *domain.CreditCheckOutcome {
	s.calls++
	return s.outcome
}

func TestCheckCredit_RequiresEmail(t *testing.T) {
	checker := &stubChecker{}
	svc := NewCreditCheckService(checker)

	_, err := svc.CheckCredit(context.Background(), domain.CreditCheckRequest{Email: "  "})

	assert.Error(t, err)
	assert.Equal(t, 0, checker.calls)
}

func TestCheckCredit_DelegatesToChecker(t *testing.T) {
	checker := &stubChecker{outcome: &domain.CreditCheckOutcome{Success: true, StatusCode: 200}}
	svc := NewCreditCheckService(checker)

	outcome, err := svc.CheckCredit(context.Background(), domain.CreditCheckRequest{Email: "a@b.com"})

	assert.NoError(t, err)
	assert.True(t, outcome.Success)
	assert.Equal(t, 1, checker.calls)
}
