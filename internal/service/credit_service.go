package service

import (
	"context"
	"fmt"
	"strings"

	"insight-engine/internal/domain"
)

// CreditChecker is the outbound credit bureau call
type CreditChecker interface {
	CheckCredit(ctx context.Context, req domain.CreditCheckRequest) *domain.CreditCheckOutcome
}

type CreditCheckService interface {
	CheckCredit(ctx context.Context, req domain.CreditCheckRequest) (*domain.CreditCheckOutcome, error)
}

type creditCheckService struct {
	checker CreditChecker
}

func NewCreditCheckService(checker CreditChecker) CreditCheckService {
	return &creditCheckService{checker: checker}
}

func (s *creditCheckService) CheckCredit(ctx context.Context, req domain.CreditCheckRequest) (*domain.CreditCheckOutcome, error) {
	if strings.TrimSpace(req.Email) == "" {
		return nil, fmt.Errorf("email is required")
	}

	return s.checker.CheckCredit(ctx, req), nil
}
