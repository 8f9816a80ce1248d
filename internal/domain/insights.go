package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RiskLevel is the tiered overall risk classification
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// IncomeAnalysis summarizes credited income over the statement period
type IncomeAnalysis struct {
	TotalIncome      decimal.Decimal `json:"total_income"`
	AvgMonthlyIncome decimal.Decimal `json:"avg_monthly_income"`
	PeriodMonths     float64         `json:"period_months"`
	IncomeCount      int             `json:"income_count"`
}

// CashFlowAnalysis summarizes inflow vs outflow
type CashFlowAnalysis struct {
	TotalInflow  decimal.Decimal `json:"total_inflow"`
	TotalOutflow decimal.Decimal `json:"total_outflow"`
	NetCashFlow  decimal.Decimal `json:"net_cash_flow"`
}

// SpendingBuckets holds debit totals per category, with a catch-all for
// anything not mapped to a named bucket
type SpendingBuckets struct {
	Groceries     decimal.Decimal `json:"groceries"`
	Utilities     decimal.Decimal `json:"utilities"`
	Entertainment decimal.Decimal `json:"entertainment"`
	Transport     decimal.Decimal `json:"transport"`
	Dining        decimal.Decimal `json:"dining"`
	Shopping      decimal.Decimal `json:"shopping"`
	Fees          decimal.Decimal `json:"fees"`
	Other         decimal.Decimal `json:"other"`
}

// RiskAnalysis holds balance statistics, heuristic counters and the derived
// risk level
type RiskAnalysis struct {
	MinBalance      decimal.Decimal `json:"min_balance"`
	MaxBalance      decimal.Decimal `json:"max_balance"`
	AvgDailyBalance decimal.Decimal `json:"avg_daily_balance"`
	OverdraftCount  int             `json:"overdraft_count"`
	BouncedPayments int             `json:"bounced_payments"`
	TotalFees       decimal.Decimal `json:"total_fees"`
	RiskLevel       RiskLevel       `json:"risk_level"`
	RiskFlags       []string        `json:"risk_flags"`
}

// ParsingStats echoes the row counts of the ingestion that produced the batch
type ParsingStats struct {
	TotalRows      int             `json:"total_rows"`
	SuccessfulRows int             `json:"successful_rows"`
	FailedRows     int             `json:"failed_rows"`
	SuccessRate    decimal.Decimal `json:"success_rate"`
}

// Insights is the aggregate record computed once per statement.
// It is write-once: repeated requests return the stored value.
type Insights struct {
	StatementID uuid.UUID        `json:"statement_id"`
	Income      IncomeAnalysis   `json:"income"`
	CashFlow    CashFlowAnalysis `json:"cash_flow"`
	Spending    SpendingBuckets  `json:"spending"`
	Risk        RiskAnalysis     `json:"risk"`
	Parsing     ParsingStats     `json:"parsing"`
	ComputedAt  time.Time        `json:"computed_at"`
}
