package insights

import (
	"math"

	"github.com/shopspring/decimal"

	"insight-engine/internal/domain"
	"insight-engine/pkg/logger"
)

// Threshold constants for the risk heuristics
var (
	largeDebit        = decimal.NewFromInt(100)
	highFees          = decimal.NewFromInt(100)
	mediumFees        = decimal.NewFromInt(50)
	lowBalance        = decimal.NewFromInt(100)
	mediumRiskBalance = decimal.NewFromInt(200)
	highRiskBalance   = decimal.NewFromInt(50)
)

// Engine reduces one statement's ordered transaction set into aggregate
// financial-health metrics. Compute is deterministic and never mutates its
// input.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// Compute derives income, cash-flow, spending and risk aggregates.
// Transactions must be in date order. Returns domain.ErrEmptyInput for an
// empty set; a zero-valued result is never produced. All monetary outputs
// are rounded to 2 decimal places (half away from zero).
func (e *Engine) Compute(transactions []domain.Transaction, parsing domain.ParsingStats) (*domain.Insights, error) {
	if len(transactions) == 0 {
		return nil, domain.ErrEmptyInput
	}

	logger.GetLogger().WithField("transaction_count", len(transactions)).Debug("Computing insights")

	result := &domain.Insights{
		Income:   e.analyzeIncome(transactions),
		CashFlow: e.analyzeCashFlow(transactions),
		Spending: e.analyzeSpending(transactions),
		Risk:     e.analyzeRisk(transactions),
		Parsing:  buildParsingStats(parsing),
	}

	logger.GetLogger().WithFields(map[string]interface{}{
		"net_cash_flow": result.CashFlow.NetCashFlow,
		"risk_level":    result.Risk.RiskLevel,
	}).Info("Insights computed")

	return result, nil
}

func (e *Engine) analyzeIncome(transactions []domain.Transaction) domain.IncomeAnalysis {
	totalIncome := decimal.Zero
	incomeCount := 0

	for _, tx := range transactions {
		if tx.Direction == domain.Credit {
			totalIncome = totalIncome.Add(tx.Amount)
		}
		if tx.IsIncome {
			incomeCount++
		}
	}

	// Elapsed months approximated as days/30 with a floor of one month.
	// Kept for parity with the upstream calculation, calendar drift and all.
	first := transactions[0].Date
	last := transactions[len(transactions)-1].Date
	days := last.Sub(first).Hours() / 24
	periodMonths := math.Max(1, days/30)

	avgMonthly := totalIncome.Div(decimal.NewFromFloat(periodMonths)).Round(2)

	return domain.IncomeAnalysis{
		TotalIncome:      totalIncome.Round(2),
		AvgMonthlyIncome: avgMonthly,
		PeriodMonths:     periodMonths,
		IncomeCount:      incomeCount,
	}
}

func (e *Engine) analyzeCashFlow(transactions []domain.Transaction) domain.CashFlowAnalysis {
	inflow := decimal.Zero
	outflow := decimal.Zero

	for _, tx := range transactions {
		if tx.Direction == domain.Credit {
			inflow = inflow.Add(tx.Amount)
		} else {
			outflow = outflow.Add(tx.Amount)
		}
	}

	return domain.CashFlowAnalysis{
		TotalInflow:  inflow.Round(2),
		TotalOutflow: outflow.Round(2),
		NetCashFlow:  inflow.Sub(outflow).Round(2),
	}
}

func (e *Engine) analyzeSpending(transactions []domain.Transaction) domain.SpendingBuckets {
	totals := make(map[domain.Category]decimal.Decimal)

	for _, tx := range transactions {
		if tx.Direction != domain.Debit {
			continue
		}
		totals[tx.Category] = totals[tx.Category].Add(tx.Amount)
	}

	bucket := func(c domain.Category) decimal.Decimal {
		return totals[c].Round(2)
	}

	// Anything outside the seven named buckets folds into OTHER
	other := decimal.Zero
	for category, total := range totals {
		switch category {
		case domain.CategoryGroceries, domain.CategoryUtilities, domain.CategoryEntertainment,
			domain.CategoryTransport, domain.CategoryDining, domain.CategoryShopping, domain.CategoryFees:
		default:
			other = other.Add(total)
		}
	}

	return domain.SpendingBuckets{
		Groceries:     bucket(domain.CategoryGroceries),
		Utilities:     bucket(domain.CategoryUtilities),
		Entertainment: bucket(domain.CategoryEntertainment),
		Transport:     bucket(domain.CategoryTransport),
		Dining:        bucket(domain.CategoryDining),
		Shopping:      bucket(domain.CategoryShopping),
		Fees:          bucket(domain.CategoryFees),
		Other:         other.Round(2),
	}
}

func (e *Engine) analyzeRisk(transactions []domain.Transaction) domain.RiskAnalysis {
	minBalance := transactions[0].Balance
	maxBalance := transactions[0].Balance
	balanceSum := decimal.Zero
	overdrafts := 0
	totalFees := decimal.Zero

	for _, tx := range transactions {
		if tx.Balance.LessThan(minBalance) {
			minBalance = tx.Balance
		}
		if tx.Balance.GreaterThan(maxBalance) {
			maxBalance = tx.Balance
		}
		balanceSum = balanceSum.Add(tx.Balance)
		if tx.Balance.IsNegative() {
			overdrafts++
		}
		if tx.Category == domain.CategoryFees {
			totalFees = totalFees.Add(tx.Amount)
		}
	}

	avgBalance := balanceSum.Div(decimal.NewFromInt(int64(len(transactions)))).Round(2)
	bounced := countBouncedPayments(transactions)

	flags := make([]string, 0)
	if overdrafts > 0 {
		flags = append(flags, "overdrafts")
	}
	if bounced > 0 {
		flags = append(flags, "bounced payments")
	}
	if totalFees.GreaterThan(highFees) {
		flags = append(flags, "high fees")
	}
	if avgBalance.LessThan(lowBalance) {
		flags = append(flags, "low average balance")
	}
	if hasVolatileSpending(transactions) {
		flags = append(flags, "volatile spending")
	}

	return domain.RiskAnalysis{
		MinBalance:      minBalance.Round(2),
		MaxBalance:      maxBalance.Round(2),
		AvgDailyBalance: avgBalance,
		OverdraftCount:  overdrafts,
		BouncedPayments: bounced,
		TotalFees:       totalFees.Round(2),
		RiskLevel:       classifyRisk(overdrafts, bounced, avgBalance, totalFees),
		RiskFlags:       flags,
	}
}

// countBouncedPayments scans adjacent pairs: a large debit leaving a
// negative balance followed by a fees entry counts as one bounce
func countBouncedPayments(transactions []domain.Transaction) int {
	count := 0
	for i := 0; i+1 < len(transactions); i++ {
		tx := transactions[i]
		if tx.Direction != domain.Debit {
			continue
		}
		if !tx.Amount.GreaterThan(largeDebit) || !tx.Balance.IsNegative() {
			continue
		}
		if transactions[i+1].Category == domain.CategoryFees {
			count++
		}
	}
	return count
}

// hasVolatileSpending reports whether more than 10% of debits exceed
// three times the mean debit magnitude
func hasVolatileSpending(transactions []domain.Transaction) bool {
	debitSum := decimal.Zero
	debitCount := 0
	for _, tx := range transactions {
		if tx.Direction == domain.Debit {
			debitSum = debitSum.Add(tx.Amount)
			debitCount++
		}
	}
	if debitCount == 0 {
		return false
	}

	threshold := debitSum.Div(decimal.NewFromInt(int64(debitCount))).Mul(decimal.NewFromInt(3))
	spikes := 0
	for _, tx := range transactions {
		if tx.Direction == domain.Debit && tx.Amount.GreaterThan(threshold) {
			spikes++
		}
	}

	return spikes*10 > debitCount
}

// classifyRisk evaluates the tiers in order; the first match wins
func classifyRisk(overdrafts, bounced int, avgBalance, totalFees decimal.Decimal) domain.RiskLevel {
	if overdrafts > 5 || bounced > 2 || avgBalance.LessThan(highRiskBalance) {
		return domain.RiskHigh
	}
	if overdrafts > 2 || bounced > 0 || avgBalance.LessThan(mediumRiskBalance) || totalFees.GreaterThan(mediumFees) {
		return domain.RiskMedium
	}
	return domain.RiskLow
}

func buildParsingStats(parsing domain.ParsingStats) domain.ParsingStats {
	rate := decimal.Zero
	if parsing.TotalRows > 0 {
		rate = decimal.NewFromInt(int64(parsing.SuccessfulRows)).
			Div(decimal.NewFromInt(int64(parsing.TotalRows))).
			Round(4)
	}
	return domain.ParsingStats{
		TotalRows:      parsing.TotalRows,
		SuccessfulRows: parsing.SuccessfulRows,
		FailedRows:     parsing.FailedRows,
		SuccessRate:    rate,
	}
}
