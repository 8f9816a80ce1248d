package parser

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"insight-engine/internal/categorizer"
	"insight-engine/internal/domain"
)

// Accepted column-name aliases per logical field, tried in order. The first
// alias present in the header with a non-empty cell wins.
var (
	dateAliases        = []string{"date", "Date", "DATE", "transaction_date", "TransactionDate"}
	descriptionAliases = []string{"description", "Description", "DESCRIPTION", "memo", "Memo", "details", "Details"}
	amountAliases      = []string{"amount", "Amount", "AMOUNT", "value", "Value"}
	balanceAliases     = []string{"balance", "Balance", "BALANCE", "running_balance", "RunningBalance"}
)

// amountCleaner strips currency symbols, thousands separators and whitespace
// before numeric parsing
var amountCleaner = strings.NewReplacer("$", "", "€", "", "£", "", "¥", "", ",", "", " ", "")

var dateFormats = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"02/01/2006",
	"01/02/2006",
	"2006/01/02",
	time.RFC3339,
}

// Layout describes one statement's header row
type Layout struct {
	Header  []string
	columns map[string]int
}

// NewLayout maps header columns to their positions
func NewLayout(header []string) *Layout {
	columns := make(map[string]int, len(header))
	for i, col := range header {
		columns[strings.TrimSpace(col)] = i
	}
	return &Layout{Header: header, columns: columns}
}

// Validate checks that the header can resolve every required field
func (l *Layout) Validate() error {
	required := map[string][]string{
		"date":        dateAliases,
		"description": descriptionAliases,
		"amount":      amountAliases,
	}
	for field, aliases := range required {
		if !l.hasAny(aliases) {
			return fmt.Errorf("missing required column for %s (accepted: %s)", field, strings.Join(aliases, ", "))
		}
	}
	return nil
}

func (l *Layout) hasAny(aliases []string) bool {
	for _, alias := range aliases {
		if _, ok := l.columns[alias]; ok {
			return true
		}
	}
	return false
}

// resolve returns the first present, non-empty cell among the aliases
func (l *Layout) resolve(record []string, aliases []string) (string, bool) {
	for _, alias := range aliases {
		idx, ok := l.columns[alias]
		if !ok || idx >= len(record) {
			continue
		}
		if value := strings.TrimSpace(record[idx]); value != "" {
			return value, true
		}
	}
	return "", false
}

// RowParser turns raw statement rows into typed transactions
type RowParser struct {
	categorizer *categorizer.Categorizer
}

func NewRowParser(c *categorizer.Categorizer) *RowParser {
	return &RowParser{categorizer: c}
}

// ParseRow normalizes one record. It is a pure function of its inputs.
// A row whose date, description or amount cannot be resolved returns
// (nil, nil) and is counted as skipped; unparseable date or amount values
// return a *domain.ParseRowError. Neither outcome aborts the batch.
func (p *RowParser) ParseRow(layout *Layout, record []string, ordinal int) (*domain.Transaction, error) {
	dateStr, ok := layout.resolve(record, dateAliases)
	if !ok {
		return nil, nil
	}
	description, ok := layout.resolve(record, descriptionAliases)
	if !ok {
		return nil, nil
	}
	amountStr, ok := layout.resolve(record, amountAliases)
	if !ok {
		return nil, nil
	}

	date, err := parseDate(dateStr)
	if err != nil {
		return nil, &domain.ParseRowError{Line: ordinal, Field: "date", Value: dateStr}
	}

	amount, err := decimal.NewFromString(amountCleaner.Replace(amountStr))
	if err != nil {
		return nil, &domain.ParseRowError{Line: ordinal, Field: "amount", Value: amountStr}
	}

	direction := domain.Credit
	if amount.IsNegative() {
		direction = domain.Debit
	}

	// Balance defaults to zero instead of failing the row
	balance := decimal.Zero
	if balanceStr, ok := layout.resolve(record, balanceAliases); ok {
		if parsed, err := decimal.NewFromString(amountCleaner.Replace(balanceStr)); err == nil {
			balance = parsed
		}
	}

	category, confidence := p.categorizer.Categorize(description)

	isIncome := false
	if direction == domain.Credit {
		isIncome = p.categorizer.IsIncome(description)
	}

	return &domain.Transaction{
		Ordinal:            ordinal,
		Date:               date,
		Description:        description,
		Amount:             amount.Abs(),
		Direction:          direction,
		Balance:            balance,
		Category:           category,
		CategoryConfidence: confidence,
		IsIncome:           isIncome,
		RawPayload:         serializeRow(layout.Header, record),
	}, nil
}

func parseDate(dateStr string) (time.Time, error) {
	for _, format := range dateFormats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
}

// serializeRow keeps the original row for audit
func serializeRow(header []string, record []string) string {
	row := make(map[string]string, len(header))
	for i, col := range header {
		if i < len(record) {
			row[strings.TrimSpace(col)] = record[i]
		}
	}
	payload, err := json.Marshal(row)
	if err != nil {
		return ""
	}
	return string(payload)
}
