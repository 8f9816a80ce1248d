package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Direction classifies the signed amount of a statement row
type Direction string

const (
	Debit  Direction = "DEBIT"
	Credit Direction = "CREDIT"
)

// Category is a fixed spending classification assigned by keyword match
type Category string

const (
	CategoryGroceries     Category = "GROCERIES"
	CategoryUtilities     Category = "UTILITIES"
	CategoryEntertainment Category = "ENTERTAINMENT"
	CategoryTransport     Category = "TRANSPORT"
	CategoryDining        Category = "DINING"
	CategoryShopping      Category = "SHOPPING"
	CategoryFees          Category = "FEES"
	CategoryOther         Category = "OTHER"
)

// Transaction represents one normalized statement row.
// Amount is always the absolute magnitude; the sign lives in Direction.
// Instances are owned by the statement batch that produced them and are
// immutable after creation.
type Transaction struct {
	ID                 int             `json:"id" db:"id"`
	StatementID        uuid.UUID       `json:"statement_id" db:"statement_id"`
	Ordinal            int             `json:"ordinal" db:"ordinal"`
	Date               time.Time       `json:"date" db:"date"`
	Description        string          `json:"description" db:"description"`
	Amount             decimal.Decimal `json:"amount" db:"amount"`
	Direction          Direction       `json:"direction" db:"direction"`
	Balance            decimal.Decimal `json:"balance" db:"balance"`
	Category           Category        `json:"category" db:"category"`
	CategoryConfidence float64         `json:"category_confidence" db:"category_confidence"`
	IsIncome           bool            `json:"is_income" db:"is_income"`
	RawPayload         string          `json:"raw_payload" db:"raw_payload"`
	CreatedAt          time.Time       `json:"created_at" db:"created_at"`
}
