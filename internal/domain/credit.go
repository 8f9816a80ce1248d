package domain

import "time"

// CreditCheckRequest is the outbound credit bureau enquiry
type CreditCheckRequest struct {
	Email       string                 `json:"email"`
	ExternalRef string                 `json:"external_ref,omitempty"`
	Payload     map[string]interface{} `json:"payload,omitempty"`
}

// CreditReport is the bureau's success response
type CreditReport struct {
	Score       int    `json:"score"`
	RiskBand    string `json:"risk_band"`
	Enquiries6M int    `json:"enquiries_6m"`
	Defaults    int    `json:"defaults"`
	OpenLoans   int    `json:"open_loans"`
	TradeLines  int    `json:"trade_lines"`
	ReferenceID string `json:"reference_id"`
	Timestamp   string `json:"timestamp"`
}

// CreditCheckOutcome is the result of one logical credit check, constructed
// fresh per call and never persisted
type CreditCheckOutcome struct {
	Success      bool          `json:"success"`
	Report       *CreditReport `json:"report,omitempty"`
	ErrorMessage string        `json:"error_message,omitempty"`
	StatusCode   int           `json:"status_code"`
	Elapsed      time.Duration `json:"elapsed_ms"`
	Attempts     int           `json:"attempts"`
	RetryCount   int           `json:"retry_count"`
}
