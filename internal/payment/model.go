package payment

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Normalized statuses.
const (
	StatusSuccessful       = "successful"
	StatusPending          = "pending"
	StatusFailed           = "failed"
	StatusMissingReference = "missing_reference"
)

// ChargeRequest is a mobile money charge.
type ChargeRequest struct {
	Reference string          `json:"reference"`
	Phone     string          `json:"phone"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Email     string          `json:"email"`
	Name      string          `json:"name"`

	// Network overrides the configured network.
	Network string `json:"network,omitempty"`
}

// ChargeResult is the normalized answer to a charge.
type ChargeResult struct {
	Status                string          `json:"status"`
	Message               string          `json:"message"`
	Reference             string          `json:"reference"`
	ProviderTransactionID string          `json:"provider_transaction_id"`
	RawData               json.RawMessage `json:"raw_data,omitempty"`
}

// Verification is the normalized state of a transaction.
type Verification struct {
	Success               bool            `json:"success"`
	Status                string          `json:"status"`
	Amount                decimal.Decimal `json:"amount"`
	Currency              string          `json:"currency"`
	Reference             string          `json:"reference"`
	ProviderTransactionID string          `json:"provider_transaction_id"`
	RawData               json.RawMessage `json:"raw_data,omitempty"`
}

// Final reports whether the status will not change anymore.
func (v *Verification) Final() bool {
	return v.Status == StatusSuccessful || v.Status == StatusFailed
}

// MissingReference is the result of verifying an empty reference.
func MissingReference() *Verification {
	return &Verification{Success: false, Status: StatusMissingReference}
}
