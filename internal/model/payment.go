package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus enumerates the state of an individual ledger entry.
// Refund rows are created directly in PaymentCompleted with a negative
// amount; charge rows start in PaymentPending.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
	PaymentCancelled PaymentStatus = "cancelled"
)

// Valid reports whether s is a known payment status.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentFailed,
		PaymentRefunded, PaymentCancelled:
		return true
	}
	return false
}

// PaymentMethod enumerates accepted payment instruments.
type PaymentMethod string

const (
	MethodCreditCard   PaymentMethod = "credit_card"
	MethodDebitCard    PaymentMethod = "debit_card"
	MethodPaypal       PaymentMethod = "paypal"
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodCash         PaymentMethod = "cash"
)

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCreditCard, MethodDebitCard, MethodPaypal,
		MethodBankTransfer, MethodCash:
		return true
	}
	return false
}

// Payment is one entry in a reservation's append-only payment ledger.
// Amount is positive for a charge and negative for a refund record.
// PaymentID is the externally visible identifier ("PAY-..." for
// charges, "REF-..." for refunds) and is unique across the table.
// GatewayResponse is stored as opaque JSON and rendered verbatim, not
// as a base64 blob.
type Payment struct {
	ID              uint64          `json:"id"`
	ReservationID   uint64          `json:"reservation_id"`
	PaymentID       string          `json:"payment_id"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	Method          PaymentMethod   `json:"payment_method"`
	Status          PaymentStatus   `json:"status"`
	Gateway         string          `json:"gateway"`
	GatewayResponse json.RawMessage `json:"gateway_response,omitempty"`
	ProcessedAt     *time.Time      `json:"processed_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// Refund reports whether the entry is a refund record.
func (p *Payment) Refund() bool { return p.Amount.IsNegative() }
