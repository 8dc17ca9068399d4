package domain

import (
	"time"

	"github.com/google/uuid"
)

// WalletTransactionType tags a ledger entry with the kind of balance change.
type WalletTransactionType string

const (
	WalletTransactionTypeCredit WalletTransactionType = "credit"
	WalletTransactionTypeDebit  WalletTransactionType = "debit"
	WalletTransactionTypeRefund WalletTransactionType = "refund"
	// WalletTransactionTypeDispute exists for stored data written by the
	// dispute pipeline; no operation in this service emits it.
	WalletTransactionTypeDispute WalletTransactionType = "dispute"
)

// WalletTransaction is an immutable, signed ledger entry. Credits carry a
// positive amount, debits and refunds a negative one. The wallet balance at
// any point in time is the sum of its transactions' amounts; entries are
// never mutated or deleted.
type WalletTransaction struct {
	ID       uuid.UUID             `json:"id"`
	WalletID uuid.UUID             `json:"wallet_id"`
	Type     WalletTransactionType `json:"type"`
	Currency string                `json:"currency"`
	Amount   int64                 `json:"amount"` // Signed, minor currency units

	// Tax metadata, set on credits created by a top-up.
	TaxAmount                 *int64  `json:"tax_amount,omitempty"`
	TaxCalculationProcessorID *string `json:"tax_calculation_processor_id,omitempty"`

	// Order/refund references, set on refund-type entries.
	OrderID  *uuid.UUID `json:"order_id,omitempty"`
	RefundID *uuid.UUID `json:"refund_id,omitempty"`

	Timestamp time.Time `json:"timestamp"`
}

// IsDebitLike reports whether the entry decreases the balance.
func (t *WalletTransaction) IsDebitLike() bool {
	return t.Type == WalletTransactionTypeDebit || t.Type == WalletTransactionTypeRefund
}
