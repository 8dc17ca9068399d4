package domain

import (
	"time"

	"github.com/google/uuid"
)

// Wallet is a customer's prepaid balance account. There is at most one wallet
// per customer, and its currency is fixed at creation.
//
// Balance is derived from the transaction ledger (sum of signed amounts);
// it is never stored as a column of its own.
type Wallet struct {
	ID             uuid.UUID `json:"id"`
	CustomerID     uuid.UUID `json:"customer_id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	Currency       string    `json:"currency"`
	Balance        int64     `json:"balance"` // In minor currency units (e.g. cents)
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
