package domain

import (
	"time"

	"github.com/google/uuid"
)

// Refund is an order refund whose amount is taken back out of the customer's
// wallet. Refund-type ledger entries link to both the refund and its order.
type Refund struct {
	ID        uuid.UUID `json:"id"`
	OrderID   uuid.UUID `json:"order_id"`
	Amount    int64     `json:"amount"` // Positive, minor currency units
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"created_at"`
}
