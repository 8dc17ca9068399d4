package domain

import (
	"time"

	"github.com/google/uuid"
)

// PaymentProcessor identifies the external processor holding a stored
// payment method.
type PaymentProcessor string

const (
	PaymentProcessorStripe PaymentProcessor = "stripe"
)

// PaymentMethod is a stored payment method belonging to a customer.
// ProcessorID is the processor-side reference used for off-session charges.
type PaymentMethod struct {
	ID          uuid.UUID        `json:"id"`
	CustomerID  uuid.UUID        `json:"customer_id"`
	Processor   PaymentProcessor `json:"processor"`
	ProcessorID string           `json:"-"`
	Type        string           `json:"type"` // e.g. "card"
	Default     bool             `json:"default"`
	CreatedAt   time.Time        `json:"created_at"`
}
