package domain

import (
	"time"

	"github.com/google/uuid"
)

// Address is a customer billing address. Country is an ISO 3166-1 alpha-2
// code; the remaining fields are free-form.
type Address struct {
	Line1      string `json:"line1,omitempty"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country"`
}

// TaxID is a customer-provided tax identifier (e.g. an EU VAT number).
type TaxID struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Customer is the owner of a wallet. Billing address and tax ID drive the
// tax computation during top-up; ProcessorCustomerID is the payment
// processor's reference for off-session charges.
type Customer struct {
	ID                  uuid.UUID `json:"id"`
	OrganizationID      uuid.UUID `json:"organization_id"`
	Email               string    `json:"email"`
	Name                string    `json:"name,omitempty"`
	BillingAddress      *Address  `json:"billing_address,omitempty"`
	TaxID               *TaxID    `json:"tax_id,omitempty"`
	ProcessorCustomerID *string   `json:"-"`
	CreatedAt           time.Time `json:"created_at"`

	// Organization is populated by customer reads; wallet operations need
	// the organization's display name for charge descriptions.
	Organization *Organization `json:"-"`
}
