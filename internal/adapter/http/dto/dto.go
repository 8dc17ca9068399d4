package dto

import (
	"strings"
	"time"

	"customer-wallet-service/internal/core/domain"
	"customer-wallet-service/internal/core/ports"

	"github.com/google/uuid"
)

// CreateWalletRequest is the payload of POST /wallets.
type CreateWalletRequest struct {
	CustomerID uuid.UUID `json:"customer_id" binding:"required"`
}

// TopUpRequest is the payload of POST /wallets/:id/top-up. PaymentMethodID
// is optional; the customer's default method is used when omitted.
type TopUpRequest struct {
	Amount          int64      `json:"amount" binding:"required,gt=0"`
	PaymentMethodID *uuid.UUID `json:"payment_method_id,omitempty"`
}

// DebitRequest is the payload of POST /wallets/:id/debit.
type DebitRequest struct {
	Amount int64 `json:"amount" binding:"required,gt=0"`
}

// RefundRequest is the payload of POST /wallets/:id/refund.
type RefundRequest struct {
	RefundID uuid.UUID `json:"refund_id" binding:"required"`
	OrderID  uuid.UUID `json:"order_id" binding:"required"`
	Amount   int64     `json:"amount" binding:"required,gt=0"`
}

// WalletResponse is the API shape of a wallet.
type WalletResponse struct {
	ID             uuid.UUID `json:"id"`
	CustomerID     uuid.UUID `json:"customer_id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	Currency       string    `json:"currency"`
	Balance        int64     `json:"balance"`
	CreatedAt      string    `json:"created_at"`
	UpdatedAt      string    `json:"updated_at"`
}

// TransactionResponse is the API shape of a ledger entry.
type TransactionResponse struct {
	ID                        uuid.UUID  `json:"id"`
	WalletID                  uuid.UUID  `json:"wallet_id"`
	Type                      string     `json:"type"`
	Currency                  string     `json:"currency"`
	Amount                    int64      `json:"amount"`
	TaxAmount                 *int64     `json:"tax_amount,omitempty"`
	TaxCalculationProcessorID *string    `json:"tax_calculation_processor_id,omitempty"`
	OrderID                   *uuid.UUID `json:"order_id,omitempty"`
	RefundID                  *uuid.UUID `json:"refund_id,omitempty"`
	Timestamp                 string     `json:"timestamp"`
}

// TopUpResponse is the API shape of a completed top-up.
type TopUpResponse struct {
	Transaction TransactionResponse `json:"transaction"`
	Balance     int64               `json:"balance"`
	CaptureID   string              `json:"capture_id"`
}

// BalanceResponse is the API shape of GET /wallets/:id/balance.
type BalanceResponse struct {
	WalletID uuid.UUID `json:"wallet_id"`
	Balance  int64     `json:"balance"`
}

// ParseWalletSorting parses a comma-separated sorting query such as
// "-created_at,balance" into sorting clauses. Unknown properties are
// rejected by returning false.
func ParseWalletSorting(raw string) ([]ports.Sorting, bool) {
	if raw == "" {
		return nil, true
	}
	var sorting []ports.Sorting
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		desc := false
		if strings.HasPrefix(part, "-") {
			desc = true
			part = part[1:]
		}
		property := ports.WalletSortProperty(part)
		switch property {
		case ports.WalletSortCreatedAt, ports.WalletSortBalance:
		default:
			return nil, false
		}
		sorting = append(sorting, ports.Sorting{Property: property, Desc: desc})
	}
	return sorting, true
}

// ToWalletResponse maps a domain wallet into its API shape.
func ToWalletResponse(w *domain.Wallet) WalletResponse {
	return WalletResponse{
		ID:             w.ID,
		CustomerID:     w.CustomerID,
		OrganizationID: w.OrganizationID,
		Currency:       w.Currency,
		Balance:        w.Balance,
		CreatedAt:      w.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:      w.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// ToTransactionResponse maps a ledger entry into its API shape.
func ToTransactionResponse(t *domain.WalletTransaction) TransactionResponse {
	return TransactionResponse{
		ID:                        t.ID,
		WalletID:                  t.WalletID,
		Type:                      string(t.Type),
		Currency:                  t.Currency,
		Amount:                    t.Amount,
		TaxAmount:                 t.TaxAmount,
		TaxCalculationProcessorID: t.TaxCalculationProcessorID,
		OrderID:                   t.OrderID,
		RefundID:                  t.RefundID,
		Timestamp:                 t.Timestamp.UTC().Format(time.RFC3339),
	}
}
