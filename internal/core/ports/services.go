package ports

import (
	"context"
	"time"

	"customer-wallet-service/internal/core/domain"

	"github.com/google/uuid"
)

// TaxCodeGeneralElectronicallySuppliedServices is the processor tax code
// applied to wallet top-ups.
const TaxCodeGeneralElectronicallySuppliedServices = "txcd_10000000"

// ChargeStatusSucceeded is the only capture status treated as success.
const ChargeStatusSucceeded = "succeeded"

// TaxCalculationParams holds the inputs of an external tax computation.
type TaxCalculationParams struct {
	IdempotencyKey string
	Currency       string
	Amount         int64
	TaxCode        string
	BillingAddress domain.Address
	TaxIDs         []domain.TaxID
}

// TaxCalculation is the processor's answer: the tax amount to collect and
// the processor-side calculation reference.
type TaxCalculation struct {
	Amount      int64
	ProcessorID string
}

// TaxCalculator computes tax through an external processor.
type TaxCalculator interface {
	Calculate(ctx context.Context, params TaxCalculationParams) (*TaxCalculation, error)
}

// ChargeParams holds the inputs of an off-session payment capture.
type ChargeParams struct {
	Amount                    int64
	Currency                  string
	PaymentMethodID           string // Processor-side payment method reference
	CustomerID                string // Processor-side customer reference
	Confirm                   bool
	OffSession                bool
	StatementDescriptorSuffix string
	Description               string
	Metadata                  map[string]string
}

// ChargeResult is the terminal outcome of a capture attempt.
type ChargeResult struct {
	ID       string
	Status   string
	Amount   int64
	Currency string
}

// Succeeded reports whether the capture reached its succeeded terminal state.
func (r *ChargeResult) Succeeded() bool {
	return r.Status == ChargeStatusSucceeded
}

// PaymentCapturer charges a stored payment method through an external
// processor. The call blocks until the processor returns a terminal status.
type PaymentCapturer interface {
	CreateCharge(ctx context.Context, params ChargeParams) (*ChargeResult, error)
}

// PaymentMethodService resolves a customer's usable stored payment method.
type PaymentMethodService interface {
	// GetCustomerPaymentMethod returns the customer's default stored payment
	// method, or nil when none exists.
	GetCustomerPaymentMethod(ctx context.Context, customer *domain.Customer) (*domain.PaymentMethod, error)
}

// BalanceCache caches derived wallet balances. All methods are best-effort;
// callers fall back to the ledger on error.
type BalanceCache interface {
	Get(ctx context.Context, walletID uuid.UUID) (int64, bool, error)
	Set(ctx context.Context, walletID uuid.UUID, balance int64, ttl time.Duration) error
	Invalidate(ctx context.Context, walletID uuid.UUID) error
}

// TokenService verifies and issues access-scope bearer tokens for the API
// layer.
type TokenService interface {
	Generate(scope domain.AccessScope) (string, time.Time, error)
	Validate(tokenString string) (domain.AccessScope, error)
}

// --- Service Ports (Business Logic) ---

// TaxStamp carries tax metadata onto a credit ledger entry.
type TaxStamp struct {
	Amount      int64
	ProcessorID *string
}

// TopUpResult distinguishes a fully completed top-up: the credit is in the
// ledger, the capture succeeded and the balance reflects the credit.
type TopUpResult struct {
	Transaction *domain.WalletTransaction
	Balance     int64
	Capture     *ChargeResult
}

// WalletService defines the wallet business logic.
type WalletService interface {
	List(ctx context.Context, scope domain.AccessScope, params WalletListParams) ([]domain.Wallet, int64, error)
	// Get returns (nil, nil) when the wallet is absent or outside the scope;
	// absence is a valid outcome, not an error.
	Get(ctx context.Context, scope domain.AccessScope, id uuid.UUID) (*domain.Wallet, error)
	Create(ctx context.Context, customerID uuid.UUID) (*domain.Wallet, error)
	// TopUp charges amount+tax to the customer's payment method and credits
	// the wallet for amount. The credit is durably recorded before the
	// capture is attempted and stays in the ledger if the capture fails.
	TopUp(ctx context.Context, wallet *domain.Wallet, amount int64, paymentMethod *domain.PaymentMethod) (*TopUpResult, error)
	// Credit appends a credit entry without charging anyone; reusable by
	// flows other than top-up.
	Credit(ctx context.Context, wallet *domain.Wallet, amount int64, tax *TaxStamp) (*domain.WalletTransaction, error)
	// Debit appends a debit entry for min(amount, balance). It never fails
	// on insufficient balance; it spends what's there.
	Debit(ctx context.Context, wallet *domain.Wallet, amount int64) (*domain.WalletTransaction, error)
	// Refund is a debit tagged with the refund's order and refund records,
	// clamped the same way.
	Refund(ctx context.Context, wallet *domain.Wallet, refund *domain.Refund) (*domain.WalletTransaction, error)
	GetBalance(ctx context.Context, walletID uuid.UUID) (int64, error)
	ListTransactions(ctx context.Context, scope domain.AccessScope, walletID uuid.UUID, page, pageSize int) ([]domain.WalletTransaction, int64, error)
}
