package ports

import (
	"context"

	"customer-wallet-service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// WalletSortProperty enumerates the sortable wallet list columns.
type WalletSortProperty string

const (
	WalletSortCreatedAt WalletSortProperty = "created_at"
	WalletSortBalance   WalletSortProperty = "balance"
)

// Sorting is one ordering clause of a wallet list query.
type Sorting struct {
	Property WalletSortProperty
	Desc     bool
}

// WalletListParams holds filters + pagination + sorting for listing wallets.
// The access scope is passed separately so it can never be omitted.
type WalletListParams struct {
	OrganizationID []uuid.UUID
	CustomerID     []uuid.UUID
	Sorting        []Sorting
	Page           int
	PageSize       int
}

// WalletRepository defines persistence operations for wallets.
// Read methods take a domain.AccessScope which the implementation turns into
// a filter predicate; a wallet outside the scope behaves as absent.
type WalletRepository interface {
	Create(ctx context.Context, wallet *domain.Wallet) error
	GetByID(ctx context.Context, scope domain.AccessScope, id uuid.UUID) (*domain.Wallet, error)
	GetByCustomerID(ctx context.Context, customerID uuid.UUID) (*domain.Wallet, error)
	// GetByIDForUpdate locks the wallet row so concurrent balance mutations
	// serialize. MUST be called within a transaction.
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Wallet, error)
	List(ctx context.Context, scope domain.AccessScope, params WalletListParams) ([]domain.Wallet, int64, error)
}

// WalletTransactionRepository defines persistence for the append-only ledger.
// Entries are never updated or deleted.
type WalletTransactionRepository interface {
	Create(ctx context.Context, tx pgx.Tx, transaction *domain.WalletTransaction) error
	// GetBalance derives the wallet balance as the sum of its ledger amounts.
	GetBalance(ctx context.Context, walletID uuid.UUID) (int64, error)
	// GetBalanceTx is the in-transaction variant, used together with a locked
	// wallet row during debit/refund.
	GetBalanceTx(ctx context.Context, tx pgx.Tx, walletID uuid.UUID) (int64, error)
	ListByWallet(ctx context.Context, walletID uuid.UUID, page, pageSize int) ([]domain.WalletTransaction, int64, error)
}

// CustomerRepository defines read access to customers. GetByID returns the
// customer with its organization populated.
type CustomerRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error)
}

// PaymentMethodRepository defines read access to stored payment methods.
type PaymentMethodRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.PaymentMethod, error)
	GetDefaultByCustomerID(ctx context.Context, customerID uuid.UUID) (*domain.PaymentMethod, error)
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
