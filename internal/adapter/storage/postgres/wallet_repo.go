package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"customer-wallet-service/internal/core/domain"
	"customer-wallet-service/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// walletSelect derives the balance from the ledger on every read; wallets
// carry no stored balance column.
const walletSelect = `SELECT w.id, w.customer_id, w.organization_id, w.currency,
	COALESCE((SELECT SUM(t.amount) FROM wallet_transactions t WHERE t.wallet_id = w.id), 0) AS balance,
	w.created_at, w.updated_at
	FROM wallets w`

// WalletRepo implements ports.WalletRepository.
type WalletRepo struct {
	pool Pool
}

// NewWalletRepo creates a new WalletRepo.
func NewWalletRepo(pool Pool) *WalletRepo {
	return &WalletRepo{pool: pool}
}

// Create inserts a new wallet into the database.
func (r *WalletRepo) Create(ctx context.Context, w *domain.Wallet) error {
	query := `INSERT INTO wallets (id, customer_id, organization_id, currency, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, query,
		w.ID, w.CustomerID, w.OrganizationID, w.Currency, w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert wallet: %w", err)
	}
	return nil
}

// GetByID fetches a wallet by its UUID. A wallet outside the scope behaves
// as absent.
func (r *WalletRepo) GetByID(ctx context.Context, scope domain.AccessScope, id uuid.UUID) (*domain.Wallet, error) {
	args := []any{id}
	conditions := []string{"w.id = $1"}
	conditions, args = appendScopeFilter(conditions, args, scope)
	query := walletSelect + " WHERE " + strings.Join(conditions, " AND ")

	w, err := scanWallet(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get wallet by id: %w", err)
	}
	return w, nil
}

// GetByCustomerID fetches the customer's wallet (non-locking read).
func (r *WalletRepo) GetByCustomerID(ctx context.Context, customerID uuid.UUID) (*domain.Wallet, error) {
	query := walletSelect + ` WHERE w.customer_id = $1`

	w, err := scanWallet(r.pool.QueryRow(ctx, query, customerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get wallet by customer id: %w", err)
	}
	return w, nil
}

// GetByIDForUpdate fetches a wallet by ID with pessimistic locking.
// This MUST be called within a transaction.
func (r *WalletRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Wallet, error) {
	query := walletSelect + ` WHERE w.id = $1 FOR UPDATE OF w`

	w, err := scanWallet(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get wallet for update: %w", err)
	}
	return w, nil
}

// List returns the wallets matching the scope and filters, plus the total
// count before pagination.
func (r *WalletRepo) List(ctx context.Context, scope domain.AccessScope, params ports.WalletListParams) ([]domain.Wallet, int64, error) {
	var args []any
	conditions := []string{"TRUE"}
	conditions, args = appendScopeFilter(conditions, args, scope)

	if len(params.OrganizationID) > 0 {
		args = append(args, params.OrganizationID)
		conditions = append(conditions, fmt.Sprintf("w.organization_id = ANY($%d)", len(args)))
	}
	if len(params.CustomerID) > 0 {
		args = append(args, params.CustomerID)
		conditions = append(conditions, fmt.Sprintf("w.customer_id = ANY($%d)", len(args)))
	}
	where := " WHERE " + strings.Join(conditions, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM wallets w` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count wallets: %w", err)
	}

	query := walletSelect + where + orderClause(params.Sorting)
	args = append(args, params.PageSize, (params.Page-1)*params.PageSize)
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list wallets: %w", err)
	}
	defer rows.Close()

	var wallets []domain.Wallet
	for rows.Next() {
		w, err := scanWallet(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan wallet: %w", err)
		}
		wallets = append(wallets, *w)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate wallets: %w", err)
	}
	return wallets, total, nil
}

func scanWallet(row pgx.Row) (*domain.Wallet, error) {
	w := &domain.Wallet{}
	err := row.Scan(
		&w.ID, &w.CustomerID, &w.OrganizationID, &w.Currency,
		&w.Balance, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return w, nil
}

// appendScopeFilter turns an access scope into SQL predicates. A scope that
// grants nothing matches nothing.
func appendScopeFilter(conditions []string, args []any, scope domain.AccessScope) ([]string, []any) {
	if scope.Admin {
		return conditions, args
	}
	matched := false
	if scope.OrganizationID != nil {
		args = append(args, *scope.OrganizationID)
		conditions = append(conditions, fmt.Sprintf("w.organization_id = $%d", len(args)))
		matched = true
	}
	if scope.CustomerID != nil {
		args = append(args, *scope.CustomerID)
		conditions = append(conditions, fmt.Sprintf("w.customer_id = $%d", len(args)))
		matched = true
	}
	if !matched {
		conditions = append(conditions, "FALSE")
	}
	return conditions, args
}

func orderClause(sorting []ports.Sorting) string {
	if len(sorting) == 0 {
		return " ORDER BY w.created_at DESC"
	}
	parts := make([]string, 0, len(sorting))
	for _, s := range sorting {
		column := "w.created_at"
		if s.Property == ports.WalletSortBalance {
			column = "balance"
		}
		direction := " ASC"
		if s.Desc {
			direction = " DESC"
		}
		parts = append(parts, column+direction)
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}
