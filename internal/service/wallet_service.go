package service

import (
	"context"
	"fmt"
	"time"

	"customer-wallet-service/internal/core/domain"
	"customer-wallet-service/internal/core/ports"
	"customer-wallet-service/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	defaultPage     = 1
	defaultPageSize = 10
	maxPageSize     = 100
)

// WalletServiceImpl implements ports.WalletService.
//
// The wallet balance is never stored: it is derived from the append-only
// transaction ledger. Debit and refund serialize on the wallet row so two
// concurrent spends cannot both read a stale balance.
type WalletServiceImpl struct {
	walletRepo      ports.WalletRepository
	txRepo          ports.WalletTransactionRepository
	customerRepo    ports.CustomerRepository
	paymentMethods  ports.PaymentMethodService
	taxCalculator   ports.TaxCalculator
	capturer        ports.PaymentCapturer
	balanceCache    ports.BalanceCache
	transactor      ports.DBTransactor
	defaultCurrency string
	cacheTTL        time.Duration
	log             zerolog.Logger
}

// NewWalletService creates a new WalletServiceImpl.
func NewWalletService(
	walletRepo ports.WalletRepository,
	txRepo ports.WalletTransactionRepository,
	customerRepo ports.CustomerRepository,
	paymentMethods ports.PaymentMethodService,
	taxCalculator ports.TaxCalculator,
	capturer ports.PaymentCapturer,
	balanceCache ports.BalanceCache,
	transactor ports.DBTransactor,
	defaultCurrency string,
	cacheTTL time.Duration,
	log zerolog.Logger,
) *WalletServiceImpl {
	return &WalletServiceImpl{
		walletRepo:      walletRepo,
		txRepo:          txRepo,
		customerRepo:    customerRepo,
		paymentMethods:  paymentMethods,
		taxCalculator:   taxCalculator,
		capturer:        capturer,
		balanceCache:    balanceCache,
		transactor:      transactor,
		defaultCurrency: defaultCurrency,
		cacheTTL:        cacheTTL,
		log:             log,
	}
}

// List returns the wallets visible to the scope, filtered, sorted and
// paginated. Default ordering is creation time descending.
func (s *WalletServiceImpl) List(ctx context.Context, scope domain.AccessScope, params ports.WalletListParams) ([]domain.Wallet, int64, error) {
	if len(params.Sorting) == 0 {
		params.Sorting = []ports.Sorting{{Property: ports.WalletSortCreatedAt, Desc: true}}
	}
	params.Page, params.PageSize = normalizePagination(params.Page, params.PageSize)

	wallets, total, err := s.walletRepo.List(ctx, scope, params)
	if err != nil {
		return nil, 0, apperror.ErrDatabaseError(fmt.Errorf("list wallets: %w", err))
	}
	return wallets, total, nil
}

// Get returns the wallet if it exists and is visible to the scope.
// Absence is a valid outcome: (nil, nil), never an error.
func (s *WalletServiceImpl) Get(ctx context.Context, scope domain.AccessScope, id uuid.UUID) (*domain.Wallet, error) {
	wallet, err := s.walletRepo.GetByID(ctx, scope, id)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("get wallet: %w", err))
	}
	return wallet, nil
}

// Create creates a wallet for the customer with the default currency and an
// empty ledger. At most one wallet may exist per customer.
func (s *WalletServiceImpl) Create(ctx context.Context, customerID uuid.UUID) (*domain.Wallet, error) {
	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("get customer: %w", err))
	}
	if customer == nil {
		return nil, apperror.ErrNotFound("customer")
	}

	existing, err := s.walletRepo.GetByCustomerID(ctx, customerID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("get wallet by customer: %w", err))
	}
	if existing != nil {
		return nil, apperror.ErrWalletAlreadyExists()
	}

	now := time.Now().UTC()
	wallet := &domain.Wallet{
		ID:             uuid.New(),
		CustomerID:     customer.ID,
		OrganizationID: customer.OrganizationID,
		Currency:       s.defaultCurrency,
		Balance:        0,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.walletRepo.Create(ctx, wallet); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("create wallet: %w", err))
	}

	s.log.Info().
		Str("wallet_id", wallet.ID.String()).
		Str("customer_id", customer.ID.String()).
		Str("currency", wallet.Currency).
		Msg("wallet created")

	return wallet, nil
}

// TopUp adds funds to a wallet by charging the customer's payment method.
//
// The credit transaction is committed to the ledger before the capture is
// attempted, so a failed or crashed capture still leaves an auditable ledger
// entry. The entry is not reversed on capture failure; reconciliation happens
// out of band.
func (s *WalletServiceImpl) TopUp(ctx context.Context, wallet *domain.Wallet, amount int64, paymentMethod *domain.PaymentMethod) (*ports.TopUpResult, error) {
	if amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}

	customer, err := s.customerRepo.GetByID(ctx, wallet.CustomerID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("get customer: %w", err))
	}
	if customer == nil {
		return nil, apperror.ErrNotFound("customer")
	}

	// Resolve payment method: fall back to the customer's stored default.
	if paymentMethod == nil {
		paymentMethod, err = s.paymentMethods.GetCustomerPaymentMethod(ctx, customer)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("resolve payment method: %w", err))
		}
		if paymentMethod == nil {
			return nil, apperror.ErrMissingPaymentMethod()
		}
	}
	if paymentMethod.CustomerID != wallet.CustomerID {
		return nil, apperror.ErrInvalidPaymentMethod()
	}

	// Compute tax when the customer has a billing address on file; without
	// one the top-up is untaxed and no calculation reference is recorded.
	tax := &ports.TaxStamp{}
	if customer.BillingAddress != nil {
		var taxIDs []domain.TaxID
		if customer.TaxID != nil {
			taxIDs = append(taxIDs, *customer.TaxID)
		}
		calculation, err := s.taxCalculator.Calculate(ctx, ports.TaxCalculationParams{
			IdempotencyKey: fmt.Sprintf("top_up:%s:%s", wallet.ID, uuid.New()),
			Currency:       wallet.Currency,
			Amount:         amount,
			TaxCode:        ports.TaxCodeGeneralElectronicallySuppliedServices,
			BillingAddress: *customer.BillingAddress,
			TaxIDs:         taxIDs,
		})
		if err != nil {
			return nil, apperror.ErrTaxCalculationFailure(fmt.Errorf("calculate tax: %w", err))
		}
		processorID := calculation.ProcessorID
		tax.Amount = calculation.Amount
		tax.ProcessorID = &processorID
	}

	// The credit covers the requested amount only; tax rides on the charge.
	transaction, err := s.Credit(ctx, wallet, amount, tax)
	if err != nil {
		return nil, err
	}
	totalAmount := amount + tax.Amount

	if customer.ProcessorCustomerID == nil {
		return nil, apperror.InternalError(fmt.Errorf("customer %s has no processor reference", customer.ID))
	}
	if customer.Organization == nil {
		return nil, apperror.InternalError(fmt.Errorf("customer %s loaded without organization", customer.ID))
	}
	organization := customer.Organization

	capture, err := s.capturer.CreateCharge(ctx, ports.ChargeParams{
		Amount:                    totalAmount,
		Currency:                  wallet.Currency,
		PaymentMethodID:           paymentMethod.ProcessorID,
		CustomerID:                *customer.ProcessorCustomerID,
		Confirm:                   true,
		OffSession:                true,
		StatementDescriptorSuffix: organization.StatementDescriptor(),
		Description:               fmt.Sprintf("%s — Wallet Top-Up", organization.Name),
		Metadata: map[string]string{
			"customer_id":           wallet.CustomerID.String(),
			"wallet_id":             wallet.ID.String(),
			"wallet_transaction_id": transaction.ID.String(),
		},
	})
	if err != nil {
		s.log.Warn().Err(err).
			Str("wallet_id", wallet.ID.String()).
			Str("wallet_transaction_id", transaction.ID.String()).
			Msg("payment capture errored, ledger credit kept")
		return nil, apperror.ErrPaymentCaptureFailed(fmt.Errorf("create charge: %w", err))
	}
	if !capture.Succeeded() {
		s.log.Warn().
			Str("wallet_id", wallet.ID.String()).
			Str("wallet_transaction_id", transaction.ID.String()).
			Str("payment_intent_id", capture.ID).
			Str("status", capture.Status).
			Msg("payment capture did not succeed, ledger credit kept")
		return nil, apperror.ErrPaymentCaptureFailed(fmt.Errorf("payment intent %s status %s", capture.ID, capture.Status))
	}

	// Refresh wallet balance from the ledger.
	balance, err := s.txRepo.GetBalance(ctx, wallet.ID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("refresh balance: %w", err))
	}
	wallet.Balance = balance
	if err := s.balanceCache.Set(ctx, wallet.ID, balance, s.cacheTTL); err != nil {
		s.log.Warn().Err(err).Str("wallet_id", wallet.ID.String()).Msg("failed to cache balance")
	}

	s.log.Info().
		Str("wallet_id", wallet.ID.String()).
		Str("wallet_transaction_id", transaction.ID.String()).
		Int64("amount", amount).
		Int64("tax_amount", tax.Amount).
		Int64("total_amount", totalAmount).
		Msg("wallet topped up")

	return &ports.TopUpResult{
		Transaction: transaction,
		Balance:     balance,
		Capture:     capture,
	}, nil
}

// Credit appends a credit transaction for the given positive amount, stamped
// with tax metadata when provided. It does not charge anyone; top-up builds
// on it, other flows may credit directly.
func (s *WalletServiceImpl) Credit(ctx context.Context, wallet *domain.Wallet, amount int64, tax *ports.TaxStamp) (*domain.WalletTransaction, error) {
	if amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}

	transaction := &domain.WalletTransaction{
		ID:        uuid.New(),
		WalletID:  wallet.ID,
		Type:      domain.WalletTransactionTypeCredit,
		Currency:  wallet.Currency,
		Amount:    amount,
		Timestamp: time.Now().UTC(),
	}
	if tax != nil {
		taxAmount := tax.Amount
		transaction.TaxAmount = &taxAmount
		transaction.TaxCalculationProcessorID = tax.ProcessorID
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.txRepo.Create(ctx, dbTx, transaction); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("create credit transaction: %w", err))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.invalidateBalance(ctx, wallet.ID)

	s.log.Info().
		Str("wallet_id", wallet.ID.String()).
		Str("wallet_transaction_id", transaction.ID.String()).
		Int64("amount", amount).
		Msg("wallet credited")

	return transaction, nil
}

// Debit appends a debit transaction of min(amount, balance). It spends what
// is there: a request exceeding the balance is clamped, not rejected, so the
// balance never goes below zero.
func (s *WalletServiceImpl) Debit(ctx context.Context, wallet *domain.Wallet, amount int64) (*domain.WalletTransaction, error) {
	if amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}
	return s.appendDebit(ctx, wallet, amount, domain.WalletTransactionTypeDebit, nil)
}

// Refund appends a debit-signed transaction of type refund, linked to the
// refund's order and the refund record, clamped the same way as Debit.
func (s *WalletServiceImpl) Refund(ctx context.Context, wallet *domain.Wallet, refund *domain.Refund) (*domain.WalletTransaction, error) {
	if refund.Amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}
	return s.appendDebit(ctx, wallet, refund.Amount, domain.WalletTransactionTypeRefund, refund)
}

// GetBalance returns the wallet's current balance, served from the cache
// when possible and derived from the ledger otherwise.
func (s *WalletServiceImpl) GetBalance(ctx context.Context, walletID uuid.UUID) (int64, error) {
	if balance, ok, err := s.balanceCache.Get(ctx, walletID); err != nil {
		s.log.Warn().Err(err).Str("wallet_id", walletID.String()).Msg("balance cache read failed, falling back to ledger")
	} else if ok {
		return balance, nil
	}

	balance, err := s.txRepo.GetBalance(ctx, walletID)
	if err != nil {
		return 0, apperror.ErrDatabaseError(fmt.Errorf("get balance: %w", err))
	}

	if err := s.balanceCache.Set(ctx, walletID, balance, s.cacheTTL); err != nil {
		s.log.Warn().Err(err).Str("wallet_id", walletID.String()).Msg("failed to cache balance")
	}
	return balance, nil
}

// ListTransactions returns a page of the wallet's ledger, newest first. The
// wallet must be visible to the scope.
func (s *WalletServiceImpl) ListTransactions(ctx context.Context, scope domain.AccessScope, walletID uuid.UUID, page, pageSize int) ([]domain.WalletTransaction, int64, error) {
	wallet, err := s.walletRepo.GetByID(ctx, scope, walletID)
	if err != nil {
		return nil, 0, apperror.ErrDatabaseError(fmt.Errorf("get wallet: %w", err))
	}
	if wallet == nil {
		return nil, 0, apperror.ErrNotFound("wallet")
	}

	page, pageSize = normalizePagination(page, pageSize)
	transactions, total, err := s.txRepo.ListByWallet(ctx, walletID, page, pageSize)
	if err != nil {
		return nil, 0, apperror.ErrDatabaseError(fmt.Errorf("list wallet transactions: %w", err))
	}
	return transactions, total, nil
}

// appendDebit holds the shared debit/refund path: lock the wallet row, read
// the balance within the same transaction, clamp, append.
func (s *WalletServiceImpl) appendDebit(ctx context.Context, wallet *domain.Wallet, amount int64, txType domain.WalletTransactionType, refund *domain.Refund) (*domain.WalletTransaction, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	locked, err := s.walletRepo.GetByIDForUpdate(ctx, dbTx, wallet.ID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("lock wallet: %w", err))
	}
	if locked == nil {
		return nil, apperror.ErrNotFound("wallet")
	}

	currentBalance, err := s.txRepo.GetBalanceTx(ctx, dbTx, wallet.ID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("get balance: %w", err))
	}
	if amount > currentBalance {
		amount = currentBalance // Prevent going negative
	}

	transaction := &domain.WalletTransaction{
		ID:        uuid.New(),
		WalletID:  wallet.ID,
		Type:      txType,
		Currency:  wallet.Currency,
		Amount:    -amount,
		Timestamp: time.Now().UTC(),
	}
	if refund != nil {
		orderID := refund.OrderID
		refundID := refund.ID
		transaction.OrderID = &orderID
		transaction.RefundID = &refundID
	}

	if err := s.txRepo.Create(ctx, dbTx, transaction); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("create %s transaction: %w", txType, err))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.invalidateBalance(ctx, wallet.ID)
	wallet.Balance = currentBalance - amount

	s.log.Info().
		Str("wallet_id", wallet.ID.String()).
		Str("wallet_transaction_id", transaction.ID.String()).
		Str("type", string(txType)).
		Int64("amount", transaction.Amount).
		Int64("balance", wallet.Balance).
		Msg("wallet debited")

	return transaction, nil
}

func (s *WalletServiceImpl) invalidateBalance(ctx context.Context, walletID uuid.UUID) {
	if err := s.balanceCache.Invalidate(ctx, walletID); err != nil {
		s.log.Warn().Err(err).Str("wallet_id", walletID.String()).Msg("failed to invalidate balance cache")
	}
}

func normalizePagination(page, pageSize int) (int, int) {
	if page < 1 {
		page = defaultPage
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}
