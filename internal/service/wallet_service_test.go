package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"customer-wallet-service/internal/core/domain"
	"customer-wallet-service/internal/core/ports"
	"customer-wallet-service/internal/core/ports/mocks"
	"customer-wallet-service/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// fakeTx satisfies pgx.Tx for the commit/rollback paths the service touches;
// everything else is handled by the mocked repositories.
type fakeTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit(ctx context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

type walletServiceMocks struct {
	walletRepo     *mocks.MockWalletRepository
	txRepo         *mocks.MockWalletTransactionRepository
	customerRepo   *mocks.MockCustomerRepository
	paymentMethods *mocks.MockPaymentMethodService
	taxCalculator  *mocks.MockTaxCalculator
	capturer       *mocks.MockPaymentCapturer
	balanceCache   *mocks.MockBalanceCache
	transactor     *mocks.MockDBTransactor
}

func newWalletService(ctrl *gomock.Controller) (*WalletServiceImpl, *walletServiceMocks) {
	m := &walletServiceMocks{
		walletRepo:     mocks.NewMockWalletRepository(ctrl),
		txRepo:         mocks.NewMockWalletTransactionRepository(ctrl),
		customerRepo:   mocks.NewMockCustomerRepository(ctrl),
		paymentMethods: mocks.NewMockPaymentMethodService(ctrl),
		taxCalculator:  mocks.NewMockTaxCalculator(ctrl),
		capturer:       mocks.NewMockPaymentCapturer(ctrl),
		balanceCache:   mocks.NewMockBalanceCache(ctrl),
		transactor:     mocks.NewMockDBTransactor(ctrl),
	}
	svc := NewWalletService(
		m.walletRepo, m.txRepo, m.customerRepo, m.paymentMethods,
		m.taxCalculator, m.capturer, m.balanceCache, m.transactor,
		"usd", 5*time.Minute, zerolog.Nop(),
	)
	return svc, m
}

func testCustomer() *domain.Customer {
	processorID := "cus_123"
	return &domain.Customer{
		ID:                  uuid.New(),
		OrganizationID:      uuid.New(),
		Email:               "buyer@example.com",
		Name:                "Buyer",
		ProcessorCustomerID: &processorID,
		CreatedAt:           time.Now().UTC(),
		Organization: &domain.Organization{
			ID:        uuid.New(),
			Name:      "Acme",
			Slug:      "acme",
			CreatedAt: time.Now().UTC(),
		},
	}
}

func walletFor(customer *domain.Customer) *domain.Wallet {
	now := time.Now().UTC()
	return &domain.Wallet{
		ID:             uuid.New(),
		CustomerID:     customer.ID,
		OrganizationID: customer.OrganizationID,
		Currency:       "usd",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func methodFor(customer *domain.Customer) *domain.PaymentMethod {
	return &domain.PaymentMethod{
		ID:          uuid.New(),
		CustomerID:  customer.ID,
		Processor:   domain.PaymentProcessorStripe,
		ProcessorID: "pm_123",
		Type:        "card",
		Default:     true,
		CreatedAt:   time.Now().UTC(),
	}
}

func TestCreate_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newWalletService(ctrl)

	customer := testCustomer()
	m.customerRepo.EXPECT().GetByID(gomock.Any(), customer.ID).Return(customer, nil)
	m.walletRepo.EXPECT().GetByCustomerID(gomock.Any(), customer.ID).Return(nil, nil)
	m.walletRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	wallet, err := svc.Create(context.Background(), customer.ID)
	require.NoError(t, err)
	assert.Equal(t, customer.ID, wallet.CustomerID)
	assert.Equal(t, customer.OrganizationID, wallet.OrganizationID)
	assert.Equal(t, "usd", wallet.Currency)
	assert.Equal(t, int64(0), wallet.Balance)
}

func TestCreate_Duplicate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newWalletService(ctrl)

	customer := testCustomer()
	existing := walletFor(customer)
	m.customerRepo.EXPECT().GetByID(gomock.Any(), customer.ID).Return(customer, nil)
	m.walletRepo.EXPECT().GetByCustomerID(gomock.Any(), customer.ID).Return(existing, nil)

	_, err := svc.Create(context.Background(), customer.ID)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "WLT_001", appErr.Code)
}

func TestCreate_CustomerMissing(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newWalletService(ctrl)

	customerID := uuid.New()
	m.customerRepo.EXPECT().GetByID(gomock.Any(), customerID).Return(nil, nil)

	_, err := svc.Create(context.Background(), customerID)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "WLT_006", appErr.Code)
}

func TestTopUp_NoBillingAddress(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newWalletService(ctrl)

	customer := testCustomer()
	wallet := walletFor(customer)
	method := methodFor(customer)
	tx := &fakeTx{}

	m.customerRepo.EXPECT().GetByID(gomock.Any(), customer.ID).Return(customer, nil)
	m.paymentMethods.EXPECT().GetCustomerPaymentMethod(gomock.Any(), customer).Return(method, nil)
	m.transactor.EXPECT().Begin(gomock.Any()).Return(tx, nil)

	var credited *domain.WalletTransaction
	m.txRepo.EXPECT().Create(gomock.Any(), tx, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ pgx.Tx, tr *domain.WalletTransaction) error {
			credited = tr
			return nil
		})
	m.balanceCache.EXPECT().Invalidate(gomock.Any(), wallet.ID).Return(nil)

	m.capturer.EXPECT().CreateCharge(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params ports.ChargeParams) (*ports.ChargeResult, error) {
			// No billing address: no tax, the charge covers the amount only.
			assert.Equal(t, int64(500), params.Amount)
			assert.Equal(t, "pm_123", params.PaymentMethodID)
			assert.Equal(t, "cus_123", params.CustomerID)
			assert.True(t, params.Confirm)
			assert.True(t, params.OffSession)
			assert.Equal(t, "ACME", params.StatementDescriptorSuffix)
			return &ports.ChargeResult{ID: "pi_1", Status: ports.ChargeStatusSucceeded, Amount: params.Amount, Currency: "usd"}, nil
		})
	m.txRepo.EXPECT().GetBalance(gomock.Any(), wallet.ID).Return(int64(500), nil)
	m.balanceCache.EXPECT().Set(gomock.Any(), wallet.ID, int64(500), 5*time.Minute).Return(nil)

	result, err := svc.TopUp(context.Background(), wallet, 500, nil)
	require.NoError(t, err)
	assert.True(t, tx.committed)
	require.NotNil(t, credited)
	assert.Equal(t, domain.WalletTransactionTypeCredit, credited.Type)
	assert.Equal(t, int64(500), credited.Amount)
	require.NotNil(t, credited.TaxAmount)
	assert.Equal(t, int64(0), *credited.TaxAmount)
	assert.Nil(t, credited.TaxCalculationProcessorID)
	assert.Equal(t, int64(500), result.Balance)
	assert.Equal(t, int64(500), wallet.Balance)
}

func TestTopUp_WithBillingAddress(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newWalletService(ctrl)

	customer := testCustomer()
	customer.BillingAddress = &domain.Address{Line1: "1 Rue X", City: "Paris", PostalCode: "75001", Country: "FR"}
	customer.TaxID = &domain.TaxID{Type: "eu_vat", Value: "FR123"}
	wallet := walletFor(customer)
	method := methodFor(customer)
	tx := &fakeTx{}

	m.customerRepo.EXPECT().GetByID(gomock.Any(), customer.ID).Return(customer, nil)
	m.taxCalculator.EXPECT().Calculate(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params ports.TaxCalculationParams) (*ports.TaxCalculation, error) {
			assert.Equal(t, int64(1000), params.Amount)
			assert.Equal(t, ports.TaxCodeGeneralElectronicallySuppliedServices, params.TaxCode)
			assert.True(t, strings.HasPrefix(params.IdempotencyKey, "top_up:"+wallet.ID.String()+":"))
			require.Len(t, params.TaxIDs, 1)
			return &ports.TaxCalculation{Amount: 200, ProcessorID: "taxcalc_1"}, nil
		})
	m.transactor.EXPECT().Begin(gomock.Any()).Return(tx, nil)

	var credited *domain.WalletTransaction
	m.txRepo.EXPECT().Create(gomock.Any(), tx, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ pgx.Tx, tr *domain.WalletTransaction) error {
			credited = tr
			return nil
		})
	m.balanceCache.EXPECT().Invalidate(gomock.Any(), wallet.ID).Return(nil)

	m.capturer.EXPECT().CreateCharge(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params ports.ChargeParams) (*ports.ChargeResult, error) {
			// The capture covers amount + tax.
			assert.Equal(t, int64(1200), params.Amount)
			return &ports.ChargeResult{ID: "pi_2", Status: ports.ChargeStatusSucceeded, Amount: params.Amount, Currency: "usd"}, nil
		})
	m.txRepo.EXPECT().GetBalance(gomock.Any(), wallet.ID).Return(int64(1000), nil)
	m.balanceCache.EXPECT().Set(gomock.Any(), wallet.ID, int64(1000), 5*time.Minute).Return(nil)

	result, err := svc.TopUp(context.Background(), wallet, 1000, method)
	require.NoError(t, err)

	// The ledger credit covers the base amount only; tax rides on the charge.
	require.NotNil(t, credited)
	assert.Equal(t, int64(1000), credited.Amount)
	require.NotNil(t, credited.TaxAmount)
	assert.Equal(t, int64(200), *credited.TaxAmount)
	require.NotNil(t, credited.TaxCalculationProcessorID)
	assert.Equal(t, "taxcalc_1", *credited.TaxCalculationProcessorID)
	assert.Equal(t, int64(1000), result.Balance)
}

func TestTopUp_NoPaymentMethod(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newWalletService(ctrl)

	customer := testCustomer()
	wallet := walletFor(customer)

	m.customerRepo.EXPECT().GetByID(gomock.Any(), customer.ID).Return(customer, nil)
	m.paymentMethods.EXPECT().GetCustomerPaymentMethod(gomock.Any(), customer).Return(nil, nil)

	_, err := svc.TopUp(context.Background(), wallet, 500, nil)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "WLT_002", appErr.Code)
}

func TestTopUp_ForeignPaymentMethod(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newWalletService(ctrl)

	customer := testCustomer()
	wallet := walletFor(customer)
	foreign := methodFor(customer)
	foreign.CustomerID = uuid.New()

	m.customerRepo.EXPECT().GetByID(gomock.Any(), customer.ID).Return(customer, nil)

	_, err := svc.TopUp(context.Background(), wallet, 500, foreign)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "WLT_003", appErr.Code)
}

func TestTopUp_CaptureFailureKeepsCredit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newWalletService(ctrl)

	customer := testCustomer()
	wallet := walletFor(customer)
	method := methodFor(customer)
	tx := &fakeTx{}

	m.customerRepo.EXPECT().GetByID(gomock.Any(), customer.ID).Return(customer, nil)
	m.transactor.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	m.txRepo.EXPECT().Create(gomock.Any(), tx, gomock.Any()).Return(nil)
	m.balanceCache.EXPECT().Invalidate(gomock.Any(), wallet.ID).Return(nil)
	m.capturer.EXPECT().CreateCharge(gomock.Any(), gomock.Any()).Return(nil, errors.New("card declined"))

	_, err := svc.TopUp(context.Background(), wallet, 500, method)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "WLT_004", appErr.Code)

	// The credit was committed before the capture attempt and stays put.
	assert.True(t, tx.committed)
	assert.False(t, tx.rolledBack)
}

func TestTopUp_CaptureNotSucceeded(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newWalletService(ctrl)

	customer := testCustomer()
	wallet := walletFor(customer)
	method := methodFor(customer)
	tx := &fakeTx{}

	m.customerRepo.EXPECT().GetByID(gomock.Any(), customer.ID).Return(customer, nil)
	m.transactor.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	m.txRepo.EXPECT().Create(gomock.Any(), tx, gomock.Any()).Return(nil)
	m.balanceCache.EXPECT().Invalidate(gomock.Any(), wallet.ID).Return(nil)
	m.capturer.EXPECT().CreateCharge(gomock.Any(), gomock.Any()).
		Return(&ports.ChargeResult{ID: "pi_3", Status: "requires_action", Amount: 500, Currency: "usd"}, nil)

	_, err := svc.TopUp(context.Background(), wallet, 500, method)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "WLT_004", appErr.Code)
	assert.True(t, tx.committed)
}

func TestTopUp_InvalidAmount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, _ := newWalletService(ctrl)

	customer := testCustomer()
	wallet := walletFor(customer)

	_, err := svc.TopUp(context.Background(), wallet, 0, nil)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "WLT_005", appErr.Code)
}

func TestDebit_Normal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newWalletService(ctrl)

	customer := testCustomer()
	wallet := walletFor(customer)
	tx := &fakeTx{}

	m.transactor.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	m.walletRepo.EXPECT().GetByIDForUpdate(gomock.Any(), tx, wallet.ID).Return(wallet, nil)
	m.txRepo.EXPECT().GetBalanceTx(gomock.Any(), tx, wallet.ID).Return(int64(1000), nil)

	var debited *domain.WalletTransaction
	m.txRepo.EXPECT().Create(gomock.Any(), tx, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ pgx.Tx, tr *domain.WalletTransaction) error {
			debited = tr
			return nil
		})
	m.balanceCache.EXPECT().Invalidate(gomock.Any(), wallet.ID).Return(nil)

	transaction, err := svc.Debit(context.Background(), wallet, 300)
	require.NoError(t, err)
	assert.True(t, tx.committed)
	assert.Equal(t, domain.WalletTransactionTypeDebit, transaction.Type)
	assert.Equal(t, int64(-300), debited.Amount)
	assert.Equal(t, int64(700), wallet.Balance)
}

func TestDebit_ClampsToBalance(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newWalletService(ctrl)

	customer := testCustomer()
	wallet := walletFor(customer)
	tx := &fakeTx{}

	m.transactor.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	m.walletRepo.EXPECT().GetByIDForUpdate(gomock.Any(), tx, wallet.ID).Return(wallet, nil)
	m.txRepo.EXPECT().GetBalanceTx(gomock.Any(), tx, wallet.ID).Return(int64(300), nil)

	var debited *domain.WalletTransaction
	m.txRepo.EXPECT().Create(gomock.Any(), tx, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ pgx.Tx, tr *domain.WalletTransaction) error {
			debited = tr
			return nil
		})
	m.balanceCache.EXPECT().Invalidate(gomock.Any(), wallet.ID).Return(nil)

	_, err := svc.Debit(context.Background(), wallet, 500)
	require.NoError(t, err)
	assert.Equal(t, int64(-300), debited.Amount, "debit beyond balance spends only what's there")
	assert.Equal(t, int64(0), wallet.Balance)
}

func TestDebit_EmptyWallet(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newWalletService(ctrl)

	customer := testCustomer()
	wallet := walletFor(customer)
	tx := &fakeTx{}

	m.transactor.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	m.walletRepo.EXPECT().GetByIDForUpdate(gomock.Any(), tx, wallet.ID).Return(wallet, nil)
	m.txRepo.EXPECT().GetBalanceTx(gomock.Any(), tx, wallet.ID).Return(int64(0), nil)

	var debited *domain.WalletTransaction
	m.txRepo.EXPECT().Create(gomock.Any(), tx, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ pgx.Tx, tr *domain.WalletTransaction) error {
			debited = tr
			return nil
		})
	m.balanceCache.EXPECT().Invalidate(gomock.Any(), wallet.ID).Return(nil)

	_, err := svc.Debit(context.Background(), wallet, 500)
	require.NoError(t, err)
	assert.Equal(t, int64(0), debited.Amount)
	assert.Equal(t, int64(0), wallet.Balance)
}

func TestDebit_WalletGone(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newWalletService(ctrl)

	customer := testCustomer()
	wallet := walletFor(customer)
	tx := &fakeTx{}

	m.transactor.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	m.walletRepo.EXPECT().GetByIDForUpdate(gomock.Any(), tx, wallet.ID).Return(nil, nil)

	_, err := svc.Debit(context.Background(), wallet, 500)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "WLT_006", appErr.Code)
	assert.True(t, tx.rolledBack)
}

func TestRefund_LinksOrderAndRefund(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newWalletService(ctrl)

	customer := testCustomer()
	wallet := walletFor(customer)
	refund := &domain.Refund{ID: uuid.New(), OrderID: uuid.New(), Amount: 400, Currency: "usd"}
	tx := &fakeTx{}

	m.transactor.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	m.walletRepo.EXPECT().GetByIDForUpdate(gomock.Any(), tx, wallet.ID).Return(wallet, nil)
	m.txRepo.EXPECT().GetBalanceTx(gomock.Any(), tx, wallet.ID).Return(int64(250), nil)

	var appended *domain.WalletTransaction
	m.txRepo.EXPECT().Create(gomock.Any(), tx, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ pgx.Tx, tr *domain.WalletTransaction) error {
			appended = tr
			return nil
		})
	m.balanceCache.EXPECT().Invalidate(gomock.Any(), wallet.ID).Return(nil)

	transaction, err := svc.Refund(context.Background(), wallet, refund)
	require.NoError(t, err)
	assert.Equal(t, domain.WalletTransactionTypeRefund, transaction.Type)
	assert.Equal(t, int64(-250), appended.Amount, "refund clamps to balance")
	require.NotNil(t, appended.OrderID)
	assert.Equal(t, refund.OrderID, *appended.OrderID)
	require.NotNil(t, appended.RefundID)
	assert.Equal(t, refund.ID, *appended.RefundID)
}

func TestGetBalance_CacheHit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newWalletService(ctrl)

	walletID := uuid.New()
	m.balanceCache.EXPECT().Get(gomock.Any(), walletID).Return(int64(900), true, nil)

	balance, err := svc.GetBalance(context.Background(), walletID)
	require.NoError(t, err)
	assert.Equal(t, int64(900), balance)
}

func TestGetBalance_CacheMissFallsThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newWalletService(ctrl)

	walletID := uuid.New()
	m.balanceCache.EXPECT().Get(gomock.Any(), walletID).Return(int64(0), false, nil)
	m.txRepo.EXPECT().GetBalance(gomock.Any(), walletID).Return(int64(1200), nil)
	m.balanceCache.EXPECT().Set(gomock.Any(), walletID, int64(1200), 5*time.Minute).Return(nil)

	balance, err := svc.GetBalance(context.Background(), walletID)
	require.NoError(t, err)
	assert.Equal(t, int64(1200), balance)
}

func TestGetBalance_CacheErrorFallsThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newWalletService(ctrl)

	walletID := uuid.New()
	m.balanceCache.EXPECT().Get(gomock.Any(), walletID).Return(int64(0), false, errors.New("redis down"))
	m.txRepo.EXPECT().GetBalance(gomock.Any(), walletID).Return(int64(700), nil)
	m.balanceCache.EXPECT().Set(gomock.Any(), walletID, int64(700), 5*time.Minute).Return(errors.New("redis down"))

	balance, err := svc.GetBalance(context.Background(), walletID)
	require.NoError(t, err)
	assert.Equal(t, int64(700), balance)
}

func TestList_DefaultsApplied(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newWalletService(ctrl)

	scope := domain.AdminScope()
	m.walletRepo.EXPECT().
		List(gomock.Any(), scope, ports.WalletListParams{
			Sorting:  []ports.Sorting{{Property: ports.WalletSortCreatedAt, Desc: true}},
			Page:     1,
			PageSize: 10,
		}).
		Return(nil, int64(0), nil)

	_, _, err := svc.List(context.Background(), scope, ports.WalletListParams{})
	require.NoError(t, err)
}

func TestListTransactions_WalletOutsideScope(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, m := newWalletService(ctrl)

	scope := domain.CustomerScope(uuid.New())
	walletID := uuid.New()
	m.walletRepo.EXPECT().GetByID(gomock.Any(), scope, walletID).Return(nil, nil)

	_, _, err := svc.ListTransactions(context.Background(), scope, walletID, 1, 10)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "WLT_006", appErr.Code)
}

func TestCredit_NegativeAmountRejected(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	svc, _ := newWalletService(ctrl)

	customer := testCustomer()
	wallet := walletFor(customer)

	_, err := svc.Credit(context.Background(), wallet, -100, nil)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "WLT_005", appErr.Code)
}
