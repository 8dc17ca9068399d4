package postgres

import (
	"context"
	"testing"
	"time"

	"customer-wallet-service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTransaction(walletID uuid.UUID, amount int64) *domain.WalletTransaction {
	return &domain.WalletTransaction{
		ID:        uuid.New(),
		WalletID:  walletID,
		Type:      domain.WalletTransactionTypeCredit,
		Currency:  "usd",
		Amount:    amount,
		Timestamp: time.Now().UTC().Truncate(time.Microsecond),
	}
}

func transactionColumns() []string {
	return []string{"id", "wallet_id", "type", "currency", "amount", "tax_amount", "tax_calculation_processor_id", "order_id", "refund_id", "created_at"}
}

func transactionRow(tr *domain.WalletTransaction) *pgxmock.Rows {
	return pgxmock.NewRows(transactionColumns()).AddRow(
		tr.ID, tr.WalletID, tr.Type, tr.Currency, tr.Amount,
		tr.TaxAmount, tr.TaxCalculationProcessorID, tr.OrderID, tr.RefundID, tr.Timestamp,
	)
}

func TestWalletTransactionRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletTransactionRepo(mock)
	tr := newTestTransaction(uuid.New(), 1000)
	taxAmount := int64(80)
	processorID := "taxcalc_123"
	tr.TaxAmount = &taxAmount
	tr.TaxCalculationProcessorID = &processorID

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO wallet_transactions").
		WithArgs(tr.ID, tr.WalletID, tr.Type, tr.Currency, tr.Amount,
			tr.TaxAmount, tr.TaxCalculationProcessorID, tr.OrderID, tr.RefundID, tr.Timestamp).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Create(context.Background(), tx, tr)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletTransactionRepo_GetBalance(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletTransactionRepo(mock)
	walletID := uuid.New()

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\) FROM wallet_transactions`).
		WithArgs(walletID).
		WillReturnRows(pgxmock.NewRows([]string{"coalesce"}).AddRow(int64(4200)))

	balance, err := repo.GetBalance(context.Background(), walletID)
	require.NoError(t, err)
	assert.Equal(t, int64(4200), balance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletTransactionRepo_GetBalance_EmptyLedger(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletTransactionRepo(mock)
	walletID := uuid.New()

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\) FROM wallet_transactions`).
		WithArgs(walletID).
		WillReturnRows(pgxmock.NewRows([]string{"coalesce"}).AddRow(int64(0)))

	balance, err := repo.GetBalance(context.Background(), walletID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletTransactionRepo_GetBalanceTx(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletTransactionRepo(mock)
	walletID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\) FROM wallet_transactions`).
		WithArgs(walletID).
		WillReturnRows(pgxmock.NewRows([]string{"coalesce"}).AddRow(int64(1500)))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	balance, err := repo.GetBalanceTx(context.Background(), tx, walletID)
	require.NoError(t, err)
	assert.Equal(t, int64(1500), balance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletTransactionRepo_ListByWallet(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWalletTransactionRepo(mock)
	walletID := uuid.New()
	credit := newTestTransaction(walletID, 1000)
	debit := newTestTransaction(walletID, -300)
	debit.Type = domain.WalletTransactionTypeDebit

	rows := transactionRow(debit).AddRow(
		credit.ID, credit.WalletID, credit.Type, credit.Currency, credit.Amount,
		credit.TaxAmount, credit.TaxCalculationProcessorID, credit.OrderID, credit.RefundID, credit.Timestamp,
	)

	mock.ExpectQuery("SELECT COUNT.+ FROM wallet_transactions").
		WithArgs(walletID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(2)))
	mock.ExpectQuery("SELECT .+ FROM wallet_transactions WHERE wallet_id .+ ORDER BY created_at DESC").
		WithArgs(walletID, 10, 0).
		WillReturnRows(rows)

	transactions, total, err := repo.ListByWallet(context.Background(), walletID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, transactions, 2)
	assert.Equal(t, domain.WalletTransactionTypeDebit, transactions[0].Type)
	assert.Equal(t, int64(-300), transactions[0].Amount)
	assert.Equal(t, int64(1000), transactions[1].Amount)
	assert.NoError(t, mock.ExpectationsWereMet())
}
