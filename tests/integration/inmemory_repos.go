package integration

import (
	"context"
	"sort"
	"sync"
	"time"

	"customer-wallet-service/internal/core/domain"
	"customer-wallet-service/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// --- In-Memory Wallet Repo ---

type inMemoryWalletRepo struct {
	mu      sync.RWMutex
	wallets map[uuid.UUID]*domain.Wallet
	ledger  *inMemoryTransactionRepo
}

func newInMemoryWalletRepo(ledger *inMemoryTransactionRepo) *inMemoryWalletRepo {
	return &inMemoryWalletRepo{wallets: make(map[uuid.UUID]*domain.Wallet), ledger: ledger}
}

func (r *inMemoryWalletRepo) Create(ctx context.Context, w *domain.Wallet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *w
	r.wallets[w.ID] = &copied
	return nil
}

func (r *inMemoryWalletRepo) visible(w *domain.Wallet, scope domain.AccessScope) bool {
	if scope.Admin {
		return true
	}
	if scope.OrganizationID != nil && w.OrganizationID == *scope.OrganizationID {
		return true
	}
	if scope.CustomerID != nil && w.CustomerID == *scope.CustomerID {
		return true
	}
	return false
}

// withBalance returns a copy carrying the ledger-derived balance, the same
// shape the SQL balance subquery produces.
func (r *inMemoryWalletRepo) withBalance(ctx context.Context, w *domain.Wallet) *domain.Wallet {
	copied := *w
	balance, _ := r.ledger.GetBalance(ctx, w.ID)
	copied.Balance = balance
	return &copied
}

func (r *inMemoryWalletRepo) GetByID(ctx context.Context, scope domain.AccessScope, id uuid.UUID) (*domain.Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.wallets[id]
	if !ok || !r.visible(w, scope) {
		return nil, nil
	}
	return r.withBalance(ctx, w), nil
}

func (r *inMemoryWalletRepo) GetByCustomerID(ctx context.Context, customerID uuid.UUID) (*domain.Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, w := range r.wallets {
		if w.CustomerID == customerID {
			return r.withBalance(ctx, w), nil
		}
	}
	return nil, nil
}

func (r *inMemoryWalletRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.wallets[id]
	if !ok {
		return nil, nil
	}
	return r.withBalance(ctx, w), nil
}

func (r *inMemoryWalletRepo) List(ctx context.Context, scope domain.AccessScope, params ports.WalletListParams) ([]domain.Wallet, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []domain.Wallet
	for _, w := range r.wallets {
		if !r.visible(w, scope) {
			continue
		}
		if len(params.OrganizationID) > 0 && !containsUUID(params.OrganizationID, w.OrganizationID) {
			continue
		}
		if len(params.CustomerID) > 0 && !containsUUID(params.CustomerID, w.CustomerID) {
			continue
		}
		result = append(result, *r.withBalance(ctx, w))
	}

	sorting := params.Sorting
	if len(sorting) == 0 {
		sorting = []ports.Sorting{{Property: ports.WalletSortCreatedAt, Desc: true}}
	}
	sort.SliceStable(result, func(i, j int) bool {
		for _, s := range sorting {
			var less, eq bool
			switch s.Property {
			case ports.WalletSortBalance:
				less = result[i].Balance < result[j].Balance
				eq = result[i].Balance == result[j].Balance
			default:
				less = result[i].CreatedAt.Before(result[j].CreatedAt)
				eq = result[i].CreatedAt.Equal(result[j].CreatedAt)
			}
			if eq {
				continue
			}
			if s.Desc {
				return !less
			}
			return less
		}
		return false
	})

	total := int64(len(result))
	start := (params.Page - 1) * params.PageSize
	if start >= len(result) {
		return []domain.Wallet{}, total, nil
	}
	end := start + params.PageSize
	if end > len(result) {
		end = len(result)
	}
	return result[start:end], total, nil
}

func containsUUID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

// --- In-Memory Wallet Transaction Repo (the ledger) ---

type inMemoryTransactionRepo struct {
	mu      sync.RWMutex
	entries []*domain.WalletTransaction
}

func newInMemoryTransactionRepo() *inMemoryTransactionRepo {
	return &inMemoryTransactionRepo{}
}

func (r *inMemoryTransactionRepo) Create(ctx context.Context, tx pgx.Tx, t *domain.WalletTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *t
	r.entries = append(r.entries, &copied)
	return nil
}

func (r *inMemoryTransactionRepo) GetBalance(ctx context.Context, walletID uuid.UUID) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var balance int64
	for _, t := range r.entries {
		if t.WalletID == walletID {
			balance += t.Amount
		}
	}
	return balance, nil
}

func (r *inMemoryTransactionRepo) GetBalanceTx(ctx context.Context, tx pgx.Tx, walletID uuid.UUID) (int64, error) {
	return r.GetBalance(ctx, walletID)
}

func (r *inMemoryTransactionRepo) ListByWallet(ctx context.Context, walletID uuid.UUID, page, pageSize int) ([]domain.WalletTransaction, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.WalletTransaction
	for _, t := range r.entries {
		if t.WalletID == walletID {
			result = append(result, *t)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Timestamp.After(result[j].Timestamp)
	})
	total := int64(len(result))
	start := (page - 1) * pageSize
	if start >= len(result) {
		return []domain.WalletTransaction{}, total, nil
	}
	end := start + pageSize
	if end > len(result) {
		end = len(result)
	}
	return result[start:end], total, nil
}

// --- In-Memory Customer Repo ---

type inMemoryCustomerRepo struct {
	mu        sync.RWMutex
	customers map[uuid.UUID]*domain.Customer
}

func newInMemoryCustomerRepo() *inMemoryCustomerRepo {
	return &inMemoryCustomerRepo{customers: make(map[uuid.UUID]*domain.Customer)}
}

func (r *inMemoryCustomerRepo) add(c *domain.Customer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.customers[c.ID] = c
}

func (r *inMemoryCustomerRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.customers[id]
	if !ok {
		return nil, nil
	}
	return c, nil
}

// --- In-Memory Payment Method Repo ---

type inMemoryPaymentMethodRepo struct {
	mu      sync.RWMutex
	methods map[uuid.UUID]*domain.PaymentMethod
}

func newInMemoryPaymentMethodRepo() *inMemoryPaymentMethodRepo {
	return &inMemoryPaymentMethodRepo{methods: make(map[uuid.UUID]*domain.PaymentMethod)}
}

func (r *inMemoryPaymentMethodRepo) add(m *domain.PaymentMethod) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.methods[m.ID] = m
}

func (r *inMemoryPaymentMethodRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.PaymentMethod, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.methods[id]
	if !ok {
		return nil, nil
	}
	return m, nil
}

func (r *inMemoryPaymentMethodRepo) GetDefaultByCustomerID(ctx context.Context, customerID uuid.UUID) (*domain.PaymentMethod, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, m := range r.methods {
		if m.CustomerID == customerID && m.Default {
			return m, nil
		}
	}
	return nil, nil
}

// --- Serializing Transactor ---

// inMemoryTransactor serializes transactions on a single mutex, standing in
// for the row lock that GetByIDForUpdate takes in PostgreSQL.
type inMemoryTransactor struct {
	mu sync.Mutex
}

func newInMemoryTransactor() *inMemoryTransactor {
	return &inMemoryTransactor{}
}

func (t *inMemoryTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	t.mu.Lock()
	return &serialTx{release: &t.mu}, nil
}

// serialTx is a pgx.Tx that holds the transactor mutex until finished.
type serialTx struct {
	release *sync.Mutex
	done    sync.Once
}

func (t *serialTx) finish() {
	t.done.Do(func() { t.release.Unlock() })
}

func (t *serialTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *serialTx) Commit(ctx context.Context) error          { t.finish(); return nil }
func (t *serialTx) Rollback(ctx context.Context) error        { t.finish(); return nil }
func (t *serialTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *serialTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *serialTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *serialTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *serialTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (t *serialTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *serialTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}
func (t *serialTx) Conn() *pgx.Conn { return nil }

// --- Fake Payment Processor ---

// fakeCapturer records charges and can be told to fail.
type fakeCapturer struct {
	mu      sync.Mutex
	charges []ports.ChargeParams
	status  string
}

func newFakeCapturer() *fakeCapturer {
	return &fakeCapturer{status: ports.ChargeStatusSucceeded}
}

func (c *fakeCapturer) failWith(status string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = status
}

func (c *fakeCapturer) CreateCharge(ctx context.Context, params ports.ChargeParams) (*ports.ChargeResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.charges = append(c.charges, params)
	return &ports.ChargeResult{
		ID:       "pi_fake_" + uuid.NewString(),
		Status:   c.status,
		Amount:   params.Amount,
		Currency: params.Currency,
	}, nil
}

func (c *fakeCapturer) lastCharge() *ports.ChargeParams {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.charges) == 0 {
		return nil
	}
	return &c.charges[len(c.charges)-1]
}

// fakeTaxCalculator applies a flat 10% rate.
type fakeTaxCalculator struct{}

func (f *fakeTaxCalculator) Calculate(ctx context.Context, params ports.TaxCalculationParams) (*ports.TaxCalculation, error) {
	return &ports.TaxCalculation{
		Amount:      params.Amount / 10,
		ProcessorID: "taxcalc_fake_" + uuid.NewString(),
	}, nil
}

// --- Fixtures ---

func newFixtures() (*domain.Customer, *domain.PaymentMethod) {
	processorID := "cus_fake"
	org := &domain.Organization{
		ID:        uuid.New(),
		Name:      "Acme",
		Slug:      "acme",
		CreatedAt: time.Now().UTC(),
	}
	customer := &domain.Customer{
		ID:                  uuid.New(),
		OrganizationID:      org.ID,
		Email:               "buyer@example.com",
		Name:                "Buyer",
		ProcessorCustomerID: &processorID,
		CreatedAt:           time.Now().UTC(),
		Organization:        org,
	}
	method := &domain.PaymentMethod{
		ID:          uuid.New(),
		CustomerID:  customer.ID,
		Processor:   domain.PaymentProcessorStripe,
		ProcessorID: "pm_fake",
		Type:        "card",
		Default:     true,
		CreatedAt:   time.Now().UTC(),
	}
	return customer, method
}
