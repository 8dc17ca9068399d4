package postgres

import (
	"context"
	"errors"
	"fmt"

	"customer-wallet-service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const paymentMethodSelect = `SELECT id, customer_id, processor, processor_id, type, is_default, created_at
	FROM payment_methods`

// PaymentMethodRepo implements ports.PaymentMethodRepository.
type PaymentMethodRepo struct {
	pool Pool
}

// NewPaymentMethodRepo creates a new PaymentMethodRepo.
func NewPaymentMethodRepo(pool Pool) *PaymentMethodRepo {
	return &PaymentMethodRepo{pool: pool}
}

// GetByID fetches a stored payment method by its UUID.
func (r *PaymentMethodRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.PaymentMethod, error) {
	query := paymentMethodSelect + ` WHERE id = $1`

	m, err := scanPaymentMethod(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment method by id: %w", err)
	}
	return m, nil
}

// GetDefaultByCustomerID fetches the customer's default payment method, or
// nil when none is marked default.
func (r *PaymentMethodRepo) GetDefaultByCustomerID(ctx context.Context, customerID uuid.UUID) (*domain.PaymentMethod, error) {
	query := paymentMethodSelect + ` WHERE customer_id = $1 AND is_default ORDER BY created_at DESC LIMIT 1`

	m, err := scanPaymentMethod(r.pool.QueryRow(ctx, query, customerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get default payment method: %w", err)
	}
	return m, nil
}

func scanPaymentMethod(row pgx.Row) (*domain.PaymentMethod, error) {
	m := &domain.PaymentMethod{}
	err := row.Scan(
		&m.ID, &m.CustomerID, &m.Processor, &m.ProcessorID,
		&m.Type, &m.Default, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}
