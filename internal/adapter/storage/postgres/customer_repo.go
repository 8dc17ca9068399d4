package postgres

import (
	"context"
	"errors"
	"fmt"

	"customer-wallet-service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CustomerRepo implements ports.CustomerRepository.
type CustomerRepo struct {
	pool Pool
}

// NewCustomerRepo creates a new CustomerRepo.
func NewCustomerRepo(pool Pool) *CustomerRepo {
	return &CustomerRepo{pool: pool}
}

// GetByID fetches a customer with its organization populated. Billing
// address and tax ID columns are nullable; they surface as nil structs when
// the customer has none on file.
func (r *CustomerRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	query := `SELECT c.id, c.organization_id, c.email, c.name,
		c.billing_line1, c.billing_line2, c.billing_city, c.billing_state, c.billing_postal_code, c.billing_country,
		c.tax_id_type, c.tax_id_value, c.processor_customer_id, c.created_at,
		o.id, o.name, o.slug, o.created_at
		FROM customers c
		JOIN organizations o ON o.id = c.organization_id
		WHERE c.id = $1`

	c := &domain.Customer{}
	o := &domain.Organization{}
	var (
		line1, line2, city, state, postalCode, country *string
		taxIDType, taxIDValue                          *string
	)
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.OrganizationID, &c.Email, &c.Name,
		&line1, &line2, &city, &state, &postalCode, &country,
		&taxIDType, &taxIDValue, &c.ProcessorCustomerID, &c.CreatedAt,
		&o.ID, &o.Name, &o.Slug, &o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer by id: %w", err)
	}

	if country != nil {
		c.BillingAddress = &domain.Address{
			Line1:      deref(line1),
			Line2:      deref(line2),
			City:       deref(city),
			State:      deref(state),
			PostalCode: deref(postalCode),
			Country:    *country,
		}
	}
	if taxIDType != nil && taxIDValue != nil {
		c.TaxID = &domain.TaxID{Type: *taxIDType, Value: *taxIDValue}
	}
	c.Organization = o
	return c, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
