package service

import (
	"context"
	"fmt"

	"customer-wallet-service/internal/core/domain"
	"customer-wallet-service/internal/core/ports"
	"customer-wallet-service/pkg/apperror"

	"github.com/rs/zerolog"
)

// PaymentMethodServiceImpl implements ports.PaymentMethodService.
type PaymentMethodServiceImpl struct {
	paymentMethodRepo ports.PaymentMethodRepository
	log               zerolog.Logger
}

// NewPaymentMethodService creates a new PaymentMethodServiceImpl.
func NewPaymentMethodService(paymentMethodRepo ports.PaymentMethodRepository, log zerolog.Logger) *PaymentMethodServiceImpl {
	return &PaymentMethodServiceImpl{
		paymentMethodRepo: paymentMethodRepo,
		log:               log,
	}
}

// GetCustomerPaymentMethod returns the customer's default stored payment
// method, or nil when none is on file.
func (s *PaymentMethodServiceImpl) GetCustomerPaymentMethod(ctx context.Context, customer *domain.Customer) (*domain.PaymentMethod, error) {
	method, err := s.paymentMethodRepo.GetDefaultByCustomerID(ctx, customer.ID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("get default payment method: %w", err))
	}
	return method, nil
}
