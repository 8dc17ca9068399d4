package stripe

import (
	"context"
	"fmt"

	"customer-wallet-service/internal/core/ports"

	stripego "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
)

// Capturer implements ports.PaymentCapturer using Stripe PaymentIntents.
type Capturer struct {
	api *client.API
}

// NewCapturer creates a Stripe-backed payment capturer.
func NewCapturer(api *client.API) *Capturer {
	return &Capturer{api: api}
}

// CreateCharge creates and confirms an off-session PaymentIntent against the
// customer's stored payment method.
func (c *Capturer) CreateCharge(ctx context.Context, params ports.ChargeParams) (*ports.ChargeResult, error) {
	intentParams := buildPaymentIntentParams(params)
	intentParams.Params.Context = ctx

	intent, err := c.api.PaymentIntents.New(intentParams)
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}

	return &ports.ChargeResult{
		ID:       intent.ID,
		Status:   string(intent.Status),
		Amount:   intent.Amount,
		Currency: string(intent.Currency),
	}, nil
}

func buildPaymentIntentParams(params ports.ChargeParams) *stripego.PaymentIntentParams {
	intentParams := &stripego.PaymentIntentParams{
		Amount:        stripego.Int64(params.Amount),
		Currency:      stripego.String(params.Currency),
		PaymentMethod: stripego.String(params.PaymentMethodID),
		Customer:      stripego.String(params.CustomerID),
	}
	if params.Confirm {
		intentParams.Confirm = stripego.Bool(true)
	}
	if params.OffSession {
		intentParams.OffSession = stripego.Bool(true)
	}
	if params.StatementDescriptorSuffix != "" {
		intentParams.StatementDescriptorSuffix = stripego.String(params.StatementDescriptorSuffix)
	}
	if params.Description != "" {
		intentParams.Description = stripego.String(params.Description)
	}
	for k, v := range params.Metadata {
		intentParams.AddMetadata(k, v)
	}
	return intentParams
}
