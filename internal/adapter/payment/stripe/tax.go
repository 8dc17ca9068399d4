package stripe

import (
	"context"
	"fmt"

	"customer-wallet-service/internal/core/ports"

	stripego "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
)

// TaxCalculator implements ports.TaxCalculator using the Stripe Tax
// Calculations API.
type TaxCalculator struct {
	api *client.API
}

// NewTaxCalculator creates a Stripe-backed tax calculator.
func NewTaxCalculator(api *client.API) *TaxCalculator {
	return &TaxCalculator{api: api}
}

// Calculate computes the tax-exclusive amount due on top of params.Amount
// for the customer's billing address.
func (t *TaxCalculator) Calculate(ctx context.Context, params ports.TaxCalculationParams) (*ports.TaxCalculation, error) {
	if params.BillingAddress.Country == "" {
		return nil, fmt.Errorf("billing address has no country")
	}

	calcParams := buildTaxCalculationParams(params)
	calcParams.Params.Context = ctx
	if params.IdempotencyKey != "" {
		calcParams.SetIdempotencyKey(params.IdempotencyKey)
	}

	calculation, err := t.api.TaxCalculations.New(calcParams)
	if err != nil {
		return nil, fmt.Errorf("create tax calculation: %w", err)
	}

	return &ports.TaxCalculation{
		Amount:      calculation.TaxAmountExclusive,
		ProcessorID: calculation.ID,
	}, nil
}

func buildTaxCalculationParams(params ports.TaxCalculationParams) *stripego.TaxCalculationParams {
	address := &stripego.AddressParams{
		Line1:      optionalString(params.BillingAddress.Line1),
		Line2:      optionalString(params.BillingAddress.Line2),
		City:       optionalString(params.BillingAddress.City),
		State:      optionalString(params.BillingAddress.State),
		PostalCode: optionalString(params.BillingAddress.PostalCode),
		Country:    stripego.String(params.BillingAddress.Country),
	}

	var taxIDs []*stripego.TaxCalculationCustomerDetailsTaxIDParams
	for _, id := range params.TaxIDs {
		taxIDs = append(taxIDs, &stripego.TaxCalculationCustomerDetailsTaxIDParams{
			Type:  stripego.String(id.Type),
			Value: stripego.String(id.Value),
		})
	}

	addressSource := stripego.TaxCalculationCustomerDetailsAddressSourceBilling
	calcParams := &stripego.TaxCalculationParams{
		Currency: stripego.String(params.Currency),
		LineItems: []*stripego.TaxCalculationLineItemParams{
			{
				Amount:  stripego.Int64(params.Amount),
				TaxCode: stripego.String(params.TaxCode),
			},
		},
		CustomerDetails: &stripego.TaxCalculationCustomerDetailsParams{
			Address:       address,
			AddressSource: stripego.String(string(addressSource)),
			TaxIDs:        taxIDs,
		},
	}
	return calcParams
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return stripego.String(s)
}
