// internal/interface/payment/stripe_gateway.go
package payment

import (
	"context"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"

	"parceltrack-service/internal/domain/apperr"
	"parceltrack-service/pkg/logger"
)

// StripeGateway creates card payment intents against Stripe
type StripeGateway struct {
	api    *client.API
	logger logger.Logger
}

// NewStripeGateway creates a gateway bound to a secret key
func NewStripeGateway(secretKey string, log logger.Logger) *StripeGateway {
	api := &client.API{}
	api.Init(secretKey, nil)

	return &StripeGateway{api: api, logger: log}
}

// CreateIntent creates a payment intent for the amount in the smallest
// currency unit. Currency is fixed to USD and the method to card, which
// is all the client flow supports.
func (g *StripeGateway) CreateIntent(ctx context.Context, amount int64) (string, error) {
	params := &stripe.PaymentIntentParams{
		Params:             stripe.Params{Context: ctx},
		Amount:             stripe.Int64(amount),
		Currency:           stripe.String(string(stripe.CurrencyUSD)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}

	intent, err := g.api.PaymentIntents.New(params)
	if err != nil {
		g.logger.Error("Stripe payment intent creation failed", "error", err)
		return "", apperr.Wrap(apperr.ExternalProvider, "failed to create payment intent", err)
	}

	return intent.ClientSecret, nil
}
