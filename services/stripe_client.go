package services

import (
	"context"
	"errors"

	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/paymentintent"
)

// StripeProcessor implements PaymentProcessor against Stripe payment
// intents.
type StripeProcessor struct{}

func NewStripeProcessor(secretKey string) *StripeProcessor {
	stripe.Key = secretKey
	return &StripeProcessor{}
}

func (p *StripeProcessor) CreateIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(currency),
	}
	params.Context = ctx
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, err
	}

	return &PaymentIntent{
		IntentID:     pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
	}, nil
}

func (p *StripeProcessor) RetrieveIntent(ctx context.Context, intentID string) (*PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := paymentintent.Get(intentID, params)
	if err != nil {
		return nil, err
	}

	return &PaymentIntent{
		IntentID:     pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
		Metadata:     pi.Metadata,
	}, nil
}

// Confirm returns an outcome whenever Stripe answered, success or decline.
// Errors are reserved for transport failures where the charge result is
// unknown.
func (p *StripeProcessor) Confirm(ctx context.Context, intentID string, details PaymentDetails) (*ConfirmOutcome, error) {
	params := &stripe.PaymentIntentConfirmParams{
		PaymentMethod: stripe.String(details.PaymentMethodID),
	}
	params.Context = ctx

	pi, err := paymentintent.Confirm(intentID, params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) {
			// Stripe processed the request and rejected it.
			return &ConfirmOutcome{
				IntentID:  intentID,
				Succeeded: false,
				Message:   stripeErr.Msg,
			}, nil
		}
		return nil, err
	}

	if pi.Status == stripe.PaymentIntentStatusSucceeded {
		return &ConfirmOutcome{IntentID: pi.ID, Succeeded: true}, nil
	}

	return &ConfirmOutcome{
		IntentID:  pi.ID,
		Succeeded: false,
		Message:   "payment intent status " + string(pi.Status),
	}, nil
}
