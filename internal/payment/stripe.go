// StripeGateway implements Gateway over the Stripe Checkout API.
//
// The stripe-go calls are injected as function fields so tests can exercise
// the mapping logic without network access; production construction wires
// them to checkout/session.New and checkout/session.Get.
package payment

import (
	"context"
	"fmt"
	"strings"

	stripe "github.com/stripe/stripe-go/v82"
	stripesession "github.com/stripe/stripe-go/v82/checkout/session"
)

// StripeGateway talks to Stripe hosted checkout. Construct it with
// NewStripeGateway; the zero value is not usable.
type StripeGateway struct {
	createFn func(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	getFn    func(id string, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

// NewStripeGateway configures the global Stripe API key and returns a
// gateway bound to the real checkout-session endpoints.
func NewStripeGateway(secretKey string) *StripeGateway {
	stripe.Key = strings.TrimSpace(secretKey)
	return &StripeGateway{
		createFn: stripesession.New,
		getFn:    stripesession.Get,
	}
}

// CreateSession starts a one-time-payment checkout session with a fixed
// unit amount and the given metadata, and returns its token and redirect URL.
func (g *StripeGateway) CreateSession(ctx context.Context, p CreateSessionParams) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:         stripe.String(p.SuccessURL),
		CancelURL:          stripe.String(p.CancelURL),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(p.Currency),
					UnitAmount: stripe.Int64(p.AmountMinorUnits),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(p.ProductName),
						Description: stripe.String(p.ProductDescription),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		Metadata: p.Metadata,
	}
	params.Context = ctx

	sess, err := g.createFn(params)
	if err != nil {
		return nil, fmt.Errorf("%w: create checkout session: %v", ErrGatewayUnavailable, err)
	}
	if sess == nil || strings.TrimSpace(sess.URL) == "" {
		return nil, fmt.Errorf("%w: create checkout session: empty session", ErrGatewayUnavailable)
	}
	return &CheckoutSession{
		ID:  sess.ID,
		URL: sess.URL,
	}, nil
}

// RetrieveSession fetches the provider record for sessionID and maps it to
// the neutral CheckoutSession shape. Unpaid sessions come back with
// Paid=false; only transport failures are errors.
func (g *StripeGateway) RetrieveSession(ctx context.Context, sessionID string) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	sess, err := g.getFn(sessionID, params)
	if err != nil {
		return nil, fmt.Errorf("%w: retrieve checkout session: %v", ErrGatewayUnavailable, err)
	}
	if sess == nil {
		return nil, fmt.Errorf("%w: retrieve checkout session: empty session", ErrGatewayUnavailable)
	}

	out := &CheckoutSession{
		ID:               sess.ID,
		URL:              sess.URL,
		Paid:             sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
		AmountMinorUnits: sess.AmountTotal,
		Metadata:         sess.Metadata,
	}
	if sess.CustomerDetails != nil {
		out.CustomerEmail = strings.TrimSpace(sess.CustomerDetails.Email)
	}
	return out, nil
}
