// Package payment abstracts the hosted-checkout provider behind a small
// Gateway interface so the fulfillment pipeline depends only on two
// operations: creating a checkout session and retrieving its outcome.
//
// No payment state is held locally; everything lives with the provider
// between the two calls. Implementations must be safe for concurrent use.
package payment

import (
	"context"
	"errors"
)

// ErrGatewayUnavailable indicates the provider could not be reached or
// returned a transport-level error. Callers surface it as a server error
// and do not retry automatically.
var ErrGatewayUnavailable = errors.New("payment gateway unavailable")

// CreateSessionParams describes a single fixed-price checkout to initiate.
//
// Metadata carries the buyer's chosen project label and offer tier opaquely
// through the provider so they can be recovered after the redirect; the
// amount is fixed server-side per tier and never derived from client input.
type CreateSessionParams struct {
	ProductName        string
	ProductDescription string
	AmountMinorUnits   int64
	Currency           string
	Metadata           map[string]string
	SuccessURL         string
	CancelURL          string
}

// CheckoutSession is the provider-attested view of one checkout attempt.
//
// After CreateSession only ID and URL are meaningful; after RetrieveSession
// the remaining fields reflect the provider's authoritative record.
type CheckoutSession struct {
	// ID is the opaque session token issued by the provider.
	ID string
	// URL is the hosted payment page the buyer is redirected to.
	URL string
	// Paid reports whether the provider recorded a completed payment.
	Paid bool
	// AmountMinorUnits is the total the provider charged, in minor units.
	AmountMinorUnits int64
	// CustomerEmail is the purchaser contact collected by the provider.
	CustomerEmail string
	// Metadata echoes the key/value pairs attached at session creation.
	Metadata map[string]string
}

// Gateway is the provider contract consumed by the checkout and fulfillment
// services. Production code uses StripeGateway; tests substitute a double.
type Gateway interface {
	// CreateSession starts a hosted checkout and returns the session token
	// and redirect URL. Transport failures wrap ErrGatewayUnavailable.
	CreateSession(ctx context.Context, p CreateSessionParams) (*CheckoutSession, error)

	// RetrieveSession fetches the provider's record for a session token.
	// An unpaid or incomplete session is returned with Paid=false, not an
	// error; transport failures wrap ErrGatewayUnavailable.
	RetrieveSession(ctx context.Context, sessionID string) (*CheckoutSession, error)
}
