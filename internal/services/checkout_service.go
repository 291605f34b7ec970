// Package services – CheckoutService
//
// This file implements the CheckoutService, which starts a hosted checkout
// for a configured project. It validates the buyer-chosen project label and
// offer tier, resolves the fixed tier price, and asks the payment gateway
// for a session. The label and tier travel through the provider as opaque
// session metadata so fulfillment can recover them after the redirect.
//
// Service-level errors (ErrInvalidLabel, ErrUnknownTier) are returned for
// predictable cases so handlers can map them to HTTP results consistently.
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/tbourn/go-storefront-backend/internal/domain"
	"github.com/tbourn/go-storefront-backend/internal/payment"
)

// Session metadata keys used to round-trip the buyer's configuration
// through the payment provider.
const (
	MetaProjectLabel = "project_label"
	MetaOfferTier    = "offer_tier"
)

// tierPrices fixes the checkout amount per offer tier in minor currency
// units. Amounts are never derived from client input beyond tier selection.
var tierPrices = map[domain.OfferTier]int64{
	domain.TierStarter:  900,
	domain.TierPrompt:   1499,
	domain.TierUltimate: 3299,
}

// tierProductNames are the line-item names shown on the hosted payment page.
var tierProductNames = map[domain.OfferTier]string{
	domain.TierStarter:  "SaaS Boilerplate — Starter",
	domain.TierPrompt:   "SaaS Boilerplate — Prompt Pack",
	domain.TierUltimate: "SaaS Boilerplate — Ultimate",
}

// PriceMinorUnits returns the fixed price for a tier. It returns 0 and
// false for unknown tiers.
func PriceMinorUnits(tier domain.OfferTier) (int64, bool) {
	p, ok := tierPrices[tier]
	return p, ok
}

// CheckoutService starts hosted checkout sessions. It holds no mutable
// state and is safe for concurrent use.
type CheckoutService struct {
	// Gateway is the payment provider adapter.
	Gateway payment.Gateway
	// BaseURL is the public origin used to build success/cancel URLs.
	BaseURL string
	// Currency is the ISO 4217 code applied to every session.
	Currency string
}

// NewCheckoutService constructs a CheckoutService.
func NewCheckoutService(gw payment.Gateway, baseURL, currency string) *CheckoutService {
	return &CheckoutService{Gateway: gw, BaseURL: baseURL, Currency: currency}
}

// Start validates the project label and tier, then creates a checkout
// session and returns the hosted payment URL the buyer is redirected to.
//
// Validation happens before any provider call: ErrInvalidLabel when the
// label is empty or unsanitizable, ErrUnknownTier for an unrecognized tier.
// Provider failures surface as wrapped payment.ErrGatewayUnavailable.
func (s *CheckoutService) Start(ctx context.Context, label, rawTier string) (string, error) {
	label = strings.TrimSpace(label)
	if !domain.ValidLabel(label) {
		return "", ErrInvalidLabel
	}
	tier, ok := domain.ParseTier(rawTier)
	if !ok {
		return "", ErrUnknownTier
	}

	sess, err := s.Gateway.CreateSession(ctx, payment.CreateSessionParams{
		ProductName:        tierProductNames[tier],
		ProductDescription: fmt.Sprintf("Project: %s", label),
		AmountMinorUnits:   tierPrices[tier],
		Currency:           s.Currency,
		Metadata: map[string]string{
			MetaProjectLabel: label,
			MetaOfferTier:    string(tier),
		},
		// Stripe substitutes the session token into the placeholder on redirect.
		SuccessURL: s.BaseURL + "/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  s.BaseURL + "/cancel",
	})
	if err != nil {
		return "", err
	}
	return sess.URL, nil
}
