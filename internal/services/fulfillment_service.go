// Package services – FulfillmentService
//
// This file implements the FulfillmentService, the pipeline that turns a
// returning checkout session token into a delivered bundle. A delivery
// moves through three states: awaiting confirmation (provider lookup),
// confirmed (payment attested), delivered (order recorded, bundle rendered).
// An unpaid session is rejected and the pipeline stops; the client may call
// again later with the same token if the provider state changes.
//
// Recording the sale is idempotent: the order store's unique session index
// is the sole serialization point, and losing the insert race to a
// concurrent duplicate call is treated as success. Delivery itself is
// repeatable — a paid session can download its bundle any number of times.
package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/tbourn/go-storefront-backend/internal/bundle"
	"github.com/tbourn/go-storefront-backend/internal/domain"
	"github.com/tbourn/go-storefront-backend/internal/payment"
	"github.com/tbourn/go-storefront-backend/internal/repo"
)

// Delivery is the result of a successful fulfillment: the rendered bundle
// files, the download filename, and the order fields that were recorded
// (or found already recorded) for the session.
type Delivery struct {
	Files    []bundle.File
	Filename string
	Order    *domain.Order
	// FirstDelivery is true when this call recorded the sale; false when
	// the order already existed and this is a re-download.
	FirstDelivery bool
}

// FulfillmentService confirms payment and delivers purchased bundles.
// It is context-aware and safe for concurrent use, including concurrent
// calls for the same session token.
type FulfillmentService struct {
	// DB is the GORM handle used for order persistence.
	DB *gorm.DB
	// Gateway is the payment provider adapter.
	Gateway payment.Gateway
}

// NewFulfillmentService constructs a FulfillmentService.
func NewFulfillmentService(db *gorm.DB, gw payment.Gateway) *FulfillmentService {
	return &FulfillmentService{DB: db, Gateway: gw}
}

// Deliver confirms payment for sessionID and returns the purchased bundle.
//
// Semantics:
//   - The provider's session record is authoritative: amount, purchaser
//     email, label, and tier all come from it, never from the caller.
//   - An unpaid session yields ErrPaymentNotConfirmed.
//   - The sale is recorded exactly once per session; a duplicate insert
//     (client retry racing an earlier call) is a silent no-op and delivery
//     proceeds regardless.
//   - Metadata missing or mangled at the provider yields ErrInvalidLabel /
//     ErrUnknownTier rather than a mislabeled bundle.
func (s *FulfillmentService) Deliver(ctx context.Context, sessionID string) (*Delivery, error) {
	sess, err := s.Gateway.RetrieveSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !sess.Paid {
		return nil, ErrPaymentNotConfirmed
	}

	label := domain.SanitizeLabel(sess.Metadata[MetaProjectLabel])
	if strings.Trim(label, "_") == "" {
		return nil, ErrInvalidLabel
	}
	tier, ok := domain.ParseTier(sess.Metadata[MetaOfferTier])
	if !ok {
		return nil, ErrUnknownTier
	}

	order, first, err := s.recordOnce(ctx, sessionID, sess, label, tier)
	if err != nil {
		return nil, err
	}

	files, err := bundle.Render(tier, label)
	if err != nil {
		return nil, err
	}
	return &Delivery{
		Files:         files,
		Filename:      bundle.Filename(label, tier),
		Order:         order,
		FirstDelivery: first,
	}, nil
}

// recordOnce looks up the order for sessionID and inserts it when absent.
// The unique index on session_id resolves concurrent first deliveries; the
// race loser re-reads the winner's row.
func (s *FulfillmentService) recordOnce(ctx context.Context, sessionID string, sess *payment.CheckoutSession, label string, tier domain.OfferTier) (*domain.Order, bool, error) {
	existing, err := repo.FindOrderBySession(ctx, s.DB, sessionID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return nil, false, err
	}

	created, err := repo.CreateOrder(ctx, s.DB, &domain.Order{
		SessionID:        sessionID,
		Email:            sess.CustomerEmail,
		ProjectLabel:     label,
		AmountMinorUnits: sess.AmountMinorUnits,
		Tier:             tier,
	})
	if err == nil {
		return created, true, nil
	}
	if errors.Is(err, repo.ErrDuplicate) {
		// Lost the insert race to a concurrent call for the same session.
		winner, ferr := repo.FindOrderBySession(ctx, s.DB, sessionID)
		if ferr != nil {
			return nil, false, ferr
		}
		return winner, false, nil
	}
	return nil, false, err
}
