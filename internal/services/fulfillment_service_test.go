package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/tbourn/go-storefront-backend/internal/domain"
	"github.com/tbourn/go-storefront-backend/internal/payment"
	"github.com/tbourn/go-storefront-backend/internal/repo"
)

func paidSession(id string, amount int64, label, tier string) *payment.CheckoutSession {
	return &payment.CheckoutSession{
		ID:               id,
		Paid:             true,
		AmountMinorUnits: amount,
		CustomerEmail:    "buyer@example.com",
		Metadata: map[string]string{
			MetaProjectLabel: label,
			MetaOfferTier:    tier,
		},
	}
}

func TestFulfillmentService_Deliver_RecordsOrderAndRendersBundle(t *testing.T) {
	db := newServicesDB(t)
	svc := NewFulfillmentService(db, stubGateway{
		get: func(_ context.Context, id string) (*payment.CheckoutSession, error) {
			return paidSession(id, 3299, "demo", "ultimate"), nil
		},
	})

	d, err := svc.Deliver(context.Background(), "cs_test_deliver")
	if err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	if !d.FirstDelivery {
		t.Fatal("first call must report FirstDelivery")
	}
	if d.Filename != "demo-ultimate.zip" {
		t.Fatalf("filename = %q", d.Filename)
	}
	if len(d.Files) == 0 {
		t.Fatal("no bundle files rendered")
	}

	o := d.Order
	if o.SessionID != "cs_test_deliver" || o.Email != "buyer@example.com" ||
		o.ProjectLabel != "demo" || o.AmountMinorUnits != 3299 || o.Tier != domain.TierUltimate {
		t.Fatalf("unexpected recorded order: %+v", o)
	}

	got, err := repo.FindOrderBySession(context.Background(), db, "cs_test_deliver")
	if err != nil {
		t.Fatalf("order not persisted: %v", err)
	}
	if got.AmountMinorUnits != 3299 {
		t.Fatalf("persisted amount = %d", got.AmountMinorUnits)
	}
}

func TestFulfillmentService_Deliver_RepeatIsIdempotent(t *testing.T) {
	db := newServicesDB(t)
	svc := NewFulfillmentService(db, stubGateway{
		get: func(_ context.Context, id string) (*payment.CheckoutSession, error) {
			return paidSession(id, 900, "demo", "starter"), nil
		},
	})

	first, err := svc.Deliver(context.Background(), "cs_test_repeat")
	if err != nil {
		t.Fatalf("first Deliver: %v", err)
	}
	second, err := svc.Deliver(context.Background(), "cs_test_repeat")
	if err != nil {
		t.Fatalf("second Deliver: %v", err)
	}

	if !first.FirstDelivery || second.FirstDelivery {
		t.Fatalf("FirstDelivery flags = %v/%v, want true/false", first.FirstDelivery, second.FirstDelivery)
	}
	if second.Order.ID != first.Order.ID {
		t.Fatalf("second delivery re-recorded the sale: %q vs %q", second.Order.ID, first.Order.ID)
	}
	if len(second.Files) != len(first.Files) {
		t.Fatal("re-download must yield the same bundle")
	}

	n, err := repo.CountOrders(context.Background(), db)
	if err != nil || n != 1 {
		t.Fatalf("CountOrders = (%d, %v), want (1, nil)", n, err)
	}
}

func TestFulfillmentService_Deliver_UnpaidSession(t *testing.T) {
	db := newServicesDB(t)
	svc := NewFulfillmentService(db, stubGateway{
		get: func(_ context.Context, id string) (*payment.CheckoutSession, error) {
			return &payment.CheckoutSession{ID: id, Paid: false}, nil
		},
	})

	if _, err := svc.Deliver(context.Background(), "cs_test_unpaid"); !errors.Is(err, ErrPaymentNotConfirmed) {
		t.Fatalf("err = %v, want ErrPaymentNotConfirmed", err)
	}

	// No order may be recorded for an unpaid session.
	n, err := repo.CountOrders(context.Background(), db)
	if err != nil || n != 0 {
		t.Fatalf("CountOrders = (%d, %v), want (0, nil)", n, err)
	}
}

func TestFulfillmentService_Deliver_SanitizesLabelFromMetadata(t *testing.T) {
	db := newServicesDB(t)
	svc := NewFulfillmentService(db, stubGateway{
		get: func(_ context.Context, id string) (*payment.CheckoutSession, error) {
			return paidSession(id, 900, "My Cool App!!", "starter"), nil
		},
	})

	d, err := svc.Deliver(context.Background(), "cs_test_sanitize")
	if err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	if d.Order.ProjectLabel != "my_cool_app__" {
		t.Fatalf("stored label = %q, want %q", d.Order.ProjectLabel, "my_cool_app__")
	}
	if d.Filename != "my_cool_app__-starter.zip" {
		t.Fatalf("filename = %q", d.Filename)
	}
}

func TestFulfillmentService_Deliver_BadMetadata(t *testing.T) {
	db := newServicesDB(t)

	svcNoLabel := NewFulfillmentService(db, stubGateway{
		get: func(_ context.Context, id string) (*payment.CheckoutSession, error) {
			return paidSession(id, 900, "!!!", "starter"), nil
		},
	})
	if _, err := svcNoLabel.Deliver(context.Background(), "cs_test_nolabel"); !errors.Is(err, ErrInvalidLabel) {
		t.Fatalf("unsanitizable label err = %v, want ErrInvalidLabel", err)
	}

	svcBadTier := NewFulfillmentService(db, stubGateway{
		get: func(_ context.Context, id string) (*payment.CheckoutSession, error) {
			return paidSession(id, 900, "demo", "gold"), nil
		},
	})
	if _, err := svcBadTier.Deliver(context.Background(), "cs_test_badtier"); !errors.Is(err, ErrUnknownTier) {
		t.Fatalf("unknown tier err = %v, want ErrUnknownTier", err)
	}

	n, _ := repo.CountOrders(context.Background(), db)
	if n != 0 {
		t.Fatalf("orders recorded for rejected metadata: %d", n)
	}
}

func TestFulfillmentService_Deliver_GatewayErrorPassthrough(t *testing.T) {
	db := newServicesDB(t)
	svc := NewFulfillmentService(db, stubGateway{
		get: func(context.Context, string) (*payment.CheckoutSession, error) {
			return nil, fmt.Errorf("%w: boom", payment.ErrGatewayUnavailable)
		},
	})
	if _, err := svc.Deliver(context.Background(), "cs_x"); !errors.Is(err, payment.ErrGatewayUnavailable) {
		t.Fatalf("err = %v, want ErrGatewayUnavailable", err)
	}
}

func TestFulfillmentService_Deliver_InsertRaceLoserReadsWinner(t *testing.T) {
	db := newServicesDB(t)

	// Pre-insert the winner's row to simulate losing the race between the
	// existence check and the insert.
	winner, err := repo.CreateOrder(context.Background(), db, &domain.Order{
		SessionID:        "cs_test_race",
		Email:            "buyer@example.com",
		ProjectLabel:     "demo",
		AmountMinorUnits: 900,
		Tier:             domain.TierStarter,
	})
	if err != nil {
		t.Fatalf("seed winner: %v", err)
	}

	svc := NewFulfillmentService(db, stubGateway{
		get: func(_ context.Context, id string) (*payment.CheckoutSession, error) {
			return paidSession(id, 900, "demo", "starter"), nil
		},
	})

	d, err := svc.Deliver(context.Background(), "cs_test_race")
	if err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	if d.FirstDelivery {
		t.Fatal("race loser must not report FirstDelivery")
	}
	if d.Order.ID != winner.ID {
		t.Fatalf("expected winner's order %q, got %q", winner.ID, d.Order.ID)
	}
}
