// Checkout HTTP handlers.
//
// This file exposes the endpoint that starts a hosted checkout:
//   - POST /create-checkout-session
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-storefront-backend/internal/domain"
	"github.com/tbourn/go-storefront-backend/internal/http/middleware"
	"github.com/tbourn/go-storefront-backend/internal/payment"
	"github.com/tbourn/go-storefront-backend/internal/services"
)

//
// Service contracts (context-aware)
//

// CheckoutService starts hosted checkout sessions for configured projects.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type CheckoutService interface {
	// Start validates label/tier and returns the hosted payment URL.
	Start(ctx context.Context, label, tier string) (string, error)
}

// FulfillmentService confirms payment and delivers purchased bundles.
//
// Implementations should be safe for concurrent use, including concurrent
// calls for the same session token.
type FulfillmentService interface {
	// Deliver confirms payment for a session and returns the bundle.
	Deliver(ctx context.Context, sessionID string) (*services.Delivery, error)
}

// ReportService provides read-only aggregation over recorded orders.
type ReportService interface {
	// Overview returns the full listing and revenue total.
	Overview(ctx context.Context) (*services.Report, error)
	// ListPage returns a page of orders and the total count.
	ListPage(ctx context.Context, page, pageSize int) ([]domain.Order, int64, error)
}

//
// Handler wiring
//

// Handlers groups the storefront HTTP endpoints. It depends on abstract
// service interfaces to keep transport concerns separate from business logic.
type Handlers struct {
	checkout    CheckoutService
	fulfillment FulfillmentService
	report      ReportService
	adminSecret string
	currency    string
}

// New constructs a Handlers instance bound to the given services.
// An empty adminSecret disables the admin view entirely.
func New(checkout CheckoutService, fulfillment FulfillmentService, report ReportService, adminSecret, currency string) *Handlers {
	return &Handlers{
		checkout:    checkout,
		fulfillment: fulfillment,
		report:      report,
		adminSecret: adminSecret,
		currency:    currency,
	}
}

//
// DTOs
//

// CreateCheckoutSessionRequest is the JSON payload for starting a checkout.
type CreateCheckoutSessionRequest struct {
	// ProjectLabel is the buyer-chosen project name (sanitized server-side).
	ProjectLabel string `json:"project_label" binding:"required"`
	// OfferTier selects the product variant; empty defaults to "starter".
	OfferTier string `json:"offer_tier"`
}

// CreateCheckoutSessionResponse carries the hosted payment page URL.
type CreateCheckoutSessionResponse struct {
	URL string `json:"url"`
}

// CreateCheckoutSession handles POST /create-checkout-session.
//
// Responses:
//   - 200 {url} on success
//   - 400 invalid_label / unknown_tier for rejected input
//   - 502 gateway_unavailable when the provider cannot be reached
func (h *Handlers) CreateCheckoutSession(c *gin.Context) {
	var req CreateCheckoutSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid request body")
		return
	}

	url, err := h.checkout.Start(c.Request.Context(), req.ProjectLabel, req.OfferTier)
	switch {
	case err == nil:
		ok(c, http.StatusOK, CreateCheckoutSessionResponse{URL: url})
	case errors.Is(err, services.ErrInvalidLabel):
		fail(c, http.StatusBadRequest, ErrCodeInvalidLabel, "project label is empty or unsanitizable")
	case errors.Is(err, services.ErrUnknownTier):
		fail(c, http.StatusBadRequest, ErrCodeUnknownTier, "unknown offer tier")
	case errors.Is(err, payment.ErrGatewayUnavailable):
		middleware.LoggerFrom(c).Error().Err(err).Msg("checkout session creation failed")
		fail(c, http.StatusBadGateway, ErrCodeGatewayUnavailable, "payment provider unavailable")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not start checkout")
	}
}
