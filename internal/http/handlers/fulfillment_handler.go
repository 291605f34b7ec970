// Fulfillment HTTP handler.
//
// This file exposes the endpoint a returning buyer hits after hosted
// checkout:
//   - POST /verify-payment
//
// On a paid session the response body is the generated zip archive itself,
// streamed as it is built. Because archive bytes are committed before the
// last entry is written, failures mid-stream can only be logged — the
// status line is already gone.
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-storefront-backend/internal/bundle"
	"github.com/tbourn/go-storefront-backend/internal/http/middleware"
	"github.com/tbourn/go-storefront-backend/internal/payment"
	"github.com/tbourn/go-storefront-backend/internal/services"
)

// VerifyPaymentRequest is the JSON payload for claiming a purchase.
type VerifyPaymentRequest struct {
	// SessionID is the checkout session token returned by the provider
	// on the success redirect.
	SessionID string `json:"session_id" binding:"required"`
}

// VerifyPayment handles POST /verify-payment.
//
// Responses:
//   - 200 with a zip attachment on a paid session (repeatable; the sale is
//     recorded only on the first call)
//   - 400 payment_not_confirmed when the provider reports unpaid
//   - 400 invalid_label / unknown_tier when session metadata is unusable
//   - 502 gateway_unavailable when the provider cannot be reached
func (h *Handlers) VerifyPayment(c *gin.Context) {
	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.SessionID) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "session_id is required")
		return
	}

	lg := middleware.LoggerFrom(c)

	d, err := h.fulfillment.Deliver(c.Request.Context(), strings.TrimSpace(req.SessionID))
	switch {
	case err == nil:
		// fall through to streaming below
	case errors.Is(err, services.ErrPaymentNotConfirmed):
		fail(c, http.StatusBadRequest, ErrCodePaymentNotConfirmed, "payment not confirmed by provider")
		return
	case errors.Is(err, services.ErrInvalidLabel):
		fail(c, http.StatusBadRequest, ErrCodeInvalidLabel, "session metadata has no usable project label")
		return
	case errors.Is(err, services.ErrUnknownTier):
		fail(c, http.StatusBadRequest, ErrCodeUnknownTier, "session metadata has no usable offer tier")
		return
	case errors.Is(err, payment.ErrGatewayUnavailable):
		lg.Error().Err(err).Msg("session retrieval failed")
		fail(c, http.StatusBadGateway, ErrCodeGatewayUnavailable, "payment provider unavailable")
		return
	default:
		lg.Error().Err(err).Msg("fulfillment failed")
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not fulfill order")
		return
	}

	if d.FirstDelivery {
		middleware.RecordOrder(string(d.Order.Tier), d.Order.AmountMinorUnits)
		lg.Info().
			Str("session_id", d.Order.SessionID).
			Str("tier", string(d.Order.Tier)).
			Int64("amount_minor_units", d.Order.AmountMinorUnits).
			Msg("order recorded")
	}

	c.Header("Content-Type", "application/zip")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", d.Filename))
	c.Status(http.StatusOK)

	if err := bundle.WriteArchive(c.Writer, d.Files); err != nil {
		// Headers and partial content are already committed; nothing to
		// retry and no status to change. The buyer can call again.
		lg.Warn().Err(err).Str("filename", d.Filename).Msg("archive stream aborted")
	}
}
