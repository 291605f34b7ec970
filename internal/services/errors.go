// Package services defines the business logic for checkout, fulfillment,
// and the admin revenue report. This file centralizes common service-level
// error values so that they can be consistently returned by service methods
// and checked by callers.
//
// These errors are intended for internal use by the service layer and
// translation into user-facing messages or HTTP status codes should be
// performed at the handler layer. Gateway transport failures are not
// duplicated here; they surface as payment.ErrGatewayUnavailable.
package services

import "errors"

var (
	// ErrInvalidLabel is returned when a project label is empty or collapses
	// entirely to underscores after sanitization. It is raised before any
	// provider call is made.
	ErrInvalidLabel = errors.New("project label is empty or unsanitizable")

	// ErrUnknownTier is returned when a requested offer tier does not name
	// one of the known product variants.
	ErrUnknownTier = errors.New("unknown offer tier")

	// ErrPaymentNotConfirmed is returned when the provider reports a session
	// as unpaid or incomplete. The client may re-invoke with the same token
	// later; the service itself never polls.
	ErrPaymentNotConfirmed = errors.New("payment not confirmed by provider")
)
