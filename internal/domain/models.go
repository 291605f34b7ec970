// Package domain defines the persistence models and core value types for the
// storefront. The Order type is mapped with GORM and forms the append-only
// sales ledger; OfferTier enumerates the purchasable product variants.
package domain

import (
	"strings"
	"time"
)

// OfferTier identifies a purchasable product variant. The tier determines
// both the checkout price and the content bundle delivered after payment.
type OfferTier string

// Known offer tiers, from cheapest to most complete.
const (
	TierStarter  OfferTier = "starter"
	TierPrompt   OfferTier = "prompt"
	TierUltimate OfferTier = "ultimate"
)

// ParseTier normalizes a raw tier string and reports whether it names a known
// tier. An empty input defaults to TierStarter (the original single-product
// behavior) and is reported as valid.
func ParseTier(s string) (OfferTier, bool) {
	switch OfferTier(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return TierStarter, true
	case TierStarter:
		return TierStarter, true
	case TierPrompt:
		return TierPrompt, true
	case TierUltimate:
		return TierUltimate, true
	default:
		return "", false
	}
}

// Valid reports whether t is one of the known tiers.
func (t OfferTier) Valid() bool {
	switch t {
	case TierStarter, TierPrompt, TierUltimate:
		return true
	}
	return false
}

// Order represents one completed, deduplicated purchase. Orders are created
// exactly once per checkout session, never mutated, and never deleted.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - SessionID: opaque checkout session token issued by the payment
//     provider; unique, and the sole deduplication key for fulfillment.
//   - Email: purchaser contact as attested by the provider after payment.
//   - ProjectLabel: buyer-chosen project name, sanitized to a
//     filesystem-safe token before storage (see SanitizeLabel).
//   - AmountMinorUnits: provider-attested total in the smallest currency
//     unit. Never taken from the pre-payment request body.
//   - Tier: the offer tier that was purchased.
//   - CreatedAt: insertion timestamp managed by GORM.
type Order struct {
	ID               string    `json:"id"                 gorm:"type:char(36);primaryKey"`
	SessionID        string    `json:"session_id"         gorm:"type:varchar(255);not null;uniqueIndex:ux_orders_session"`
	Email            string    `json:"email"              gorm:"type:varchar(255);not null"`
	ProjectLabel     string    `json:"project_label"      gorm:"type:varchar(255);not null"`
	AmountMinorUnits int64     `json:"amount_minor_units" gorm:"not null"`
	Tier             OfferTier `json:"tier"               gorm:"type:varchar(16);not null;check:tier IN ('starter','prompt','ultimate')"`
	CreatedAt        time.Time `json:"created_at"         gorm:"index:idx_orders_created"`
}

// TableName returns the database table name for Order.
func (Order) TableName() string { return "orders" }

// SanitizeLabel converts a buyer-chosen project name into a filesystem-safe
// token: the input is lowercased and every character outside [a-z0-9-] is
// replaced with an underscore. The result is used for archive file names and
// interpolated into generated file contents.
//
//	SanitizeLabel("My Cool App!!") == "my_cool_app__"
func SanitizeLabel(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// ValidLabel reports whether a raw project label survives sanitization with
// at least one letter, digit, or hyphen. Labels that are empty or collapse
// entirely to underscores are rejected before any provider call is made.
func ValidLabel(s string) bool {
	return strings.Trim(SanitizeLabel(s), "_") != ""
}
