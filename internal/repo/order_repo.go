// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Order
// model — the append-only sales ledger.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When an order is not found, functions return ErrNotFound
//     (an alias of gorm.ErrRecordNotFound).
//   - CreateOrder returns ErrDuplicate when the unique index on session_id
//     is violated. Callers racing on the same checkout session must treat
//     this as a benign outcome, not a hard failure.
//   - On other DB errors (connectivity issues, etc.), the raw gorm error
//     is propagated.
package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-storefront-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// ErrDuplicate indicates that an order already exists for the given
// checkout session identifier.
var ErrDuplicate = errors.New("duplicate order")

// CreateOrder inserts a new Order row for the given checkout session. The
// order ID is a randomly generated UUID and CreatedAt is set to UTC.
//
// The unique index on session_id is the single serialization point for
// concurrent fulfillment of the same session: the loser of an insert race
// receives ErrDuplicate and should proceed as if the insert had succeeded.
func CreateOrder(ctx context.Context, db *gorm.DB, o *domain.Order) (*domain.Order, error) {
	rec := &domain.Order{
		ID:               uuid.NewString(),
		SessionID:        o.SessionID,
		Email:            o.Email,
		ProjectLabel:     o.ProjectLabel,
		AmountMinorUnits: o.AmountMinorUnits,
		Tier:             o.Tier,
		CreatedAt:        time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(rec).Error; err != nil {
		// glebarez/sqlite often returns plain-text errors for UNIQUE violations.
		low := strings.ToLower(err.Error())
		if errors.Is(err, gorm.ErrDuplicatedKey) ||
			strings.Contains(low, "unique constraint failed") ||
			strings.Contains(low, "constraint failed: unique") {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return rec, nil
}

// FindOrderBySession fetches the order recorded for a checkout session, or
// ErrNotFound if the session has not been fulfilled yet.
func FindOrderBySession(ctx context.Context, db *gorm.DB, sessionID string) (*domain.Order, error) {
	var o domain.Order
	err := db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// ListOrders returns all orders, most recent first. It returns an empty
// slice when the ledger is empty. On DB error, it returns the error.
func ListOrders(ctx context.Context, db *gorm.DB) ([]domain.Order, error) {
	var out []domain.Order
	err := db.WithContext(ctx).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}

// CountOrders returns the total number of recorded orders.
func CountOrders(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Order{}).
		Count(&total).Error
	return total, err
}

// ListOrdersPage returns a paginated slice of orders, most recent first.
// Use CountOrders to obtain the total for pagination metadata.
//
// The caller is responsible for computing offset and limit (e.g., (page-1)*pageSize).
func ListOrdersPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Order, error) {
	var out []domain.Order
	err := db.WithContext(ctx).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// SumOrderAmounts returns the total revenue across all orders in minor
// currency units. An empty ledger sums to zero.
func SumOrderAmounts(ctx context.Context, db *gorm.DB) (int64, error) {
	var row struct {
		Total int64
	}
	err := db.WithContext(ctx).
		Model(&domain.Order{}).
		Select("COALESCE(SUM(amount_minor_units), 0) AS total").
		Scan(&row).Error
	return row.Total, err
}
