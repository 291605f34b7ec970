// Package services – ReportService
//
// This file implements the ReportService behind the admin view. Figures are
// computed live from the order store on every call — no caching — so the
// report always reflects the current ledger. Revenue is the true sum of
// stored amounts, not a per-order multiplier.
package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-storefront-backend/internal/domain"
	"github.com/tbourn/go-storefront-backend/internal/repo"
)

// Report is a point-in-time snapshot of the sales ledger: all orders in
// reverse-chronological order plus total revenue in minor currency units.
type Report struct {
	Orders          []domain.Order
	TotalMinorUnits int64
}

// ReportService provides read-only aggregation over recorded orders.
type ReportService struct {
	// DB is the GORM handle used for all report queries.
	DB *gorm.DB
}

// NewReportService constructs a ReportService.
func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{DB: db}
}

// Overview returns the full listing and revenue total. There is no
// mutation path from the report side.
func (s *ReportService) Overview(ctx context.Context) (*Report, error) {
	orders, err := repo.ListOrders(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	total, err := repo.SumOrderAmounts(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	return &Report{Orders: orders, TotalMinorUnits: total}, nil
}

// ListPage returns a page of orders, most recent first, plus the total
// count. It applies defaults for invalid page/pageSize.
func (s *ReportService) ListPage(ctx context.Context, page, pageSize int) ([]domain.Order, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := repo.CountOrders(ctx, s.DB)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Order{}, 0, nil
	}

	items, err := repo.ListOrdersPage(ctx, s.DB, offset, pageSize)
	return items, total, err
}
