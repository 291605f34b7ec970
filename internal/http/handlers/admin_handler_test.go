package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-storefront-backend/internal/domain"
	"github.com/tbourn/go-storefront-backend/internal/services"
)

func adminGET(t *testing.T, r *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func sampleReport() *services.Report {
	return &services.Report{
		TotalMinorUnits: 2399,
		Orders: []domain.Order{
			{
				ID:               "o2",
				SessionID:        "cs_2",
				Email:            "second@example.com",
				ProjectLabel:     "beta",
				AmountMinorUnits: 1499,
				Tier:             domain.TierPrompt,
				CreatedAt:        time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC),
			},
			{
				ID:               "o1",
				SessionID:        "cs_1",
				Email:            "first@example.com",
				ProjectLabel:     "alpha",
				AmountMinorUnits: 900,
				Tier:             domain.TierStarter,
				CreatedAt:        time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC),
			},
		},
	}
}

func TestAdminOverview_WrongSecret(t *testing.T) {
	h := New(stubCheckoutSvc{}, stubFulfillmentSvc{}, stubReportSvc{
		overview: func(context.Context) (*services.Report, error) { return sampleReport(), nil },
	}, "s3cret", "eur")
	r := newTestEngine(h)

	for _, path := range []string{"/admin", "/admin?secret=wrong", "/admin?secret="} {
		w := adminGET(t, r, path)
		if w.Code != http.StatusForbidden {
			t.Fatalf("GET %s status = %d, want 403", path, w.Code)
		}
		if !strings.Contains(w.Body.String(), "Access Denied") {
			t.Fatalf("GET %s body = %q", path, w.Body.String())
		}
		// The denial page must not leak any ledger contents.
		if strings.Contains(w.Body.String(), "example.com") {
			t.Fatalf("GET %s leaked order data", path)
		}
	}
}

func TestAdminOverview_EmptySecretDisablesAccess(t *testing.T) {
	h := New(stubCheckoutSvc{}, stubFulfillmentSvc{}, stubReportSvc{}, "", "eur")
	r := newTestEngine(h)

	// Even an empty supplied secret must not match an empty configured one.
	if w := adminGET(t, r, "/admin?secret="); w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
}

func TestAdminOverview_RendersLedger(t *testing.T) {
	h := New(stubCheckoutSvc{}, stubFulfillmentSvc{}, stubReportSvc{
		overview: func(context.Context) (*services.Report, error) { return sampleReport(), nil },
	}, "s3cret", "eur")
	r := newTestEngine(h)

	w := adminGET(t, r, "/admin?secret=s3cret")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{
		"23.99 EUR", // true revenue sum
		"first@example.com",
		"second@example.com",
		"alpha",
		"beta",
		"Starter",
		"Prompt",
		"14.99",
		"9.00",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("admin page missing %q", want)
		}
	}
}

func TestAdminOrders_JSON(t *testing.T) {
	h := New(stubCheckoutSvc{}, stubFulfillmentSvc{}, stubReportSvc{
		overview: func(context.Context) (*services.Report, error) { return sampleReport(), nil },
		listPage: func(_ context.Context, page, pageSize int) ([]domain.Order, int64, error) {
			if page != 2 || pageSize != 1 {
				t.Fatalf("ListPage got (%d, %d)", page, pageSize)
			}
			return sampleReport().Orders[1:], 2, nil
		},
	}, "s3cret", "eur")
	r := newTestEngine(h)

	w := adminGET(t, r, "/admin/orders.json?secret=s3cret&page=2&page_size=1")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	var resp AdminOrdersResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.TotalMinorUnits != 2399 {
		t.Fatalf("total = %d", resp.TotalMinorUnits)
	}
	if len(resp.Items) != 1 || resp.Items[0].SessionID != "cs_1" {
		t.Fatalf("items = %#v", resp.Items)
	}
	p := resp.Pagination
	if p.Page != 2 || p.PageSize != 1 || p.TotalItems != 2 || p.TotalPages != 2 {
		t.Fatalf("pagination = %+v", p)
	}
}

func TestAdminOrders_Forbidden(t *testing.T) {
	h := New(stubCheckoutSvc{}, stubFulfillmentSvc{}, stubReportSvc{}, "s3cret", "eur")
	r := newTestEngine(h)

	w := adminGET(t, r, "/admin/orders.json?secret=nope")
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d", w.Code)
	}
	if resp := decodeError(t, w); resp.Code != ErrCodeForbidden {
		t.Fatalf("code = %q", resp.Code)
	}
}

func TestAdminOrders_PageSizeCap(t *testing.T) {
	var gotSize int
	h := New(stubCheckoutSvc{}, stubFulfillmentSvc{}, stubReportSvc{
		listPage: func(_ context.Context, _ int, pageSize int) ([]domain.Order, int64, error) {
			gotSize = pageSize
			return []domain.Order{}, 0, nil
		},
	}, "s3cret", "eur")
	r := newTestEngine(h)

	if w := adminGET(t, r, "/admin/orders.json?secret=s3cret&page_size=5000"); w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if gotSize != 100 {
		t.Fatalf("page size not capped: %d", gotSize)
	}
}

func TestFormatMinorUnits(t *testing.T) {
	cases := map[int64]string{
		0:    "0.00",
		5:    "0.05",
		900:  "9.00",
		1499: "14.99",
		2399: "23.99",
		3299: "32.99",
	}
	for in, want := range cases {
		if got := formatMinorUnits(in); got != want {
			t.Errorf("formatMinorUnits(%d) = %q, want %q", in, got, want)
		}
	}
}
