// Admin HTTP handlers.
//
// This file exposes the read-only revenue report:
//   - GET /admin             (HTML table + revenue total)
//   - GET /admin/orders.json (paginated JSON listing)
//
// Both routes require the exact admin secret as a `secret` query parameter.
// The comparison is constant-time and an empty configured secret disables
// access entirely; mismatches always receive the same fixed denial page.
package handlers

import (
	"crypto/subtle"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tbourn/go-storefront-backend/internal/domain"
	"github.com/tbourn/go-storefront-backend/internal/http/middleware"
	"github.com/tbourn/go-storefront-backend/internal/utils"
)

// tierCaser renders tier tags for display ("starter" → "Starter").
var tierCaser = cases.Title(language.English)

var accessDeniedPage = `<body style="background:#08090A;color:#888;display:flex;justify-content:center;align-items:center;height:100vh;font-family:sans-serif;">Access Denied</body>`

var adminPageTemplate = template.Must(template.New("admin-overview").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>Admin Dashboard</title>
  <style>
    body { font-family: 'Inter', sans-serif; padding: 40px; background: #08090A; color: #eee; }
    h1 { font-weight: 600; letter-spacing: -1px; margin-bottom: 20px; }
    table { width: 100%; border-collapse: collapse; background: #141516; border: 1px solid #333; border-radius: 8px; overflow: hidden; }
    th { text-align: left; padding: 15px; background: #1C1D21; color: #8A8F98; font-size: 0.85rem; text-transform: uppercase; }
    td { padding: 15px; border-bottom: 1px solid #222; color: #ddd; font-size: 0.95rem; }
    tr:last-child td { border-bottom: none; }
    .tag { padding: 4px 8px; background: rgba(94, 106, 210, 0.2); color: #8E96FF; border-radius: 4px; font-size: 0.8rem; }
  </style>
</head>
<body>
  <h1>Admin Overview</h1>
  <p style="color:#888; margin-bottom:30px;">Total Revenue: <span style="color:#fff;">{{.Total}} {{.Currency}}</span></p>
  <table>
    <tr><th>Date</th><th>Customer</th><th>Project</th><th>Tier</th><th>Amount</th></tr>
    {{range .Rows}}<tr>
      <td>{{.Date}}</td>
      <td>{{.Email}}</td>
      <td>{{.Project}}</td>
      <td>{{.Tier}}</td>
      <td><span class="tag">{{.Amount}} {{$.Currency}}</span></td>
    </tr>{{end}}
  </table>
</body>
</html>
`))

type adminRow struct {
	Date    string
	Email   string
	Project string
	Tier    string
	Amount  string
}

type adminPageData struct {
	Total    string
	Currency string
	Rows     []adminRow
}

// authorizeAdmin performs a constant-time comparison of the `secret` query
// parameter against the configured admin secret. An empty configured secret
// never matches anything.
func (h *Handlers) authorizeAdmin(c *gin.Context) bool {
	supplied := c.Query("secret")
	if h.adminSecret == "" || supplied == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(supplied), []byte(h.adminSecret)) == 1
}

// AdminOverview handles GET /admin.
//
// On a secret mismatch it returns a fixed access-denied page with 403,
// regardless of ledger contents. On a match it renders the live listing
// (most recent first) and the true revenue sum.
func (h *Handlers) AdminOverview(c *gin.Context) {
	if !h.authorizeAdmin(c) {
		c.Data(http.StatusForbidden, "text/html; charset=utf-8", []byte(accessDeniedPage))
		return
	}

	report, err := h.report.Overview(c.Request.Context())
	if err != nil {
		middleware.LoggerFrom(c).Error().Err(err).Msg("admin report failed")
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not build report")
		return
	}

	data := adminPageData{
		Total:    formatMinorUnits(report.TotalMinorUnits),
		Currency: strings.ToUpper(h.currency),
		Rows:     make([]adminRow, 0, len(report.Orders)),
	}
	for _, o := range report.Orders {
		data.Rows = append(data.Rows, adminRow{
			Date:    o.CreatedAt.Format("2006-01-02 15:04:05"),
			Email:   o.Email,
			Project: o.ProjectLabel,
			Tier:    tierCaser.String(string(o.Tier)),
			Amount:  formatMinorUnits(o.AmountMinorUnits),
		})
	}

	c.Status(http.StatusOK)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := adminPageTemplate.Execute(c.Writer, data); err != nil {
		middleware.LoggerFrom(c).Warn().Err(err).Msg("admin page render aborted")
	}
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int64 `json:"total_pages"`
}

// AdminOrdersResponse is the JSON envelope for the paginated listing.
type AdminOrdersResponse struct {
	Items           []domain.Order `json:"items"`
	TotalMinorUnits int64          `json:"total_minor_units"`
	Pagination      Pagination     `json:"pagination"`
}

// AdminOrders handles GET /admin/orders.json.
//
// Query parameters `page` and `page_size` select the window (defaults 1/20);
// the revenue total always covers the whole ledger, not just the page.
func (h *Handlers) AdminOrders(c *gin.Context) {
	if !h.authorizeAdmin(c) {
		fail(c, http.StatusForbidden, ErrCodeForbidden, "access denied")
		return
	}

	page := utils.AtoiDefault(c.Query("page"), 1)
	pageSize := utils.AtoiDefault(c.Query("page_size"), 20)
	if pageSize > 100 {
		pageSize = 100
	}

	items, total, err := h.report.ListPage(c.Request.Context(), page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not list orders")
		return
	}
	overview, err := h.report.Overview(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not sum revenue")
		return
	}

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	totalPages := (total + int64(pageSize) - 1) / int64(pageSize)

	ok(c, http.StatusOK, AdminOrdersResponse{
		Items:           items,
		TotalMinorUnits: overview.TotalMinorUnits,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			TotalItems: total,
			TotalPages: totalPages,
		},
	})
}

// formatMinorUnits renders an amount in minor units as a decimal string,
// e.g. 2399 → "23.99".
func formatMinorUnits(m int64) string {
	return fmt.Sprintf("%d.%02d", m/100, m%100)
}
