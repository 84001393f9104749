package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/transportagency/bus-ticket-sales/internal/repository"
)

// SearchSales handles GET /v1/admin/sales. Filters arrive as query
// parameters; dates use YYYY-MM-DD, amounts are decimals, and
// include_cancelled=true widens the listing to voided sales.
func (h *AdminHandler) SearchSales(c echo.Context) error {
	q := repository.SaleSearchQuery{
		CustomerName:     strings.TrimSpace(c.QueryParam("customer_name")),
		DocumentNumber:   strings.TrimSpace(c.QueryParam("document_number")),
		ReceiptNumber:    strings.TrimSpace(c.QueryParam("receipt_number")),
		IncludeCancelled: c.QueryParam("include_cancelled") == "true",
	}
	if v := c.QueryParam("start_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid start_date"})
		}
		q.StartDate = &t
	}
	if v := c.QueryParam("end_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid end_date"})
		}
		q.EndDate = &t
	}
	if v := c.QueryParam("trip_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid trip_id"})
		}
		q.TripID = id
	}
	if v := c.QueryParam("min_amount"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid min_amount"})
		}
		q.MinAmount = &f
	}
	if v := c.QueryParam("max_amount"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid max_amount"})
		}
		q.MaxAmount = &f
	}

	items, err := h.SaleSvc.SearchSales(c.Request().Context(), q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetRecentSales handles GET /v1/admin/sales/recent?count=N.
func (h *AdminHandler) GetRecentSales(c echo.Context) error {
	count := 10
	if v := c.QueryParam("count"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 500 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "count must be between 1 and 500"})
		}
		count = n
	}
	items, err := h.SaleSvc.GetRecentSales(c.Request().Context(), count)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetDailyReport handles GET /v1/admin/sales/report?date=YYYY-MM-DD and
// returns the day's completed sales plus the revenue summary. Date
// defaults to today (UTC).
func (h *AdminHandler) GetDailyReport(c echo.Context) error {
	day := time.Now().UTC()
	if v := c.QueryParam("date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date"})
		}
		day = t
	}
	ctx := c.Request().Context()
	items, err := h.SaleSvc.GetSalesByDate(ctx, day)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	total, count, err := h.SaleSvc.DailyRevenue(ctx, day)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"date":          day.Format("2006-01-02"),
		"total_revenue": total,
		"sale_count":    count,
		"items":         items,
	})
}

// CancelSale handles DELETE /v1/admin/sales/:id. The seat is released and
// the sale kept as a cancelled record.
func (h *AdminHandler) CancelSale(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.SaleSvc.CancelSale(c.Request().Context(), id); err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetDashboard handles GET /v1/admin/dashboard: today's completed-sale
// count and revenue plus the upcoming trip list, for the back-office
// landing page.
func (h *AdminHandler) GetDashboard(c echo.Context) error {
	ctx := c.Request().Context()
	now := time.Now().UTC()

	total, count, err := h.SaleSvc.DailyRevenue(ctx, now)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	upcoming, err := h.Trips.ListUpcoming(ctx, now)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"date":           now.Format("2006-01-02"),
		"sales_today":    count,
		"revenue_today":  total,
		"upcoming_trips": upcoming,
	})
}

// ListCustomers handles GET /v1/admin/customers.
func (h *AdminHandler) ListCustomers(c echo.Context) error {
	items, err := h.Customers.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetSalesByCustomer handles GET /v1/admin/sales/customer/:id and lists
// the completed sales of one customer record.
func (h *AdminHandler) GetSalesByCustomer(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	items, err := h.SaleSvc.GetSalesByCustomer(c.Request().Context(), id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetCustomerSales handles GET /v1/admin/customers/:document/sales and
// lists the completed sales bought under one document number.
func (h *AdminHandler) GetCustomerSales(c echo.Context) error {
	document := strings.TrimSpace(c.Param("document"))
	items, err := h.SaleSvc.GetSalesByCustomerDocument(c.Request().Context(), document)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
