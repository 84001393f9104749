package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/transportagency/bus-ticket-sales/internal/pdf"
	"github.com/transportagency/bus-ticket-sales/internal/service"
)

// SaleHandler serves the purchase flow: create a sale, fetch the
// confirmation, and download the receipt.
type SaleHandler struct {
	SaleSvc *service.SaleService
}

// NewSaleHandler constructs a SaleHandler and panics on a nil service.
func NewSaleHandler(saleSvc *service.SaleService) *SaleHandler {
	if saleSvc == nil {
		panic("nil service passed to NewSaleHandler")
	}
	return &SaleHandler{SaleSvc: saleSvc}
}

// CreateSale handles POST /v1/sales. On success it returns 201 with the
// joined sale detail, including the freshly minted receipt number. A seat
// lost to a concurrent buyer returns 409; a trip departing inside the sale
// cutoff returns 422.
func (h *SaleHandler) CreateSale(c echo.Context) error {
	var req service.CreateSaleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	detail, err := h.SaleSvc.ProcessSale(c.Request().Context(), req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, detail)
}

// GetSale handles GET /v1/sales/:id.
func (h *SaleHandler) GetSale(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	detail, err := h.SaleSvc.GetSaleByID(c.Request().Context(), id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, detail)
}

// GetSaleConfirmation handles GET /v1/sales/:id/confirmation with the
// post-purchase summary view.
func (h *SaleHandler) GetSaleConfirmation(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	view, err := h.SaleSvc.GetSaleConfirmation(c.Request().Context(), id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

// GetSaleByReceipt handles GET /v1/receipts/:number.
func (h *SaleHandler) GetSaleByReceipt(c echo.Context) error {
	number := strings.TrimSpace(c.Param("number"))
	detail, err := h.SaleSvc.GetSaleByReceiptNumber(c.Request().Context(), number)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, detail)
}

// DownloadReceipt handles GET /v1/receipts/:number/pdf and streams the
// rendered receipt document. Rendering on demand keeps the endpoint
// independent of the queue consumer's receipt directory.
func (h *SaleHandler) DownloadReceipt(c echo.Context) error {
	number := strings.TrimSpace(c.Param("number"))
	detail, err := h.SaleSvc.GetSaleByReceiptNumber(c.Request().Context(), number)
	if err != nil {
		return serviceError(c, err)
	}
	doc, filename, err := pdf.BuildReceipt(*detail)
	if err != nil {
		c.Logger().Errorf("render receipt %s: %v", number, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not render receipt"})
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK, "application/pdf", doc)
}
