package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/transportagency/bus-ticket-sales/internal/model"
	"github.com/transportagency/bus-ticket-sales/internal/repository"
)

type busBody struct {
	PlateNumber string `json:"plate_number"`
	Model       string `json:"model"`
	Capacity    uint32 `json:"capacity"`
	IsActive    *bool  `json:"is_active"`
}

func (b *busBody) validate() string {
	b.PlateNumber = strings.TrimSpace(b.PlateNumber)
	b.Model = strings.TrimSpace(b.Model)
	if b.PlateNumber == "" {
		return "plate number is required"
	}
	if b.Model == "" {
		return "model is required"
	}
	if b.Capacity < 1 || b.Capacity > 100 {
		return "capacity must be between 1 and 100"
	}
	return ""
}

// CreateBus handles POST /v1/admin/buses.
func (h *AdminHandler) CreateBus(c echo.Context) error {
	var body busBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := body.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	active := true
	if body.IsActive != nil {
		active = *body.IsActive
	}
	bus := &model.Bus{
		PlateNumber: body.PlateNumber,
		Model:       body.Model,
		Capacity:    body.Capacity,
		IsActive:    active,
	}
	if err := h.Buses.Create(c.Request().Context(), bus); err != nil {
		if isDuplicateKey(err) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "plate number already registered"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create bus"})
	}
	return c.JSON(http.StatusCreated, bus)
}

// GetBus handles GET /v1/admin/buses/:id.
func (h *AdminHandler) GetBus(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	bus, err := h.Buses.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrBusNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "bus not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, bus)
}

// ListBuses handles GET /v1/admin/buses.
func (h *AdminHandler) ListBuses(c echo.Context) error {
	items, err := h.Buses.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// UpdateBus handles PUT /v1/admin/buses/:id. Capacity edits do not touch
// seat sets already generated for the bus's trips.
func (h *AdminHandler) UpdateBus(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var body busBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := body.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	ctx := c.Request().Context()
	bus, err := h.Buses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBusNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "bus not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	bus.PlateNumber = body.PlateNumber
	bus.Model = body.Model
	bus.Capacity = body.Capacity
	if body.IsActive != nil {
		bus.IsActive = *body.IsActive
	}
	if err := h.Buses.Update(ctx, bus); err != nil {
		if isDuplicateKey(err) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "plate number already registered"})
		}
		if errors.Is(err, repository.ErrBusNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "bus not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, bus)
}

// DeleteBus handles DELETE /v1/admin/buses/:id. Buses with scheduled trips
// cannot be removed.
func (h *AdminHandler) DeleteBus(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.Buses.Delete(c.Request().Context(), id); err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "bus has scheduled trips"})
		case errors.Is(err, repository.ErrBusNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "bus not found"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}

// GetBusStats handles GET /v1/admin/buses/:id/stats.
func (h *AdminHandler) GetBusStats(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	stats, err := h.Buses.GetStats(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrBusNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "bus not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, stats)
}

// GetBusAvailability handles GET /v1/admin/buses/:id/availability with
// RFC 3339 "start" and "end" query parameters. It reports whether the bus
// is free of overlapping active trips in the window.
func (h *AdminHandler) GetBusAvailability(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	start, err := time.Parse(time.RFC3339, c.QueryParam("start"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid start time"})
	}
	end, err := time.Parse(time.RFC3339, c.QueryParam("end"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid end time"})
	}
	if !end.After(start) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "end must be after start"})
	}
	ctx := c.Request().Context()
	if _, err := h.Buses.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrBusNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "bus not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	free, err := h.Buses.IsAvailable(ctx, id, start, end)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bus_id": id, "available": free})
}
