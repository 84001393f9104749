package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/transportagency/bus-ticket-sales/internal/model"
	"github.com/transportagency/bus-ticket-sales/internal/repository"
)

type tripBody struct {
	BusID         uint64    `json:"bus_id"`
	RouteID       uint64    `json:"route_id"`
	DepartureTime time.Time `json:"departure_time"`
	ArrivalTime   time.Time `json:"arrival_time"`
	Price         float64   `json:"price"`
}

func (b *tripBody) validate() string {
	if b.BusID == 0 {
		return "bus id is required"
	}
	if b.RouteID == 0 {
		return "route id is required"
	}
	if b.DepartureTime.IsZero() || b.ArrivalTime.IsZero() {
		return "departure and arrival times are required"
	}
	if !b.ArrivalTime.After(b.DepartureTime) {
		return "arrival must be after departure"
	}
	if b.Price <= 0 || b.Price > 9999.99 {
		return "price must be between 0.01 and 9999.99"
	}
	return ""
}

// CreateTrip handles POST /v1/admin/trips. The trip is created inactive;
// activation generates the seat set and opens it for sale. The assigned
// bus must be active and free of overlapping active trips in the schedule
// window.
func (h *AdminHandler) CreateTrip(c echo.Context) error {
	var body tripBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := body.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	ctx := c.Request().Context()

	bus, err := h.Buses.GetByID(ctx, body.BusID)
	if err != nil {
		if errors.Is(err, repository.ErrBusNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "bus not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !bus.IsActive {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "bus is not active"})
	}
	rt, err := h.Routes.GetByID(ctx, body.RouteID)
	if err != nil {
		if errors.Is(err, repository.ErrRouteNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "route not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !rt.IsActive {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "route is not active"})
	}
	free, err := h.Buses.IsAvailable(ctx, body.BusID, body.DepartureTime, body.ArrivalTime)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !free {
		return c.JSON(http.StatusConflict, echo.Map{"error": "bus already scheduled in this window"})
	}

	trip := &model.Trip{
		BusID:         body.BusID,
		RouteID:       body.RouteID,
		DepartureTime: body.DepartureTime.UTC(),
		ArrivalTime:   body.ArrivalTime.UTC(),
		Price:         body.Price,
		IsActive:      false,
	}
	if err := h.Trips.Create(ctx, trip); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create trip"})
	}
	return c.JSON(http.StatusCreated, trip)
}

// GetTrip handles GET /v1/admin/trips/:id and returns the joined summary.
func (h *AdminHandler) GetTrip(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	sum, err := h.Trips.GetSummary(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrTripNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "trip not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, sum)
}

// UpdateTrip handles PUT /v1/admin/trips/:id. Schedule or price edits on a
// trip with sold seats are allowed; buyers keep their seats.
func (h *AdminHandler) UpdateTrip(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var body tripBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := body.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	ctx := c.Request().Context()
	trip, err := h.Trips.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTripNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "trip not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	trip.BusID = body.BusID
	trip.RouteID = body.RouteID
	trip.DepartureTime = body.DepartureTime.UTC()
	trip.ArrivalTime = body.ArrivalTime.UTC()
	trip.Price = body.Price
	if err := h.Trips.Update(ctx, trip); err != nil {
		if errors.Is(err, repository.ErrTripNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "trip not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, trip)
}

// ActivateTrip handles POST /v1/admin/trips/:id/activate. First activation
// generates the seat set sized to the bus capacity; re-activation after a
// deactivation reuses the existing seats.
func (h *AdminHandler) ActivateTrip(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	ctx := c.Request().Context()
	trip, err := h.Trips.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTripNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "trip not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	bus, err := h.Buses.GetByID(ctx, trip.BusID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if err := h.SeatSvc.ActivateTrip(ctx, id, int(bus.Capacity)); err != nil {
		return serviceError(c, err)
	}
	sum, err := h.Trips.GetSummary(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, sum)
}

// DeactivateTrip handles POST /v1/admin/trips/:id/deactivate. The trip
// disappears from public listings and its seats stop being sellable.
func (h *AdminHandler) DeactivateTrip(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.SeatSvc.DeactivateTrip(c.Request().Context(), id); err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
