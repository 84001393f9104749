package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/transportagency/bus-ticket-sales/internal/repository"
	"github.com/transportagency/bus-ticket-sales/internal/service"
)

// PublicHandler serves the unauthenticated browse surface: upcoming trips,
// trip search, and per-trip seat availability.
type PublicHandler struct {
	Trips   *repository.TripRepo
	SeatSvc *service.SeatService
}

// NewPublicHandler constructs a PublicHandler and panics on nil
// dependencies.
func NewPublicHandler(trips *repository.TripRepo, seatSvc *service.SeatService) *PublicHandler {
	if trips == nil || seatSvc == nil {
		panic("nil dependency passed to NewPublicHandler")
	}
	return &PublicHandler{Trips: trips, SeatSvc: seatSvc}
}

// ListTrips handles GET /v1/trips: active trips departing after now,
// soonest first.
func (h *PublicHandler) ListTrips(c echo.Context) error {
	items, err := h.Trips.ListUpcoming(c.Request().Context(), time.Now().UTC())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// SearchTrips handles GET /v1/trips/search with origin, destination, date
// range, price range and only_available query parameters.
func (h *PublicHandler) SearchTrips(c echo.Context) error {
	q := repository.TripSearchQuery{
		Origin:        strings.TrimSpace(c.QueryParam("origin")),
		Destination:   strings.TrimSpace(c.QueryParam("destination")),
		OnlyAvailable: c.QueryParam("only_available") == "true",
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
	if v := c.QueryParam("min_price"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid min_price"})
		}
		q.MinPrice = &f
	}
	if v := c.QueryParam("max_price"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid max_price"})
		}
		q.MaxPrice = &f
	}

	items, err := h.Trips.Search(c.Request().Context(), q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetTrip handles GET /v1/trips/:id with the joined route/bus/seat-count
// summary.
func (h *PublicHandler) GetTrip(c echo.Context) error {
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

// GetTripSeats handles GET /v1/trips/:id/seats. The full seat map, with
// occupancy, lets clients render the pick-a-seat view.
func (h *PublicHandler) GetTripSeats(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	ctx := c.Request().Context()
	sum, err := h.Trips.GetSummary(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTripNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "trip not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	seats, err := h.SeatSvc.GetSeatsByTrip(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	available, err := h.SeatSvc.CountAvailable(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"trip":            sum,
		"items":           seats,
		"available_count": available,
	})
}

// GetAvailableSeats handles GET /v1/trips/:id/seats/available.
func (h *PublicHandler) GetAvailableSeats(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	ctx := c.Request().Context()
	if _, err := h.Trips.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrTripNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "trip not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	seats, err := h.SeatSvc.GetAvailableSeats(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": seats})
}

// GetSeatAvailability handles GET /v1/seats/:id/availability. Missing
// seats report available=false rather than 404; the widget polling this
// only needs a yes/no.
func (h *PublicHandler) GetSeatAvailability(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	available := h.SeatSvc.IsSeatAvailable(c.Request().Context(), id)
	return c.JSON(http.StatusOK, echo.Map{"seat_id": id, "available": available})
}
