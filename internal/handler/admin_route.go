package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/transportagency/bus-ticket-sales/internal/model"
	"github.com/transportagency/bus-ticket-sales/internal/repository"
)

type routeBody struct {
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	DistanceKM  float64 `json:"distance_km"`
	BasePrice   float64 `json:"base_price"`
	IsActive    *bool   `json:"is_active"`
}

func (b *routeBody) validate() string {
	b.Origin = strings.TrimSpace(b.Origin)
	b.Destination = strings.TrimSpace(b.Destination)
	if b.Origin == "" {
		return "origin is required"
	}
	if b.Destination == "" {
		return "destination is required"
	}
	if strings.EqualFold(b.Origin, b.Destination) {
		return "origin and destination must differ"
	}
	if b.DistanceKM <= 0 {
		return "distance must be greater than 0"
	}
	if b.BasePrice <= 0 || b.BasePrice > 9999.99 {
		return "base price must be between 0.01 and 9999.99"
	}
	return ""
}

// CreateRoute handles POST /v1/admin/routes.
func (h *AdminHandler) CreateRoute(c echo.Context) error {
	var body routeBody
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
	rt := &model.Route{
		Origin:      body.Origin,
		Destination: body.Destination,
		DistanceKM:  body.DistanceKM,
		BasePrice:   body.BasePrice,
		IsActive:    active,
	}
	if err := h.Routes.Create(c.Request().Context(), rt); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create route"})
	}
	return c.JSON(http.StatusCreated, rt)
}

// GetRoute handles GET /v1/admin/routes/:id.
func (h *AdminHandler) GetRoute(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	rt, err := h.Routes.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrRouteNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "route not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, rt)
}

// ListRoutes handles GET /v1/admin/routes.
func (h *AdminHandler) ListRoutes(c echo.Context) error {
	items, err := h.Routes.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// UpdateRoute handles PUT /v1/admin/routes/:id.
func (h *AdminHandler) UpdateRoute(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var body routeBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := body.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	ctx := c.Request().Context()
	rt, err := h.Routes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRouteNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "route not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	rt.Origin = body.Origin
	rt.Destination = body.Destination
	rt.DistanceKM = body.DistanceKM
	rt.BasePrice = body.BasePrice
	if body.IsActive != nil {
		rt.IsActive = *body.IsActive
	}
	if err := h.Routes.Update(ctx, rt); err != nil {
		if errors.Is(err, repository.ErrRouteNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "route not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, rt)
}

// DeleteRoute handles DELETE /v1/admin/routes/:id. Routes with scheduled
// trips cannot be removed.
func (h *AdminHandler) DeleteRoute(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.Routes.Delete(c.Request().Context(), id); err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "route has scheduled trips"})
		case errors.Is(err, repository.ErrRouteNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "route not found"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}
