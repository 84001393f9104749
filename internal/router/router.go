// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/transportagency/bus-ticket-sales/internal/config"
	"github.com/transportagency/bus-ticket-sales/internal/handler"
	"github.com/transportagency/bus-ticket-sales/internal/middleware"
)

// RegisterRoutes registers routes that require no authentication beyond
// the health check used by load balancers.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the back-office login endpoint.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	e.POST("/v1/auth/login", a.Login)
}

// RegisterPublic registers the guest-facing endpoints: trip browsing and
// the purchase flow. Browse routes sit behind the Redis response cache;
// the purchase and receipt routes are rate limited but never cached.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, s *handler.SaleHandler, rdb *redis.Client) {
	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	limitMW := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	browse := e.Group("/v1", cacheMW)
	browse.GET("/trips", p.ListTrips)
	browse.GET("/trips/search", p.SearchTrips)
	browse.GET("/trips/:id", p.GetTrip)
	browse.GET("/trips/:id/seats", p.GetTripSeats)
	browse.GET("/trips/:id/seats/available", p.GetAvailableSeats)

	// Availability polling bypasses the cache so the answer is as fresh as
	// a read can be.
	e.GET("/v1/seats/:id/availability", p.GetSeatAvailability)

	sale := e.Group("/v1", limitMW)
	sale.POST("/sales", s.CreateSale)
	sale.GET("/sales/:id", s.GetSale)
	sale.GET("/sales/:id/confirmation", s.GetSaleConfirmation)
	sale.GET("/receipts/:number", s.GetSaleByReceipt)
	sale.GET("/receipts/:number/pdf", s.DownloadReceipt)
}

// RegisterAdmin registers the back-office endpoints behind JWT auth and
// the ADMIN role.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string) {
	g := e.Group("/v1/admin")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("ADMIN"))

	g.POST("/buses", a.CreateBus)
	g.GET("/buses", a.ListBuses)
	g.GET("/buses/:id", a.GetBus)
	g.PUT("/buses/:id", a.UpdateBus)
	g.DELETE("/buses/:id", a.DeleteBus)
	g.GET("/buses/:id/stats", a.GetBusStats)
	g.GET("/buses/:id/availability", a.GetBusAvailability)

	g.POST("/routes", a.CreateRoute)
	g.GET("/routes", a.ListRoutes)
	g.GET("/routes/:id", a.GetRoute)
	g.PUT("/routes/:id", a.UpdateRoute)
	g.DELETE("/routes/:id", a.DeleteRoute)

	g.POST("/trips", a.CreateTrip)
	g.GET("/trips/:id", a.GetTrip)
	g.PUT("/trips/:id", a.UpdateTrip)
	g.POST("/trips/:id/activate", a.ActivateTrip)
	g.POST("/trips/:id/deactivate", a.DeactivateTrip)

	g.GET("/dashboard", a.GetDashboard)

	g.GET("/sales", a.SearchSales)
	g.GET("/sales/recent", a.GetRecentSales)
	g.GET("/sales/report", a.GetDailyReport)
	g.GET("/sales/customer/:id", a.GetSalesByCustomer)
	g.DELETE("/sales/:id", a.CancelSale)

	g.GET("/customers", a.ListCustomers)
	g.GET("/customers/:document/sales", a.GetCustomerSales)
}
