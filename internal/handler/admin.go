package handler

import (
	"github.com/transportagency/bus-ticket-sales/internal/repository"
	"github.com/transportagency/bus-ticket-sales/internal/service"
)

// AdminHandler bundles the repositories and services behind the back
// office: fleet and route upkeep, trip scheduling, and sale reporting. All
// routes are wrapped by JWT auth plus the ADMIN role check, so handlers do
// not re-verify the caller.
type AdminHandler struct {
	Buses     *repository.BusRepo
	Routes    *repository.RouteRepo
	Trips     *repository.TripRepo
	Customers *repository.CustomerRepo
	SeatSvc   *service.SeatService
	SaleSvc   *service.SaleService
}

// NewAdminHandler constructs an AdminHandler and panics if any dependency
// is nil.
func NewAdminHandler(buses *repository.BusRepo, routes *repository.RouteRepo, trips *repository.TripRepo, customers *repository.CustomerRepo, seatSvc *service.SeatService, saleSvc *service.SaleService) *AdminHandler {
	if buses == nil || routes == nil || trips == nil || customers == nil || seatSvc == nil || saleSvc == nil {
		panic("nil dependency passed to NewAdminHandler")
	}
	return &AdminHandler{
		Buses:     buses,
		Routes:    routes,
		Trips:     trips,
		Customers: customers,
		SeatSvc:   seatSvc,
		SaleSvc:   saleSvc,
	}
}
