package model

import "time"

// Trip is one scheduled departure of a bus along a route. The trip owns an
// ordered set of seats, generated exactly once at activation time with
// cardinality equal to the bus's capacity. ArrivalTime must be after
// DepartureTime.
//
// Fields:
//
//	ID            – primary key identifier.
//	BusID         – bus assigned to the departure.
//	RouteID       – route being serviced.
//	DepartureTime – scheduled departure (UTC).
//	ArrivalTime   – scheduled arrival (UTC).
//	Price         – fare per seat for this trip.
//	IsActive      – whether seats may be sold.
//	CreatedAt     – creation timestamp.
//	UpdatedAt     – last update timestamp.
type Trip struct {
	ID            uint64    `json:"id"`
	BusID         uint64    `json:"bus_id"`
	RouteID       uint64    `json:"route_id"`
	DepartureTime time.Time `json:"departure_time"`
	ArrivalTime   time.Time `json:"arrival_time"`
	Price         float64   `json:"price"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TripSummary is the read-side projection for trip listings: the trip
// joined with its route and bus plus the current availability count.
type TripSummary struct {
	Trip
	Origin         string `json:"origin"`
	Destination    string `json:"destination"`
	BusModel       string `json:"bus_model"`
	PlateNumber    string `json:"plate_number"`
	TotalSeats     int    `json:"total_seats"`
	AvailableSeats int    `json:"available_seats"`
}
