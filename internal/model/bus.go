package model

import "time"

// Bus describes one vehicle in the fleet. Capacity bounds the number of
// seats generated for each of the bus's trips.
//
// Fields:
//
//	ID          – primary key identifier.
//	PlateNumber – registration plate, unique across the fleet.
//	Model       – manufacturer and model description.
//	Capacity    – seating capacity (1..100).
//	IsActive    – whether the bus may be scheduled for new trips.
//	CreatedAt   – creation timestamp.
//	UpdatedAt   – last update timestamp.
type Bus struct {
	ID          uint64    `json:"id"`
	PlateNumber string    `json:"plate_number"`
	Model       string    `json:"model"`
	Capacity    uint32    `json:"capacity"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BusStats aggregates per-bus occupancy figures for the admin dashboard.
// AverageOccupancy is a percentage over all seats of the bus's trips; it is
// zero when the bus has no generated seats yet.
type BusStats struct {
	Bus              Bus     `json:"bus"`
	TripCount        int     `json:"trip_count"`
	TotalSeats       int     `json:"total_seats"`
	OccupiedSeats    int     `json:"occupied_seats"`
	AverageOccupancy float64 `json:"average_occupancy"`
}
