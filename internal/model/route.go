package model

import "time"

// Route describes a serviced origin/destination pair. BasePrice is the
// default fare suggested when scheduling a trip on the route; each trip
// carries its own final price.
type Route struct {
	ID          uint64    `json:"id"`
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	DistanceKM  float64   `json:"distance_km"`
	BasePrice   float64   `json:"base_price"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
