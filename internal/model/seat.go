package model

import "time"

// Seat is one purchasable unit of capacity on a specific trip. SeatNumber
// is a zero-padded ordinal ("01".."60") unique within the trip. A seat
// becomes occupied exactly when a completed sale referencing it commits and
// returns to available exactly when that sale is cancelled.
type Seat struct {
	ID         uint64    `json:"id"`
	TripID     uint64    `json:"trip_id"`
	SeatNumber string    `json:"seat_number"`
	IsOccupied bool      `json:"is_occupied"`
	CreatedAt  time.Time `json:"created_at"`
}
