// Package queue defines message payloads exchanged over the message broker
// and the publisher/consumer pair for them.
package queue

// SaleCompletedEvent is published when a sale commits. It carries enough
// information for downstream consumers to render the receipt document
// without querying the primary database.
type SaleCompletedEvent struct {
	SaleID         uint64  `json:"sale_id"`
	ReceiptNumber  string  `json:"receipt_number"`
	CustomerName   string  `json:"customer_name"`
	DocumentNumber string  `json:"document_number"`
	Phone          string  `json:"phone,omitempty"`
	Email          string  `json:"email,omitempty"`
	SeatNumber     string  `json:"seat_number"`
	TripID         uint64  `json:"trip_id"`
	Origin         string  `json:"origin"`
	Destination    string  `json:"destination"`
	BusModel       string  `json:"bus_model"`
	PlateNumber    string  `json:"plate_number"`
	DepartureTime  string  `json:"departure_time"`
	ArrivalTime    string  `json:"arrival_time"`
	Amount         float64 `json:"amount"`
	SaleDate       string  `json:"sale_date"`
}
