package model

import "time"

// Sale statuses. Cancelled sales are kept for history instead of being
// deleted; every occupancy rule is therefore stated over completed sales
// only.
const (
	SaleCompleted = "COMPLETED"
	SaleCancelled = "CANCELLED"
)

// Sale records one customer purchasing one seat for one amount, identified
// by a unique receipt number. At most one completed sale may reference a
// given seat at any time.
//
// Fields:
//
//	ID            – primary key identifier.
//	CustomerID    – buyer, resolved through the customer directory.
//	SeatID        – seat sold.
//	Amount        – price paid, in (0, 9999.99].
//	SaleDate      – commit time of the purchase (UTC).
//	ReceiptNumber – unique human-facing identifier (REC-YYYYMMDD-HHMMSS-NNN).
//	Status        – COMPLETED or CANCELLED.
type Sale struct {
	ID            uint64    `json:"id"`
	CustomerID    uint64    `json:"customer_id"`
	SeatID        uint64    `json:"seat_id"`
	Amount        float64   `json:"amount"`
	SaleDate      time.Time `json:"sale_date"`
	ReceiptNumber string    `json:"receipt_number"`
	Status        string    `json:"status"`
}

// SaleDetail is the fully joined read-side projection of a sale: the sale
// plus its customer, seat, trip, route and bus display fields. It is what
// the confirmation page and the receipt renderer consume.
type SaleDetail struct {
	Sale
	CustomerName   string    `json:"customer_name"`
	DocumentNumber string    `json:"document_number"`
	Phone          *string   `json:"phone,omitempty"`
	Email          *string   `json:"email,omitempty"`
	SeatNumber     string    `json:"seat_number"`
	TripID         uint64    `json:"trip_id"`
	DepartureTime  time.Time `json:"departure_time"`
	ArrivalTime    time.Time `json:"arrival_time"`
	Origin         string    `json:"origin"`
	Destination    string    `json:"destination"`
	BusModel       string    `json:"bus_model"`
	PlateNumber    string    `json:"plate_number"`
}

// TripInfo renders the route summary the way the confirmation page shows it.
func (d SaleDetail) TripInfo() string {
	return d.Origin + " - " + d.Destination
}

// BusInfo renders the bus summary shown on confirmations and receipts.
func (d SaleDetail) BusInfo() string {
	return d.BusModel + " - " + d.PlateNumber
}
