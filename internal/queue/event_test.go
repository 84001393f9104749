package queue

import (
	"testing"
	"time"

	"github.com/transportagency/bus-ticket-sales/internal/model"
)

func TestEventDetailRoundTrip(t *testing.T) {
	phone := "987654321"
	dep := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	in := model.SaleDetail{
		Sale: model.Sale{
			ID:            77,
			Amount:        45.50,
			SaleDate:      time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC),
			ReceiptNumber: "REC-20260830-090000-123",
			Status:        model.SaleCompleted,
		},
		CustomerName:   "Maria Lopez",
		DocumentNumber: "40123456",
		Phone:          &phone,
		SeatNumber:     "07",
		TripID:         2,
		DepartureTime:  dep,
		ArrivalTime:    dep.Add(4 * time.Hour),
		Origin:         "Lima",
		Destination:    "Cusco",
		BusModel:       "Volvo 9800",
		PlateNumber:    "ABC-123",
	}

	out, err := detailFromEvent(EventFromDetail(in))
	if err != nil {
		t.Fatalf("round trip failed: %v", err)
	}
	if out.ReceiptNumber != in.ReceiptNumber || out.CustomerName != in.CustomerName {
		t.Fatalf("identity fields lost: %+v", out)
	}
	if !out.DepartureTime.Equal(in.DepartureTime) || !out.SaleDate.Equal(in.SaleDate) {
		t.Fatalf("timestamps drifted: got %v / %v", out.DepartureTime, out.SaleDate)
	}
	if out.Phone == nil || *out.Phone != phone {
		t.Fatalf("phone lost: %v", out.Phone)
	}
	if out.Email != nil {
		t.Fatalf("absent email must stay nil, got %v", *out.Email)
	}
}

func TestDetailFromEventRejectsBadTimestamps(t *testing.T) {
	ev := EventFromDetail(model.SaleDetail{})
	ev.DepartureTime = "yesterday"
	if _, err := detailFromEvent(ev); err == nil {
		t.Fatal("expected parse error for malformed departure_time")
	}
}
