package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/transportagency/bus-ticket-sales/internal/model"
	"github.com/transportagency/bus-ticket-sales/internal/repository"
)

var testNow = time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)

func newSaleServiceForTest(t *testing.T) (*SaleService, sqlmock.Sqlmock, *[]model.SaleDetail) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	published := &[]model.SaleDetail{}
	svc := NewSaleService(db,
		repository.NewSaleRepo(db),
		repository.NewSeatRepo(db),
		repository.NewCustomerRepo(db),
		func(ctx context.Context, d model.SaleDetail) { *published = append(*published, d) })
	svc.now = func() time.Time { return testNow }
	return svc, mock, published
}

func seatTripColumns() []string {
	return []string{"id", "trip_id", "seat_number", "is_occupied", "created_at",
		"t_id", "is_active", "departure_time", "arrival_time", "price"}
}

func seatTripRow(occupied, active bool, departure time.Time) *sqlmock.Rows {
	return sqlmock.NewRows(seatTripColumns()).
		AddRow(5, 2, "07", occupied, testNow.Add(-24*time.Hour),
			2, active, departure, departure.Add(4*time.Hour), 45.50)
}

func customerColumns() []string {
	return []string{"id", "full_name", "document_number", "phone", "email", "created_at"}
}

func detailColumns() []string {
	return []string{"id", "customer_id", "seat_id", "amount", "sale_date", "receipt_number", "status",
		"full_name", "document_number", "phone", "email",
		"seat_number", "trip_id", "departure_time", "arrival_time",
		"origin", "destination", "model", "plate_number"}
}

func detailRow(departure time.Time) *sqlmock.Rows {
	return sqlmock.NewRows(detailColumns()).
		AddRow(77, 9, 5, 45.50, testNow, "REC-20260830-090000-123", model.SaleCompleted,
			"Maria Lopez", "40123456", "987654321", "maria@example.com",
			"07", 2, departure, departure.Add(4*time.Hour),
			"Lima", "Cusco", "Volvo 9800", "ABC-123")
}

func TestProcessSaleHappyPath(t *testing.T) {
	svc, mock, published := newSaleServiceForTest(t)
	departure := testNow.Add(3 * time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM seats s").WithArgs(5).
		WillReturnRows(seatTripRow(false, true, departure))
	mock.ExpectQuery("FROM customers WHERE document_number").WithArgs("40123456").
		WillReturnRows(sqlmock.NewRows(customerColumns()))
	mock.ExpectExec("INSERT INTO customers").
		WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectQuery("FROM sales WHERE receipt_number").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))
	mock.ExpectExec("INSERT INTO sales").
		WillReturnResult(sqlmock.NewResult(77, 1))
	mock.ExpectExec("UPDATE seats SET is_occupied = 1").WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery("FROM sales s").WithArgs(77).
		WillReturnRows(detailRow(departure))

	detail, err := svc.ProcessSale(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("ProcessSale failed: %v", err)
	}
	if detail.ReceiptNumber == "" {
		t.Fatal("receipt number missing from detail")
	}
	if detail.Status != model.SaleCompleted {
		t.Fatalf("sale status = %q, want COMPLETED", detail.Status)
	}
	if len(*published) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(*published))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestProcessSaleSeatAlreadyOccupied(t *testing.T) {
	svc, mock, published := newSaleServiceForTest(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM seats s").WithArgs(5).
		WillReturnRows(seatTripRow(true, true, testNow.Add(3*time.Hour)))
	mock.ExpectRollback()

	_, err := svc.ProcessSale(context.Background(), validRequest())
	if !errors.Is(err, ErrSeatOccupied) {
		t.Fatalf("expected ErrSeatOccupied, got %v", err)
	}
	if len(*published) != 0 {
		t.Fatal("no event must be published for a failed sale")
	}
}

func TestProcessSaleLosesOccupancyRace(t *testing.T) {
	svc, mock, _ := newSaleServiceForTest(t)
	departure := testNow.Add(3 * time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM seats s").WithArgs(5).
		WillReturnRows(seatTripRow(false, true, departure))
	mock.ExpectQuery("FROM customers WHERE document_number").WithArgs("40123456").
		WillReturnRows(sqlmock.NewRows(customerColumns()))
	mock.ExpectExec("INSERT INTO customers").
		WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectQuery("FROM sales WHERE receipt_number").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))
	mock.ExpectExec("INSERT INTO sales").
		WillReturnResult(sqlmock.NewResult(77, 1))
	// Zero rows affected: another transaction occupied the seat first.
	mock.ExpectExec("UPDATE seats SET is_occupied = 1").WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := svc.ProcessSale(context.Background(), validRequest())
	if !errors.Is(err, ErrSeatOccupied) {
		t.Fatalf("expected ErrSeatOccupied on lost race, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestProcessSaleRejectsInactiveTrip(t *testing.T) {
	svc, mock, _ := newSaleServiceForTest(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM seats s").WithArgs(5).
		WillReturnRows(seatTripRow(false, false, testNow.Add(3*time.Hour)))
	mock.ExpectRollback()

	_, err := svc.ProcessSale(context.Background(), validRequest())
	if !errors.Is(err, ErrTripInactive) {
		t.Fatalf("expected ErrTripInactive, got %v", err)
	}
}

func TestProcessSaleCutoffBoundary(t *testing.T) {
	cases := []struct {
		name      string
		departure time.Time
		wantErr   bool
	}{
		{"exactly at cutoff", testNow.Add(saleCutoffMinutes * time.Minute), true},
		{"inside cutoff", testNow.Add(29 * time.Minute), true},
		{"just past cutoff", testNow.Add(saleCutoffMinutes*time.Minute + time.Second), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, mock, _ := newSaleServiceForTest(t)

			mock.ExpectBegin()
			mock.ExpectQuery("FROM seats s").WithArgs(5).
				WillReturnRows(seatTripRow(false, true, tc.departure))
			if tc.wantErr {
				mock.ExpectRollback()
			} else {
				mock.ExpectQuery("FROM customers WHERE document_number").WithArgs("40123456").
					WillReturnRows(sqlmock.NewRows(customerColumns()))
				mock.ExpectExec("INSERT INTO customers").
					WillReturnResult(sqlmock.NewResult(9, 1))
				mock.ExpectQuery("FROM sales WHERE receipt_number").
					WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))
				mock.ExpectExec("INSERT INTO sales").
					WillReturnResult(sqlmock.NewResult(77, 1))
				mock.ExpectExec("UPDATE seats SET is_occupied = 1").WithArgs(5).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
				mock.ExpectQuery("FROM sales s").WithArgs(77).
					WillReturnRows(detailRow(tc.departure))
			}

			_, err := svc.ProcessSale(context.Background(), validRequest())
			if tc.wantErr && !errors.Is(err, ErrDepartsSoon) {
				t.Fatalf("expected ErrDepartsSoon, got %v", err)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestProcessSaleReusesExistingCustomer(t *testing.T) {
	svc, mock, _ := newSaleServiceForTest(t)
	departure := testNow.Add(3 * time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM seats s").WithArgs(5).
		WillReturnRows(seatTripRow(false, true, departure))
	// Existing directory row with the same contact details: no update runs.
	mock.ExpectQuery("FROM customers WHERE document_number").WithArgs("40123456").
		WillReturnRows(sqlmock.NewRows(customerColumns()).
			AddRow(9, "Maria Lopez", "40123456", "+51 987-654-321", "maria@example.com", testNow.Add(-48*time.Hour)))
	mock.ExpectQuery("FROM sales WHERE receipt_number").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))
	mock.ExpectExec("INSERT INTO sales").
		WillReturnResult(sqlmock.NewResult(78, 1))
	mock.ExpectExec("UPDATE seats SET is_occupied = 1").WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery("FROM sales s").WithArgs(78).
		WillReturnRows(detailRow(departure))

	if _, err := svc.ProcessSale(context.Background(), validRequest()); err != nil {
		t.Fatalf("ProcessSale failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestProcessSaleValidationShortCircuits(t *testing.T) {
	svc, mock, _ := newSaleServiceForTest(t)

	req := validRequest()
	req.Amount = -1
	_, err := svc.ProcessSale(context.Background(), req)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	// No database traffic may happen for an invalid request.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected database traffic: %v", err)
	}
}

func TestCancelSaleReleasesSeat(t *testing.T) {
	svc, mock, _ := newSaleServiceForTest(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT s.seat_id, s.status, t.departure_time").WithArgs(77).
		WillReturnRows(sqlmock.NewRows([]string{"seat_id", "status", "departure_time"}).
			AddRow(5, model.SaleCompleted, testNow.Add(2*time.Hour)))
	mock.ExpectExec("UPDATE seats SET is_occupied = 0").WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE sales SET status").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := svc.CancelSale(context.Background(), 77); err != nil {
		t.Fatalf("CancelSale failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCancelSaleAfterDeparture(t *testing.T) {
	svc, mock, _ := newSaleServiceForTest(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT s.seat_id, s.status, t.departure_time").WithArgs(77).
		WillReturnRows(sqlmock.NewRows([]string{"seat_id", "status", "departure_time"}).
			AddRow(5, model.SaleCompleted, testNow.Add(-time.Minute)))
	mock.ExpectRollback()

	err := svc.CancelSale(context.Background(), 77)
	if !errors.Is(err, ErrAlreadyDeparted) {
		t.Fatalf("expected ErrAlreadyDeparted, got %v", err)
	}
}

func TestCancelSaleAlreadyCancelled(t *testing.T) {
	svc, mock, _ := newSaleServiceForTest(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT s.seat_id, s.status, t.departure_time").WithArgs(77).
		WillReturnRows(sqlmock.NewRows([]string{"seat_id", "status", "departure_time"}).
			AddRow(5, model.SaleCancelled, testNow.Add(2*time.Hour)))
	mock.ExpectRollback()

	err := svc.CancelSale(context.Background(), 77)
	if !errors.Is(err, ErrSaleCancelled) {
		t.Fatalf("expected ErrSaleCancelled, got %v", err)
	}
}

func TestCancelSaleNotFound(t *testing.T) {
	svc, mock, _ := newSaleServiceForTest(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT s.seat_id, s.status, t.departure_time").WithArgs(404).
		WillReturnRows(sqlmock.NewRows([]string{"seat_id", "status", "departure_time"}))
	mock.ExpectRollback()

	err := svc.CancelSale(context.Background(), 404)
	if !errors.Is(err, ErrSaleNotFound) {
		t.Fatalf("expected ErrSaleNotFound, got %v", err)
	}
}

func TestGetSalesByCustomer(t *testing.T) {
	svc, mock, _ := newSaleServiceForTest(t)
	departure := testNow.Add(3 * time.Hour)

	mock.ExpectQuery("FROM customers WHERE id").WithArgs(9).
		WillReturnRows(sqlmock.NewRows(customerColumns()).
			AddRow(9, "Maria Lopez", "40123456", "+51 987-654-321", "maria@example.com", testNow.Add(-48*time.Hour)))
	mock.ExpectQuery("FROM sales s").WithArgs(model.SaleCompleted, 9).
		WillReturnRows(detailRow(departure))

	items, err := svc.GetSalesByCustomer(context.Background(), 9)
	if err != nil {
		t.Fatalf("GetSalesByCustomer failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 sale, got %d", len(items))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetSalesByCustomerUnknownID(t *testing.T) {
	svc, mock, _ := newSaleServiceForTest(t)

	mock.ExpectQuery("FROM customers WHERE id").WithArgs(404).
		WillReturnRows(sqlmock.NewRows(customerColumns()))

	_, err := svc.GetSalesByCustomer(context.Background(), 404)
	if !errors.Is(err, ErrCustomerNotFound) {
		t.Fatalf("expected ErrCustomerNotFound, got %v", err)
	}
}

func TestGetSalesByDateRangeRejectsInvertedRange(t *testing.T) {
	svc, _, _ := newSaleServiceForTest(t)

	_, err := svc.GetSalesByDateRange(context.Background(), testNow, testNow.Add(-48*time.Hour))
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
