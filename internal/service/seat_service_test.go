package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/transportagency/bus-ticket-sales/internal/repository"
)

func newSeatServiceForTest(t *testing.T) (*SeatService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewSeatService(db, repository.NewSeatRepo(db), repository.NewTripRepo(db)), mock
}

func tripColumns() []string {
	return []string{"id", "bus_id", "route_id", "departure_time", "arrival_time",
		"price", "is_active", "created_at", "updated_at"}
}

func tripRow(active bool) *sqlmock.Rows {
	dep := testNow.Add(48 * time.Hour)
	return sqlmock.NewRows(tripColumns()).
		AddRow(2, 1, 1, dep, dep.Add(4*time.Hour), 45.50, active, testNow, testNow)
}

func seatColumnsForTest() []string {
	return []string{"id", "trip_id", "seat_number", "is_occupied", "created_at"}
}

func TestGenerateSeatsForTrip(t *testing.T) {
	svc, mock := newSeatServiceForTest(t)

	mock.ExpectQuery("FROM trips WHERE id").WithArgs(2).
		WillReturnRows(tripRow(false))
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM seats WHERE trip_id").WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))
	mock.ExpectExec("INSERT INTO seats").
		WillReturnResult(sqlmock.NewResult(1, 3))
	mock.ExpectCommit()
	mock.ExpectQuery("FROM seats WHERE trip_id").WithArgs(2).
		WillReturnRows(sqlmock.NewRows(seatColumnsForTest()).
			AddRow(1, 2, "01", false, testNow).
			AddRow(2, 2, "02", false, testNow).
			AddRow(3, 2, "03", false, testNow))

	seats, err := svc.GenerateSeatsForTrip(context.Background(), 2, 3)
	if err != nil {
		t.Fatalf("GenerateSeatsForTrip failed: %v", err)
	}
	if len(seats) != 3 {
		t.Fatalf("expected 3 seats, got %d", len(seats))
	}
	if seats[0].SeatNumber != "01" || seats[2].SeatNumber != "03" {
		t.Fatalf("seats not zero-padded and ordered: %+v", seats)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGenerateSeatsForTripRejectsRegeneration(t *testing.T) {
	svc, mock := newSeatServiceForTest(t)

	mock.ExpectQuery("FROM trips WHERE id").WithArgs(2).
		WillReturnRows(tripRow(true))
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM seats WHERE trip_id").WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(40))
	mock.ExpectRollback()

	_, err := svc.GenerateSeatsForTrip(context.Background(), 2, 40)
	if !errors.Is(err, ErrSeatsExist) {
		t.Fatalf("expected ErrSeatsExist, got %v", err)
	}
}

func TestGenerateSeatsForTripCapacityBounds(t *testing.T) {
	svc, _ := newSeatServiceForTest(t)

	for _, capacity := range []int{0, -5, 101} {
		_, err := svc.GenerateSeatsForTrip(context.Background(), 2, capacity)
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("capacity %d: expected ErrValidation, got %v", capacity, err)
		}
	}
}

func TestGenerateSeatsForTripUnknownTrip(t *testing.T) {
	svc, mock := newSeatServiceForTest(t)

	mock.ExpectQuery("FROM trips WHERE id").WithArgs(99).
		WillReturnRows(sqlmock.NewRows(tripColumns()))

	_, err := svc.GenerateSeatsForTrip(context.Background(), 99, 10)
	if !errors.Is(err, ErrTripNotFound) {
		t.Fatalf("expected ErrTripNotFound, got %v", err)
	}
}

func TestActivateTripGeneratesSeatsOnce(t *testing.T) {
	svc, mock := newSeatServiceForTest(t)

	mock.ExpectQuery("FROM trips WHERE id").WithArgs(2).
		WillReturnRows(tripRow(false))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE trips SET is_active").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM seats WHERE trip_id").WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))
	mock.ExpectExec("INSERT INTO seats").
		WillReturnResult(sqlmock.NewResult(1, 40))
	mock.ExpectCommit()

	if err := svc.ActivateTrip(context.Background(), 2, 40); err != nil {
		t.Fatalf("ActivateTrip failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestActivateTripReactivationKeepsSeats(t *testing.T) {
	svc, mock := newSeatServiceForTest(t)

	mock.ExpectQuery("FROM trips WHERE id").WithArgs(2).
		WillReturnRows(tripRow(false))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE trips SET is_active").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM seats WHERE trip_id").WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(40))
	// No INSERT: the seat set survives deactivation.
	mock.ExpectCommit()

	if err := svc.ActivateTrip(context.Background(), 2, 40); err != nil {
		t.Fatalf("ActivateTrip failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestIsSeatAvailableDegradesToFalse(t *testing.T) {
	svc, mock := newSeatServiceForTest(t)

	mock.ExpectQuery("FROM seats WHERE id").WithArgs(5).
		WillReturnRows(sqlmock.NewRows(seatColumnsForTest()))

	if svc.IsSeatAvailable(context.Background(), 5) {
		t.Fatal("missing seat must report unavailable")
	}
}

func TestIsSeatAvailable(t *testing.T) {
	svc, mock := newSeatServiceForTest(t)

	mock.ExpectQuery("FROM seats WHERE id").WithArgs(5).
		WillReturnRows(sqlmock.NewRows(seatColumnsForTest()).
			AddRow(5, 2, "07", false, testNow))

	if !svc.IsSeatAvailable(context.Background(), 5) {
		t.Fatal("unoccupied seat must report available")
	}
}
