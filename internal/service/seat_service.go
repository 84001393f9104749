package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/transportagency/bus-ticket-sales/internal/model"
	"github.com/transportagency/bus-ticket-sales/internal/repository"
)

// Capacity bounds for seat generation.
const (
	minCapacity = 1
	maxCapacity = 100
)

// SeatService is the seat allocation engine: it generates the seat set for
// a trip at activation time and answers availability queries. Occupancy
// flips belong to the sale transaction and live in SaleService.
type SeatService struct {
	db    *sql.DB
	seats *repository.SeatRepo
	trips *repository.TripRepo
}

// NewSeatService constructs a SeatService. All dependencies must be
// non-nil.
func NewSeatService(db *sql.DB, seats *repository.SeatRepo, trips *repository.TripRepo) *SeatService {
	if db == nil || seats == nil || trips == nil {
		panic("nil dependency passed to NewSeatService")
	}
	return &SeatService{db: db, seats: seats, trips: trips}
}

// GenerateSeatsForTrip creates `capacity` unoccupied seats numbered
// "01".."NN" for a trip that has none yet. Regeneration is forbidden: a
// trip's seat set is created exactly once. Returns the created seats in
// seat-number order.
func (s *SeatService) GenerateSeatsForTrip(ctx context.Context, tripID uint64, capacity int) ([]model.Seat, error) {
	if capacity < minCapacity || capacity > maxCapacity {
		return nil, invalid("capacity must be between %d and %d", minCapacity, maxCapacity)
	}
	if _, err := s.trips.GetByID(ctx, tripID); err != nil {
		if errors.Is(err, repository.ErrTripNotFound) {
			return nil, ErrTripNotFound
		}
		return nil, fmt.Errorf("load trip %d: %w", tripID, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin seat generation: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	existing, err := s.seats.CountByTripTx(ctx, tx, tripID)
	if err != nil {
		return nil, fmt.Errorf("count seats for trip %d: %w", tripID, err)
	}
	if existing > 0 {
		return nil, ErrSeatsExist
	}
	if err := s.seats.CreateBulkTx(ctx, tx, tripID, capacity); err != nil {
		return nil, fmt.Errorf("generate %d seats for trip %d: %w", capacity, tripID, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit seat generation: %w", err)
	}
	committed = true

	return s.seats.GetByTrip(ctx, tripID)
}

// ActivateTrip marks a trip sellable and, on first activation, generates
// its seat set sized to the bus capacity. The flag flip and the seat
// inserts commit together so a trip is never visible as active without
// seats.
func (s *SeatService) ActivateTrip(ctx context.Context, tripID uint64, capacity int) error {
	if capacity < minCapacity || capacity > maxCapacity {
		return invalid("capacity must be between %d and %d", minCapacity, maxCapacity)
	}
	if _, err := s.trips.GetByID(ctx, tripID); err != nil {
		if errors.Is(err, repository.ErrTripNotFound) {
			return ErrTripNotFound
		}
		return fmt.Errorf("load trip %d: %w", tripID, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin trip activation: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := s.trips.SetActiveTx(ctx, tx, tripID, true); err != nil {
		return fmt.Errorf("activate trip %d: %w", tripID, err)
	}
	existing, err := s.seats.CountByTripTx(ctx, tx, tripID)
	if err != nil {
		return fmt.Errorf("count seats for trip %d: %w", tripID, err)
	}
	if existing == 0 {
		if err := s.seats.CreateBulkTx(ctx, tx, tripID, capacity); err != nil {
			return fmt.Errorf("generate %d seats for trip %d: %w", capacity, tripID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit trip activation: %w", err)
	}
	committed = true
	return nil
}

// DeactivateTrip stops further sales on a trip. Seats and completed sales
// are untouched.
func (s *SeatService) DeactivateTrip(ctx context.Context, tripID uint64) error {
	if _, err := s.trips.GetByID(ctx, tripID); err != nil {
		if errors.Is(err, repository.ErrTripNotFound) {
			return ErrTripNotFound
		}
		return fmt.Errorf("load trip %d: %w", tripID, err)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin trip deactivation: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := s.trips.SetActiveTx(ctx, tx, tripID, false); err != nil {
		return fmt.Errorf("deactivate trip %d: %w", tripID, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit trip deactivation: %w", err)
	}
	committed = true
	return nil
}

// GetSeatsByTrip returns all seats of a trip ordered by seat number.
func (s *SeatService) GetSeatsByTrip(ctx context.Context, tripID uint64) ([]model.Seat, error) {
	return s.seats.GetByTrip(ctx, tripID)
}

// GetAvailableSeats returns unoccupied seats of a trip ordered by seat
// number.
func (s *SeatService) GetAvailableSeats(ctx context.Context, tripID uint64) ([]model.Seat, error) {
	return s.seats.GetAvailableByTrip(ctx, tripID)
}

// CountAvailable returns the number of unoccupied seats on a trip.
func (s *SeatService) CountAvailable(ctx context.Context, tripID uint64) (int, error) {
	return s.seats.CountByOccupancy(ctx, tripID, false)
}

// CountOccupied returns the number of occupied seats on a trip.
func (s *SeatService) CountOccupied(ctx context.Context, tripID uint64) (int, error) {
	return s.seats.CountByOccupancy(ctx, tripID, true)
}

// IsSeatAvailable reports whether a seat exists and is unoccupied. This
// guards a user-facing toggle, so it degrades to false on storage errors
// instead of raising.
func (s *SeatService) IsSeatAvailable(ctx context.Context, seatID uint64) bool {
	seat, err := s.seats.GetByID(ctx, seatID)
	if err != nil {
		return false
	}
	return !seat.IsOccupied
}
