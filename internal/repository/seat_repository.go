package repository // repository defines data access for seats

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/transportagency/bus-ticket-sales/internal/model"
)

// ErrSeatNotFound is returned when a seat lookup yields no rows.
var ErrSeatNotFound = errors.New("seat not found")

// SeatRepo provides methods to work with seats in the database. The
// occupancy flips are guarded conditional updates: a write that matched no
// row means another request changed the seat first, and the caller must
// abort its transaction.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo constructs a SeatRepo with the given DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo {
	return &SeatRepo{db: db}
}

const seatColumns = `id, trip_id, seat_number, is_occupied, created_at`

func scanSeat(row interface{ Scan(...any) error }) (model.Seat, error) {
	var s model.Seat
	err := row.Scan(&s.ID, &s.TripID, &s.SeatNumber, &s.IsOccupied, &s.CreatedAt)
	return s, err
}

// CreateBulkTx inserts seats numbered "01".."NN" for a trip in a single
// statement. The unique (trip_id, seat_number) key backs the
// generated-exactly-once rule even if two activation requests race.
func (r *SeatRepo) CreateBulkTx(ctx context.Context, tx *sql.Tx, tripID uint64, capacity int) error {
	if capacity <= 0 {
		return nil
	}
	query := `INSERT INTO seats (trip_id, seat_number) VALUES `
	args := make([]any, 0, capacity*2)
	for i := 1; i <= capacity; i++ {
		if i > 1 {
			query += ","
		}
		query += "(?, ?)"
		args = append(args, tripID, fmt.Sprintf("%02d", i))
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// CountByTripTx counts existing seats for a trip inside a transaction. Used
// by the allocation engine to reject regeneration.
func (r *SeatRepo) CountByTripTx(ctx context.Context, tx *sql.Tx, tripID uint64) (int, error) {
	var n int
	err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM seats WHERE trip_id = ?`, tripID).Scan(&n)
	return n, err
}

// GetByTrip retrieves all seats of a trip ordered by seat number.
func (r *SeatRepo) GetByTrip(ctx context.Context, tripID uint64) ([]model.Seat, error) {
	const q = `SELECT ` + seatColumns + ` FROM seats WHERE trip_id = ? ORDER BY seat_number`
	return r.querySeats(ctx, q, tripID)
}

// GetAvailableByTrip retrieves unoccupied seats of a trip ordered by seat
// number.
func (r *SeatRepo) GetAvailableByTrip(ctx context.Context, tripID uint64) ([]model.Seat, error) {
	const q = `SELECT ` + seatColumns + ` FROM seats
	           WHERE trip_id = ? AND is_occupied = 0
	           ORDER BY seat_number`
	return r.querySeats(ctx, q, tripID)
}

func (r *SeatRepo) querySeats(ctx context.Context, q string, args ...any) ([]model.Seat, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]model.Seat, 0)
	for rows.Next() {
		s, err := scanSeat(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

// CountByOccupancy counts a trip's seats with the given occupancy state.
func (r *SeatRepo) CountByOccupancy(ctx context.Context, tripID uint64, occupied bool) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM seats WHERE trip_id = ? AND is_occupied = ?`,
		tripID, occupied,
	).Scan(&n)
	return n, err
}

// GetByID retrieves a seat by its id.
func (r *SeatRepo) GetByID(ctx context.Context, id uint64) (*model.Seat, error) {
	s, err := scanSeat(r.db.QueryRowContext(ctx, `SELECT `+seatColumns+` FROM seats WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeatNotFound
		}
		return nil, err
	}
	return &s, nil
}

// SeatTripRow is a seat joined with the schedule facts the sale
// orchestrator validates against before writing anything.
type SeatTripRow struct {
	Seat          model.Seat
	TripID        uint64
	TripActive    bool
	DepartureTime time.Time
	ArrivalTime   time.Time
	Price         float64
}

// GetWithTripTx loads a seat and its trip inside a transaction.
func (r *SeatRepo) GetWithTripTx(ctx context.Context, tx *sql.Tx, seatID uint64) (*SeatTripRow, error) {
	const q = `SELECT s.id, s.trip_id, s.seat_number, s.is_occupied, s.created_at,
	                  t.id, t.is_active, t.departure_time, t.arrival_time, t.price
	           FROM seats s
	           JOIN trips t ON t.id = s.trip_id
	           WHERE s.id = ?`
	var row SeatTripRow
	err := tx.QueryRowContext(ctx, q, seatID).Scan(
		&row.Seat.ID, &row.Seat.TripID, &row.Seat.SeatNumber, &row.Seat.IsOccupied, &row.Seat.CreatedAt,
		&row.TripID, &row.TripActive, &row.DepartureTime, &row.ArrivalTime, &row.Price,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeatNotFound
		}
		return nil, err
	}
	return &row, nil
}

// MarkOccupiedTx flips a seat from available to occupied. The is_occupied
// guard in the WHERE clause is the race arbiter: when two purchases contend
// for the same seat, exactly one update matches a row and the loser gets
// ErrConflict, causing its whole sale transaction to roll back.
func (r *SeatRepo) MarkOccupiedTx(ctx context.Context, tx *sql.Tx, seatID uint64) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE seats SET is_occupied = 1 WHERE id = ? AND is_occupied = 0`, seatID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrConflict
	}
	return nil
}

// MarkAvailableTx flips a seat from occupied back to available, used by the
// cancellation path. Releasing a seat that is not occupied is a conflict:
// it would mean the sale being cancelled never held the seat.
func (r *SeatRepo) MarkAvailableTx(ctx context.Context, tx *sql.Tx, seatID uint64) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE seats SET is_occupied = 0 WHERE id = ? AND is_occupied = 1`, seatID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrConflict
	}
	return nil
}
