package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/transportagency/bus-ticket-sales/internal/model"
)

// ErrTripNotFound is returned when a trip lookup yields no rows.
var ErrTripNotFound = errors.New("trip not found")

// TripRepo provides methods to work with trips in the database.
type TripRepo struct {
	db *sql.DB
}

// NewTripRepo constructs a TripRepo with the given DB handle.
func NewTripRepo(db *sql.DB) *TripRepo {
	return &TripRepo{db: db}
}

// DB exposes the underlying handle so callers can open transactions that
// span trips, seats, customers and sales.
func (r *TripRepo) DB() *sql.DB { return r.db }

const tripColumns = `id, bus_id, route_id, departure_time, arrival_time, price, is_active, created_at, updated_at`

func scanTrip(row interface{ Scan(...any) error }) (model.Trip, error) {
	var t model.Trip
	err := row.Scan(&t.ID, &t.BusID, &t.RouteID, &t.DepartureTime, &t.ArrivalTime, &t.Price, &t.IsActive, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

// Create inserts a trip record. On success the trip's ID is populated.
// The arrival-after-departure invariant is validated by the caller and
// backed by a table CHECK constraint.
func (r *TripRepo) Create(ctx context.Context, t *model.Trip) error {
	const q = `INSERT INTO trips (bus_id, route_id, departure_time, arrival_time, price, is_active)
	           VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, t.BusID, t.RouteID, t.DepartureTime, t.ArrivalTime, t.Price, t.IsActive)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}

// GetByID retrieves a trip by its id.
func (r *TripRepo) GetByID(ctx context.Context, id uint64) (*model.Trip, error) {
	t, err := scanTrip(r.db.QueryRowContext(ctx, `SELECT `+tripColumns+` FROM trips WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTripNotFound
		}
		return nil, err
	}
	return &t, nil
}

// GetSummary returns a trip joined with its route, bus and seat counts.
func (r *TripRepo) GetSummary(ctx context.Context, id uint64) (*model.TripSummary, error) {
	const q = `SELECT t.id, t.bus_id, t.route_id, t.departure_time, t.arrival_time,
	                  t.price, t.is_active, t.created_at, t.updated_at,
	                  r.origin, r.destination, b.model, b.plate_number,
	                  COUNT(s.id), COALESCE(SUM(s.is_occupied = 0), 0)
	           FROM trips t
	           JOIN routes r ON r.id = t.route_id
	           JOIN buses  b ON b.id = t.bus_id
	           LEFT JOIN seats s ON s.trip_id = t.id
	           WHERE t.id = ?
	           GROUP BY t.id`
	var sum model.TripSummary
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&sum.ID, &sum.BusID, &sum.RouteID, &sum.DepartureTime, &sum.ArrivalTime,
		&sum.Price, &sum.IsActive, &sum.CreatedAt, &sum.UpdatedAt,
		&sum.Origin, &sum.Destination, &sum.BusModel, &sum.PlateNumber,
		&sum.TotalSeats, &sum.AvailableSeats,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTripNotFound
		}
		return nil, err
	}
	return &sum, nil
}

// ListUpcoming returns active trips departing after now, ordered by
// departure time ascending, joined with route/bus/seat counts.
func (r *TripRepo) ListUpcoming(ctx context.Context, now time.Time) ([]model.TripSummary, error) {
	const q = `SELECT t.id, t.bus_id, t.route_id, t.departure_time, t.arrival_time,
	                  t.price, t.is_active, t.created_at, t.updated_at,
	                  r.origin, r.destination, b.model, b.plate_number,
	                  COUNT(s.id), COALESCE(SUM(s.is_occupied = 0), 0)
	           FROM trips t
	           JOIN routes r ON r.id = t.route_id
	           JOIN buses  b ON b.id = t.bus_id
	           LEFT JOIN seats s ON s.trip_id = t.id
	           WHERE t.is_active = 1 AND t.departure_time > ?
	           GROUP BY t.id
	           ORDER BY t.departure_time ASC`
	rows, err := r.db.QueryContext(ctx, q, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTripSummaries(rows)
}

func scanTripSummaries(rows *sql.Rows) ([]model.TripSummary, error) {
	result := make([]model.TripSummary, 0)
	for rows.Next() {
		var sum model.TripSummary
		if err := rows.Scan(
			&sum.ID, &sum.BusID, &sum.RouteID, &sum.DepartureTime, &sum.ArrivalTime,
			&sum.Price, &sum.IsActive, &sum.CreatedAt, &sum.UpdatedAt,
			&sum.Origin, &sum.Destination, &sum.BusModel, &sum.PlateNumber,
			&sum.TotalSeats, &sum.AvailableSeats,
		); err != nil {
			return nil, err
		}
		result = append(result, sum)
	}
	return result, rows.Err()
}

// Update rewrites schedule and price fields of a trip.
func (r *TripRepo) Update(ctx context.Context, t *model.Trip) error {
	const q = `UPDATE trips SET bus_id = ?, route_id = ?, departure_time = ?, arrival_time = ?, price = ?
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, t.BusID, t.RouteID, t.DepartureTime, t.ArrivalTime, t.Price, t.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTripNotFound
	}
	return nil
}

// SetActiveTx flips the is_active flag within a transaction. Activation and
// first-time seat generation commit together.
// Callers verify the trip exists first; RowsAffected is not checked here
// because MySQL reports zero affected rows for a no-op flag write.
func (r *TripRepo) SetActiveTx(ctx context.Context, tx *sql.Tx, id uint64, active bool) error {
	_, err := tx.ExecContext(ctx, `UPDATE trips SET is_active = ? WHERE id = ?`, active, id)
	return err
}
