package repository // repository defines data access for buses

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/transportagency/bus-ticket-sales/internal/model"
)

// ErrBusNotFound is returned when a bus lookup yields no rows.
var ErrBusNotFound = errors.New("bus not found")

// BusRepo provides methods to work with buses in the database.
type BusRepo struct {
	db *sql.DB
}

// NewBusRepo constructs a BusRepo with the given DB handle.
func NewBusRepo(db *sql.DB) *BusRepo {
	return &BusRepo{db: db}
}

const busColumns = `id, plate_number, model, capacity, is_active, created_at, updated_at`

func scanBus(row interface{ Scan(...any) error }) (model.Bus, error) {
	var b model.Bus
	err := row.Scan(&b.ID, &b.PlateNumber, &b.Model, &b.Capacity, &b.IsActive, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

// Create inserts a bus record. On success the bus's ID is populated.
func (r *BusRepo) Create(ctx context.Context, b *model.Bus) error {
	const q = `INSERT INTO buses (plate_number, model, capacity, is_active)
	           VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, b.PlateNumber, b.Model, b.Capacity, b.IsActive)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return nil
}

// GetByID retrieves a bus by its id.
func (r *BusRepo) GetByID(ctx context.Context, id uint64) (*model.Bus, error) {
	b, err := scanBus(r.db.QueryRowContext(ctx, `SELECT `+busColumns+` FROM buses WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBusNotFound
		}
		return nil, err
	}
	return &b, nil
}

// List returns all buses ordered by plate number.
func (r *BusRepo) List(ctx context.Context) ([]model.Bus, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+busColumns+` FROM buses ORDER BY plate_number`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Bus
	for rows.Next() {
		b, err := scanBus(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	return result, rows.Err()
}

// Update rewrites the mutable fields of a bus. Capacity changes do not touch
// seats already generated for existing trips.
func (r *BusRepo) Update(ctx context.Context, b *model.Bus) error {
	const q = `UPDATE buses SET plate_number = ?, model = ?, capacity = ?, is_active = ?
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, b.PlateNumber, b.Model, b.Capacity, b.IsActive, b.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBusNotFound
	}
	return nil
}

// Delete removes a bus with no trips. Buses referenced by trips fail the FK
// and are reported as a conflict.
func (r *BusRepo) Delete(ctx context.Context, id uint64) error {
	var tripCount int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM trips WHERE bus_id = ?`, id).Scan(&tripCount); err != nil {
		return err
	}
	if tripCount > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM buses WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBusNotFound
	}
	return nil
}

// IsAvailable reports whether the bus has no active trip overlapping the
// [start, end) window. Overlap uses the half-open interval test: a trip
// conflicts when departure < end && arrival > start.
func (r *BusRepo) IsAvailable(ctx context.Context, busID uint64, start, end time.Time) (bool, error) {
	const q = `SELECT COUNT(*) FROM trips
	           WHERE bus_id = ? AND is_active = 1
	             AND departure_time < ? AND arrival_time > ?`
	var n int
	if err := r.db.QueryRowContext(ctx, q, busID, end, start).Scan(&n); err != nil {
		return false, err
	}
	return n == 0, nil
}

// GetStats computes occupancy statistics for a single bus by scanning the
// seats of all its trips.
func (r *BusRepo) GetStats(ctx context.Context, busID uint64) (*model.BusStats, error) {
	bus, err := r.GetByID(ctx, busID)
	if err != nil {
		return nil, err
	}
	const q = `SELECT COUNT(DISTINCT t.id),
	                  COUNT(s.id),
	                  COALESCE(SUM(s.is_occupied), 0)
	           FROM trips t
	           LEFT JOIN seats s ON s.trip_id = t.id
	           WHERE t.bus_id = ?`
	st := model.BusStats{Bus: *bus}
	if err := r.db.QueryRowContext(ctx, q, busID).Scan(&st.TripCount, &st.TotalSeats, &st.OccupiedSeats); err != nil {
		return nil, err
	}
	if st.TotalSeats > 0 {
		st.AverageOccupancy = float64(st.OccupiedSeats) / float64(st.TotalSeats) * 100
	}
	return &st, nil
}
