package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/transportagency/bus-ticket-sales/internal/model"
)

// ErrRouteNotFound is returned when a route lookup yields no rows.
var ErrRouteNotFound = errors.New("route not found")

// RouteRepo provides methods to work with routes in the database.
type RouteRepo struct {
	db *sql.DB
}

// NewRouteRepo constructs a RouteRepo with the given DB handle.
func NewRouteRepo(db *sql.DB) *RouteRepo {
	return &RouteRepo{db: db}
}

const routeColumns = `id, origin, destination, distance_km, base_price, is_active, created_at, updated_at`

func scanRoute(row interface{ Scan(...any) error }) (model.Route, error) {
	var rt model.Route
	err := row.Scan(&rt.ID, &rt.Origin, &rt.Destination, &rt.DistanceKM, &rt.BasePrice, &rt.IsActive, &rt.CreatedAt, &rt.UpdatedAt)
	return rt, err
}

// Create inserts a route record. On success the route's ID is populated.
func (r *RouteRepo) Create(ctx context.Context, rt *model.Route) error {
	const q = `INSERT INTO routes (origin, destination, distance_km, base_price, is_active)
	           VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, rt.Origin, rt.Destination, rt.DistanceKM, rt.BasePrice, rt.IsActive)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rt.ID = uint64(id)
	return nil
}

// GetByID retrieves a route by its id.
func (r *RouteRepo) GetByID(ctx context.Context, id uint64) (*model.Route, error) {
	rt, err := scanRoute(r.db.QueryRowContext(ctx, `SELECT `+routeColumns+` FROM routes WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRouteNotFound
		}
		return nil, err
	}
	return &rt, nil
}

// List returns all routes ordered by origin then destination.
func (r *RouteRepo) List(ctx context.Context) ([]model.Route, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+routeColumns+` FROM routes ORDER BY origin, destination`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Route
	for rows.Next() {
		rt, err := scanRoute(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, rt)
	}
	return result, rows.Err()
}

// Update rewrites the mutable fields of a route.
func (r *RouteRepo) Update(ctx context.Context, rt *model.Route) error {
	const q = `UPDATE routes SET origin = ?, destination = ?, distance_km = ?, base_price = ?, is_active = ?
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, rt.Origin, rt.Destination, rt.DistanceKM, rt.BasePrice, rt.IsActive, rt.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRouteNotFound
	}
	return nil
}

// Delete removes a route with no trips; routes referenced by trips are a
// conflict.
func (r *RouteRepo) Delete(ctx context.Context, id uint64) error {
	var tripCount int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM trips WHERE route_id = ?`, id).Scan(&tripCount); err != nil {
		return err
	}
	if tripCount > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM routes WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRouteNotFound
	}
	return nil
}
