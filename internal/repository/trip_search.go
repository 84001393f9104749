package repository

import (
	"context"
	"strings"
	"time"

	"github.com/transportagency/bus-ticket-sales/internal/model"
)

// TripSearchQuery defines the public trip search filters. Results are
// always sorted by departure time ascending.
type TripSearchQuery struct {
	Origin        string     // case-insensitive substring
	Destination   string     // case-insensitive substring
	StartDate     *time.Time // departures at or after
	EndDate       *time.Time // departures before end+24h
	MinPrice      *float64
	MaxPrice      *float64
	OnlyAvailable bool // keep only trips with at least one free seat
}

// Clauses renders the pre-aggregation SQL conditions in filter order.
// The availability filter is applied as a HAVING clause by Search because
// it depends on the seat aggregate.
func (q TripSearchQuery) Clauses() ([]string, []any) {
	where := []string{"t.is_active = 1"}
	args := []any{}

	if q.Origin != "" {
		where = append(where, "LOWER(r.origin) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.Origin)+"%")
	}
	if q.Destination != "" {
		where = append(where, "LOWER(r.destination) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.Destination)+"%")
	}
	if q.StartDate != nil {
		where = append(where, "t.departure_time >= ?")
		args = append(args, *q.StartDate)
	}
	if q.EndDate != nil {
		where = append(where, "t.departure_time < ?")
		args = append(args, q.EndDate.Add(24*time.Hour))
	}
	if q.MinPrice != nil {
		where = append(where, "t.price >= ?")
		args = append(args, *q.MinPrice)
	}
	if q.MaxPrice != nil {
		where = append(where, "t.price <= ?")
		args = append(args, *q.MaxPrice)
	}
	return where, args
}

// Search runs the filtered trip query with seat availability aggregates,
// ordered by departure time ascending.
func (r *TripRepo) Search(ctx context.Context, q TripSearchQuery) ([]model.TripSummary, error) {
	where, args := q.Clauses()
	sqlText := `SELECT t.id, t.bus_id, t.route_id, t.departure_time, t.arrival_time,
	       t.price, t.is_active, t.created_at, t.updated_at,
	       r.origin, r.destination, b.model, b.plate_number,
	       COUNT(s.id), COALESCE(SUM(s.is_occupied = 0), 0)
	FROM trips t
	JOIN routes r ON r.id = t.route_id
	JOIN buses  b ON b.id = t.bus_id
	LEFT JOIN seats s ON s.trip_id = t.id
	WHERE ` + strings.Join(where, " AND ") + `
	GROUP BY t.id`
	if q.OnlyAvailable {
		sqlText += `
	HAVING COALESCE(SUM(s.is_occupied = 0), 0) > 0`
	}
	sqlText += `
	ORDER BY t.departure_time ASC`

	rows, err := r.db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTripSummaries(rows)
}
