package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTripSearchQueryAlwaysFiltersActive(t *testing.T) {
	where, args := TripSearchQuery{}.Clauses()
	require.Equal(t, []string{"t.is_active = 1"}, where)
	require.Empty(t, args)
}

func TestTripSearchQueryFilterOrder(t *testing.T) {
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	minPrice := 20.0
	maxPrice := 80.0

	q := TripSearchQuery{
		Origin:      "Lima",
		Destination: "Cusco",
		StartDate:   &start,
		EndDate:     &end,
		MinPrice:    &minPrice,
		MaxPrice:    &maxPrice,
	}
	where, args := q.Clauses()

	require.Equal(t, []string{
		"t.is_active = 1",
		"LOWER(r.origin) LIKE ?",
		"LOWER(r.destination) LIKE ?",
		"t.departure_time >= ?",
		"t.departure_time < ?",
		"t.price >= ?",
		"t.price <= ?",
	}, where)
	require.Equal(t, "%lima%", args[0])
	require.Equal(t, "%cusco%", args[1])
	require.Equal(t, end.Add(24*time.Hour), args[3])
}

func TestTripSearchQueryCaseInsensitiveSubstrings(t *testing.T) {
	q := TripSearchQuery{Origin: "LiMa"}
	_, args := q.Clauses()
	require.Equal(t, "%lima%", args[0])
}
