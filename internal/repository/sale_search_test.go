package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/transportagency/bus-ticket-sales/internal/model"
)

func TestSaleSearchQueryDefaultsToCompletedOnly(t *testing.T) {
	where, args := SaleSearchQuery{}.Clauses()
	require.Equal(t, []string{"s.status = ?"}, where)
	require.Equal(t, []any{model.SaleCompleted}, args)
}

func TestSaleSearchQueryIncludeCancelledDropsStatusFilter(t *testing.T) {
	where, _ := SaleSearchQuery{IncludeCancelled: true}.Clauses()
	require.Empty(t, where)
}

func TestSaleSearchQueryFilterOrder(t *testing.T) {
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	minAmount := 10.0
	maxAmount := 99.99

	q := SaleSearchQuery{
		StartDate:      &start,
		EndDate:        &end,
		CustomerName:   "Maria",
		DocumentNumber: "4012",
		ReceiptNumber:  "REC-20260830-090000-123",
		TripID:         2,
		MinAmount:      &minAmount,
		MaxAmount:      &maxAmount,
	}
	where, args := q.Clauses()

	require.Equal(t, []string{
		"s.status = ?",
		"s.sale_date >= ?",
		"s.sale_date < ?",
		"LOWER(c.full_name) LIKE ?",
		"LOWER(c.document_number) LIKE ?",
		"s.receipt_number = ?",
		"se.trip_id = ?",
		"s.amount >= ?",
		"s.amount <= ?",
	}, where)
	require.Len(t, args, len(where))
	// The end date is inclusive: the rendered bound is the next day.
	require.Equal(t, end.Add(24*time.Hour), args[2])
	require.Equal(t, "%maria%", args[3])
	require.Equal(t, "%4012%", args[4])
}

func TestSaleSearchQuerySkipsBlankFilters(t *testing.T) {
	q := SaleSearchQuery{CustomerName: "", TripID: 0}
	where, _ := q.Clauses()
	require.Equal(t, []string{"s.status = ?"}, where)
}
