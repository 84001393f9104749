package repository

import (
	"context"
	"strings"
	"time"

	"github.com/transportagency/bus-ticket-sales/internal/model"
)

// SaleSearchQuery defines the admin panel's sale filters. Filters are
// applied in a fixed order (date range, customer name, document, receipt,
// trip, amount range) so that result sets are reproducible across runs.
type SaleSearchQuery struct {
	StartDate        *time.Time // inclusive, date-truncated by the caller
	EndDate          *time.Time // inclusive day; the query uses < end+24h
	CustomerName     string     // case-insensitive substring
	DocumentNumber   string     // case-insensitive substring
	ReceiptNumber    string     // exact match
	TripID           uint64     // zero means any trip
	MinAmount        *float64
	MaxAmount        *float64
	IncludeCancelled bool // admin listing may show voided sales
}

// Clauses renders the query into SQL conditions and their arguments, in
// filter order. Split out from Search so the construction is testable
// without a database.
func (q SaleSearchQuery) Clauses() ([]string, []any) {
	where := []string{}
	args := []any{}

	if !q.IncludeCancelled {
		where = append(where, "s.status = ?")
		args = append(args, model.SaleCompleted)
	}
	if q.StartDate != nil {
		where = append(where, "s.sale_date >= ?")
		args = append(args, *q.StartDate)
	}
	if q.EndDate != nil {
		where = append(where, "s.sale_date < ?")
		args = append(args, q.EndDate.Add(24*time.Hour))
	}
	if q.CustomerName != "" {
		where = append(where, "LOWER(c.full_name) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.CustomerName)+"%")
	}
	if q.DocumentNumber != "" {
		where = append(where, "LOWER(c.document_number) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.DocumentNumber)+"%")
	}
	if q.ReceiptNumber != "" {
		where = append(where, "s.receipt_number = ?")
		args = append(args, q.ReceiptNumber)
	}
	if q.TripID != 0 {
		where = append(where, "se.trip_id = ?")
		args = append(args, q.TripID)
	}
	if q.MinAmount != nil {
		where = append(where, "s.amount >= ?")
		args = append(args, *q.MinAmount)
	}
	if q.MaxAmount != nil {
		where = append(where, "s.amount <= ?")
		args = append(args, *q.MaxAmount)
	}
	return where, args
}

// Search runs the filtered sale query, newest sale first.
func (r *SaleRepo) Search(ctx context.Context, q SaleSearchQuery) ([]model.SaleDetail, error) {
	where, args := q.Clauses()
	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}
	sqlText := saleDetailSelect + `
	WHERE ` + cond + `
	ORDER BY s.sale_date DESC`
	return r.queryDetails(ctx, sqlText, args...)
}
