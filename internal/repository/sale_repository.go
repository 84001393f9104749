package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/transportagency/bus-ticket-sales/internal/model"
)

// ErrSaleNotFound is returned when a sale lookup yields no rows.
var ErrSaleNotFound = errors.New("sale not found")

// SaleRepo provides access to sale records. Writes run inside the sale
// transaction opened by the orchestrator; reads return the fully joined
// SaleDetail projection used by confirmations, receipts and the admin
// panel.
type SaleRepo struct {
	db *sql.DB
}

// NewSaleRepo constructs a SaleRepo with the given DB handle.
func NewSaleRepo(db *sql.DB) *SaleRepo {
	return &SaleRepo{db: db}
}

// CreateTx inserts a completed sale within a transaction and populates its
// ID. The unique index on receipt_number is the hard uniqueness guarantee
// behind the generator's collision retries.
func (r *SaleRepo) CreateTx(ctx context.Context, tx *sql.Tx, s *model.Sale) error {
	const q = `INSERT INTO sales (customer_id, seat_id, amount, sale_date, receipt_number, status)
	           VALUES (?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, s.CustomerID, s.SeatID, s.Amount, s.SaleDate, s.ReceiptNumber, s.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// CancelTx marks a completed sale cancelled. The status guard makes the
// flip race-safe: cancelling an already cancelled sale affects zero rows
// and reports ErrConflict.
func (r *SaleRepo) CancelTx(ctx context.Context, tx *sql.Tx, saleID uint64) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE sales SET status = ? WHERE id = ? AND status = ?`,
		model.SaleCancelled, saleID, model.SaleCompleted)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrConflict
	}
	return nil
}

// ReceiptExistsTx reports whether a receipt number is already taken,
// including by cancelled sales (their receipts stay reserved).
func (r *SaleRepo) ReceiptExistsTx(ctx context.Context, tx *sql.Tx, receipt string) (bool, error) {
	var n int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sales WHERE receipt_number = ?`, receipt).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// GetForCancelTx loads the sale fields the cancellation path needs: the
// seat to release and the trip departure that gates the operation.
func (r *SaleRepo) GetForCancelTx(ctx context.Context, tx *sql.Tx, saleID uint64) (seatID uint64, status string, departure time.Time, err error) {
	const q = `SELECT s.seat_id, s.status, t.departure_time
	           FROM sales s
	           JOIN seats se ON se.id = s.seat_id
	           JOIN trips t  ON t.id = se.trip_id
	           WHERE s.id = ?`
	err = tx.QueryRowContext(ctx, q, saleID).Scan(&seatID, &status, &departure)
	if errors.Is(err, sql.ErrNoRows) {
		err = ErrSaleNotFound
	}
	return
}

const saleDetailSelect = `SELECT s.id, s.customer_id, s.seat_id, s.amount, s.sale_date, s.receipt_number, s.status,
       c.full_name, c.document_number, c.phone, c.email,
       se.seat_number, se.trip_id,
       t.departure_time, t.arrival_time,
       r.origin, r.destination,
       b.model, b.plate_number
FROM sales s
JOIN customers c ON c.id = s.customer_id
JOIN seats se    ON se.id = s.seat_id
JOIN trips t     ON t.id = se.trip_id
JOIN routes r    ON r.id = t.route_id
JOIN buses b     ON b.id = t.bus_id`

func scanSaleDetail(row interface{ Scan(...any) error }) (model.SaleDetail, error) {
	var d model.SaleDetail
	var phone, email sql.NullString
	err := row.Scan(
		&d.ID, &d.CustomerID, &d.SeatID, &d.Amount, &d.SaleDate, &d.ReceiptNumber, &d.Status,
		&d.CustomerName, &d.DocumentNumber, &phone, &email,
		&d.SeatNumber, &d.TripID,
		&d.DepartureTime, &d.ArrivalTime,
		&d.Origin, &d.Destination,
		&d.BusModel, &d.PlateNumber,
	)
	if phone.Valid {
		p := phone.String
		d.Phone = &p
	}
	if email.Valid {
		e := email.String
		d.Email = &e
	}
	return d, err
}

// GetDetailByID returns the fully joined projection of one sale.
func (r *SaleRepo) GetDetailByID(ctx context.Context, id uint64) (*model.SaleDetail, error) {
	d, err := scanSaleDetail(r.db.QueryRowContext(ctx, saleDetailSelect+` WHERE s.id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSaleNotFound
		}
		return nil, err
	}
	return &d, nil
}

// GetDetailByReceipt returns the fully joined projection of the sale with
// the given receipt number. The receipt renderer reads through this.
func (r *SaleRepo) GetDetailByReceipt(ctx context.Context, receipt string) (*model.SaleDetail, error) {
	d, err := scanSaleDetail(r.db.QueryRowContext(ctx, saleDetailSelect+` WHERE s.receipt_number = ?`, receipt))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSaleNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *SaleRepo) queryDetails(ctx context.Context, q string, args ...any) ([]model.SaleDetail, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]model.SaleDetail, 0)
	for rows.Next() {
		d, err := scanSaleDetail(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	return result, rows.Err()
}

// ListByDateRange returns completed sales with sale_date in [start, end),
// newest first.
func (r *SaleRepo) ListByDateRange(ctx context.Context, start, end time.Time) ([]model.SaleDetail, error) {
	q := saleDetailSelect + ` WHERE s.status = ? AND s.sale_date >= ? AND s.sale_date < ?
	ORDER BY s.sale_date DESC`
	return r.queryDetails(ctx, q, model.SaleCompleted, start, end)
}

// ListRecent returns the most recent completed sales, newest first.
func (r *SaleRepo) ListRecent(ctx context.Context, limit int) ([]model.SaleDetail, error) {
	q := saleDetailSelect + ` WHERE s.status = ? ORDER BY s.sale_date DESC LIMIT ?`
	return r.queryDetails(ctx, q, model.SaleCompleted, limit)
}

// ListByCustomer returns completed sales for a customer id, newest first.
func (r *SaleRepo) ListByCustomer(ctx context.Context, customerID uint64) ([]model.SaleDetail, error) {
	q := saleDetailSelect + ` WHERE s.status = ? AND s.customer_id = ? ORDER BY s.sale_date DESC`
	return r.queryDetails(ctx, q, model.SaleCompleted, customerID)
}

// ListByCustomerDocument returns completed sales for a document number,
// newest first.
func (r *SaleRepo) ListByCustomerDocument(ctx context.Context, document string) ([]model.SaleDetail, error) {
	q := saleDetailSelect + ` WHERE s.status = ? AND c.document_number = ? ORDER BY s.sale_date DESC`
	return r.queryDetails(ctx, q, model.SaleCompleted, document)
}

// RevenueByDateRange sums completed sale amounts with sale_date in
// [start, end).
func (r *SaleRepo) RevenueByDateRange(ctx context.Context, start, end time.Time) (float64, error) {
	var total float64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM sales WHERE status = ? AND sale_date >= ? AND sale_date < ?`,
		model.SaleCompleted, start, end,
	).Scan(&total)
	return total, err
}

// CountByDateRange counts completed sales with sale_date in [start, end).
func (r *SaleRepo) CountByDateRange(ctx context.Context, start, end time.Time) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sales WHERE status = ? AND sale_date >= ? AND sale_date < ?`,
		model.SaleCompleted, start, end,
	).Scan(&n)
	return n, err
}
