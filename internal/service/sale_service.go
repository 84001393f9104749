package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/transportagency/bus-ticket-sales/internal/model"
	"github.com/transportagency/bus-ticket-sales/internal/repository"
)

// saleCutoffMinutes is the pre-departure sale cutoff: a seat cannot be
// sold when its trip departs within this window, keeping last-minute sales
// clear of boarding operations.
const saleCutoffMinutes = 30

// SaleService orchestrates the sale transaction: request validation,
// customer resolution, receipt minting, and the atomic pair of writes that
// records the sale and occupies the seat. Cancellation reverses both
// writes under the same transactional contract.
type SaleService struct {
	db        *sql.DB
	sales     *repository.SaleRepo
	seats     *repository.SeatRepo
	customers *repository.CustomerRepo

	// now is stubbed in tests to pin the deadline checks.
	now func() time.Time
	// publish, when set, receives every committed sale for downstream
	// consumers (receipt rendering). Runs after commit; failures are the
	// publisher's problem, never the sale's.
	publish func(ctx context.Context, d model.SaleDetail)
}

// NewSaleService constructs a SaleService. The publish hook may be nil.
func NewSaleService(db *sql.DB, sales *repository.SaleRepo, seats *repository.SeatRepo, customers *repository.CustomerRepo, publish func(ctx context.Context, d model.SaleDetail)) *SaleService {
	if db == nil || sales == nil || seats == nil || customers == nil {
		panic("nil dependency passed to NewSaleService")
	}
	return &SaleService{
		db:        db,
		sales:     sales,
		seats:     seats,
		customers: customers,
		now:       func() time.Time { return time.Now().UTC() },
		publish:   publish,
	}
}

// ProcessSale validates the request and performs the purchase inside one
// database transaction. The seat occupancy flip is a guarded conditional
// update, so when two requests race for the same seat exactly one commits
// a sale and the other fails with a conflict and leaves no trace.
func (s *SaleService) ProcessSale(ctx context.Context, req CreateSaleRequest) (*model.SaleDetail, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	now := s.now()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin sale: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	row, err := s.seats.GetWithTripTx(ctx, tx, req.SeatID)
	if err != nil {
		if errors.Is(err, repository.ErrSeatNotFound) {
			return nil, ErrSeatNotFound
		}
		return nil, fmt.Errorf("load seat %d: %w", req.SeatID, err)
	}
	if row.Seat.IsOccupied {
		return nil, ErrSeatOccupied
	}
	if !row.TripActive {
		return nil, ErrTripInactive
	}
	if !row.DepartureTime.After(now.Add(saleCutoffMinutes * time.Minute)) {
		return nil, ErrDepartsSoon
	}

	customer, err := s.resolveCustomerTx(ctx, tx, req)
	if err != nil {
		return nil, err
	}

	receipt, err := generateReceiptNumberTx(ctx, tx, s.sales, now)
	if err != nil {
		return nil, err
	}

	sale := &model.Sale{
		CustomerID:    customer.ID,
		SeatID:        req.SeatID,
		Amount:        req.Amount,
		SaleDate:      now,
		ReceiptNumber: receipt,
		Status:        model.SaleCompleted,
	}
	if err := s.sales.CreateTx(ctx, tx, sale); err != nil {
		return nil, fmt.Errorf("insert sale for seat %d: %w", req.SeatID, err)
	}
	if err := s.seats.MarkOccupiedTx(ctx, tx, req.SeatID); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			// Another request occupied the seat between our read and this
			// write. Rolling back removes the inserted sale.
			return nil, ErrSeatOccupied
		}
		return nil, fmt.Errorf("occupy seat %d: %w", req.SeatID, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit sale: %w", err)
	}
	committed = true

	detail, err := s.sales.GetDetailByID(ctx, sale.ID)
	if err != nil {
		return nil, fmt.Errorf("load sale %d after commit: %w", sale.ID, err)
	}
	if s.publish != nil {
		s.publish(ctx, *detail)
	}
	return detail, nil
}

// resolveCustomerTx finds the buyer by document number and refreshes the
// contact fields, or inserts a new directory row.
func (s *SaleService) resolveCustomerTx(ctx context.Context, tx *sql.Tx, req CreateSaleRequest) (*model.Customer, error) {
	var phone, email *string
	if req.Phone != "" {
		phone = &req.Phone
	}
	if req.Email != "" {
		email = &req.Email
	}

	customer, err := s.customers.GetByDocumentTx(ctx, tx, req.DocumentNumber)
	switch {
	case err == nil:
		if customerChanged(customer, req.CustomerName, phone, email) {
			customer.FullName = req.CustomerName
			customer.Phone = phone
			customer.Email = email
			if err := s.customers.UpdateContactTx(ctx, tx, customer); err != nil {
				return nil, fmt.Errorf("update customer %s: %w", req.DocumentNumber, err)
			}
		}
		return customer, nil
	case errors.Is(err, repository.ErrCustomerNotFound):
		c := &model.Customer{
			FullName:       req.CustomerName,
			DocumentNumber: req.DocumentNumber,
			Phone:          phone,
			Email:          email,
		}
		if err := s.customers.CreateTx(ctx, tx, c); err != nil {
			return nil, fmt.Errorf("create customer %s: %w", req.DocumentNumber, err)
		}
		return c, nil
	default:
		return nil, fmt.Errorf("lookup customer %s: %w", req.DocumentNumber, err)
	}
}

func customerChanged(c *model.Customer, name string, phone, email *string) bool {
	return c.FullName != name || !strPtrEqual(c.Phone, phone) || !strPtrEqual(c.Email, email)
}

func strPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// CancelSale releases the seat and marks the sale cancelled in one
// transaction. Cancellation is rejected once the trip has departed.
func (s *SaleService) CancelSale(ctx context.Context, saleID uint64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin cancellation: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	seatID, status, departure, err := s.sales.GetForCancelTx(ctx, tx, saleID)
	if err != nil {
		if errors.Is(err, repository.ErrSaleNotFound) {
			return ErrSaleNotFound
		}
		return fmt.Errorf("load sale %d: %w", saleID, err)
	}
	if status == model.SaleCancelled {
		return ErrSaleCancelled
	}
	if !departure.After(s.now()) {
		return ErrAlreadyDeparted
	}
	if err := s.seats.MarkAvailableTx(ctx, tx, seatID); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return ErrSeatNotOccupied
		}
		return fmt.Errorf("release seat %d: %w", seatID, err)
	}
	if err := s.sales.CancelTx(ctx, tx, saleID); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return ErrSaleCancelled
		}
		return fmt.Errorf("cancel sale %d: %w", saleID, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit cancellation: %w", err)
	}
	committed = true
	return nil
}

// GetSaleByID returns the fully joined sale projection.
func (s *SaleService) GetSaleByID(ctx context.Context, saleID uint64) (*model.SaleDetail, error) {
	d, err := s.sales.GetDetailByID(ctx, saleID)
	if err != nil {
		if errors.Is(err, repository.ErrSaleNotFound) {
			return nil, ErrSaleNotFound
		}
		return nil, fmt.Errorf("load sale %d: %w", saleID, err)
	}
	return d, nil
}

// GetSaleByReceiptNumber returns the fully joined sale projection for a
// receipt number. The receipt renderer consumes this.
func (s *SaleService) GetSaleByReceiptNumber(ctx context.Context, receipt string) (*model.SaleDetail, error) {
	if receipt == "" {
		return nil, invalid("receipt number is required")
	}
	d, err := s.sales.GetDetailByReceipt(ctx, receipt)
	if err != nil {
		if errors.Is(err, repository.ErrSaleNotFound) {
			return nil, ErrSaleNotFound
		}
		return nil, fmt.Errorf("load sale by receipt %s: %w", receipt, err)
	}
	return d, nil
}

// ConfirmationView is what the post-purchase confirmation page shows.
type ConfirmationView struct {
	SaleID         uint64    `json:"sale_id"`
	ReceiptNumber  string    `json:"receipt_number"`
	CustomerName   string    `json:"customer_name"`
	DocumentNumber string    `json:"document_number"`
	TripInfo       string    `json:"trip_info"`
	SeatNumber     string    `json:"seat_number"`
	Amount         float64   `json:"amount"`
	SaleDate       time.Time `json:"sale_date"`
	DepartureTime  time.Time `json:"departure_time"`
	BusInfo        string    `json:"bus_info"`
}

// GetSaleConfirmation assembles the confirmation view for a sale.
func (s *SaleService) GetSaleConfirmation(ctx context.Context, saleID uint64) (*ConfirmationView, error) {
	d, err := s.GetSaleByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	return &ConfirmationView{
		SaleID:         d.ID,
		ReceiptNumber:  d.ReceiptNumber,
		CustomerName:   d.CustomerName,
		DocumentNumber: d.DocumentNumber,
		TripInfo:       d.TripInfo(),
		SeatNumber:     d.SeatNumber,
		Amount:         d.Amount,
		SaleDate:       d.SaleDate,
		DepartureTime:  d.DepartureTime,
		BusInfo:        d.BusInfo(),
	}, nil
}

// SearchSales runs the admin sale search with its fixed filter order.
func (s *SaleService) SearchSales(ctx context.Context, q repository.SaleSearchQuery) ([]model.SaleDetail, error) {
	return s.sales.Search(ctx, q)
}

// GetSalesByDate returns completed sales on one calendar day (UTC).
func (s *SaleService) GetSalesByDate(ctx context.Context, day time.Time) ([]model.SaleDetail, error) {
	start := day.UTC().Truncate(24 * time.Hour)
	return s.sales.ListByDateRange(ctx, start, start.Add(24*time.Hour))
}

// GetSalesByDateRange returns completed sales within [start, end] days.
func (s *SaleService) GetSalesByDateRange(ctx context.Context, start, end time.Time) ([]model.SaleDetail, error) {
	if start.After(end) {
		return nil, invalid("start date must not be after end date")
	}
	startDay := start.UTC().Truncate(24 * time.Hour)
	endDay := end.UTC().Truncate(24 * time.Hour).Add(24 * time.Hour)
	return s.sales.ListByDateRange(ctx, startDay, endDay)
}

// GetRecentSales returns the latest completed sales, defaulting to ten.
func (s *SaleService) GetRecentSales(ctx context.Context, count int) ([]model.SaleDetail, error) {
	if count <= 0 {
		count = 10
	}
	return s.sales.ListRecent(ctx, count)
}

// GetSalesByCustomerDocument returns completed sales for a document number.
func (s *SaleService) GetSalesByCustomerDocument(ctx context.Context, document string) ([]model.SaleDetail, error) {
	if document == "" {
		return nil, invalid("document number is required")
	}
	return s.sales.ListByCustomerDocument(ctx, document)
}

// GetSalesByCustomer returns completed sales for a customer id. The
// customer must exist; an unknown id is reported rather than silently
// yielding an empty list.
func (s *SaleService) GetSalesByCustomer(ctx context.Context, customerID uint64) ([]model.SaleDetail, error) {
	if _, err := s.customers.GetByID(ctx, customerID); err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return s.sales.ListByCustomer(ctx, customerID)
}

// DailyRevenue reports the completed-sale total and count for one day.
func (s *SaleService) DailyRevenue(ctx context.Context, day time.Time) (total float64, count int, err error) {
	start := day.UTC().Truncate(24 * time.Hour)
	end := start.Add(24 * time.Hour)
	if total, err = s.sales.RevenueByDateRange(ctx, start, end); err != nil {
		return 0, 0, err
	}
	if count, err = s.sales.CountByDateRange(ctx, start, end); err != nil {
		return 0, 0, err
	}
	return total, count, nil
}
