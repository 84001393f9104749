package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/transportagency/bus-ticket-sales/internal/model"
)

// ErrCustomerNotFound is returned when a customer lookup yields no rows.
var ErrCustomerNotFound = errors.New("customer not found")

// CustomerRepo provides access to the customer directory. Customers are
// deduplicated by document number; the sale transaction resolves the buyer
// through GetByDocumentTx and either updates the row in place or inserts a
// new one.
type CustomerRepo struct {
	db *sql.DB
}

// NewCustomerRepo constructs a CustomerRepo with the given DB handle.
func NewCustomerRepo(db *sql.DB) *CustomerRepo {
	return &CustomerRepo{db: db}
}

const customerColumns = `id, full_name, document_number, phone, email, created_at`

func scanCustomer(row interface{ Scan(...any) error }) (model.Customer, error) {
	var c model.Customer
	var phone, email sql.NullString
	err := row.Scan(&c.ID, &c.FullName, &c.DocumentNumber, &phone, &email, &c.CreatedAt)
	if phone.Valid {
		p := phone.String
		c.Phone = &p
	}
	if email.Valid {
		e := email.String
		c.Email = &e
	}
	return c, err
}

// GetByDocumentTx looks up a customer by document number inside a
// transaction. Returns ErrCustomerNotFound when absent.
func (r *CustomerRepo) GetByDocumentTx(ctx context.Context, tx *sql.Tx, document string) (*model.Customer, error) {
	c, err := scanCustomer(tx.QueryRowContext(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE document_number = ?`, document))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return &c, nil
}

// CreateTx inserts a customer within a transaction and populates its ID.
func (r *CustomerRepo) CreateTx(ctx context.Context, tx *sql.Tx, c *model.Customer) error {
	const q = `INSERT INTO customers (full_name, document_number, phone, email)
	           VALUES (?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, c.FullName, c.DocumentNumber, c.Phone, c.Email)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}

// UpdateContactTx overwrites name, phone and email of an existing customer.
// Called when a returning document number arrives with changed details.
func (r *CustomerRepo) UpdateContactTx(ctx context.Context, tx *sql.Tx, c *model.Customer) error {
	const q = `UPDATE customers SET full_name = ?, phone = ?, email = ? WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, c.FullName, c.Phone, c.Email, c.ID)
	return err
}

// GetByID retrieves a customer by its id.
func (r *CustomerRepo) GetByID(ctx context.Context, id uint64) (*model.Customer, error) {
	c, err := scanCustomer(r.db.QueryRowContext(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return &c, nil
}

// List returns all customers ordered by full name, for the admin panel.
func (r *CustomerRepo) List(ctx context.Context) ([]model.Customer, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+customerColumns+` FROM customers ORDER BY full_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]model.Customer, 0)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}
