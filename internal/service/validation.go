package service

import (
	"regexp"
	"strings"
)

// Field limits for purchase requests. They match the column sizes in
// schema.sql so validation failures surface before the database rejects
// the row.
const (
	maxCustomerNameLen = 100
	maxDocumentLen     = 20
	maxPhoneLen        = 15
	maxEmailLen        = 100
	maxAmount          = 9999.99
)

var (
	// phonePattern accepts digits plus common separators and grouping.
	phonePattern = regexp.MustCompile(`^[\d\-\+\(\)\s]+$`)
	// emailPattern is the permissive local@domain.tld shape; real
	// verification would need a round trip anyway.
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// CreateSaleRequest is the purchase DTO received from the web layer.
// Phone and Email are optional; empty strings mean absent.
type CreateSaleRequest struct {
	SeatID         uint64  `json:"seat_id"`
	CustomerName   string  `json:"customer_name"`
	DocumentNumber string  `json:"document_number"`
	Phone          string  `json:"phone"`
	Email          string  `json:"email"`
	Amount         float64 `json:"amount"`
}

// Validate checks all request fields and returns the first violation
// wrapped in ErrValidation. Whitespace-only values count as empty.
func (req *CreateSaleRequest) Validate() error {
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.DocumentNumber = strings.TrimSpace(req.DocumentNumber)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Email = strings.TrimSpace(req.Email)

	if req.CustomerName == "" {
		return invalid("customer name is required")
	}
	if len(req.CustomerName) > maxCustomerNameLen {
		return invalid("customer name exceeds %d characters", maxCustomerNameLen)
	}
	if req.DocumentNumber == "" {
		return invalid("document number is required")
	}
	if len(req.DocumentNumber) > maxDocumentLen {
		return invalid("document number exceeds %d characters", maxDocumentLen)
	}
	if req.Phone != "" {
		if len(req.Phone) > maxPhoneLen {
			return invalid("phone exceeds %d characters", maxPhoneLen)
		}
		if !phonePattern.MatchString(req.Phone) {
			return invalid("phone format is not valid")
		}
	}
	if req.Email != "" {
		if len(req.Email) > maxEmailLen {
			return invalid("email exceeds %d characters", maxEmailLen)
		}
		if !emailPattern.MatchString(req.Email) {
			return invalid("email format is not valid")
		}
	}
	if req.SeatID == 0 {
		return invalid("seat id is required")
	}
	if req.Amount <= 0 {
		return invalid("amount must be greater than 0")
	}
	if req.Amount > maxAmount {
		return invalid("amount cannot exceed %.2f", maxAmount)
	}
	return nil
}
