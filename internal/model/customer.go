package model

import "time"

// Customer is a directory entry keyed by document number. Customers are
// created as a side effect of the first sale referencing a document number;
// later sales with the same document update name/phone/email in place and
// reuse the same row.
type Customer struct {
	ID             uint64    `json:"id"`
	FullName       string    `json:"full_name"`
	DocumentNumber string    `json:"document_number"`
	Phone          *string   `json:"phone,omitempty"`
	Email          *string   `json:"email,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
