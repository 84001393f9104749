// Package service implements the business operations behind the HTTP
// layer: seat allocation, the sale transaction and catalog workflows.
//
// Failures fall into four classes, each anchored by a sentinel so handlers
// can map them to responses with errors.Is: ErrValidation (fix the input),
// ErrNotFound, ErrConflict (someone else won a race, retry), and
// ErrPrecondition (a business deadline rejects the request outright).
package service

import (
	"errors"
	"fmt"
)

// Error class sentinels. Specific errors below wrap exactly one of these.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrPrecondition = errors.New("precondition failed")
)

var (
	// ErrSeatNotFound: the seat id does not exist.
	ErrSeatNotFound = fmt.Errorf("%w: seat", ErrNotFound)
	// ErrTripNotFound: the trip id does not exist.
	ErrTripNotFound = fmt.Errorf("%w: trip", ErrNotFound)
	// ErrSaleNotFound: the sale id or receipt number does not exist.
	ErrSaleNotFound = fmt.Errorf("%w: sale", ErrNotFound)
	// ErrCustomerNotFound: the customer id does not exist.
	ErrCustomerNotFound = fmt.Errorf("%w: customer", ErrNotFound)

	// ErrSeatOccupied: another completed sale already holds the seat.
	ErrSeatOccupied = fmt.Errorf("%w: seat already occupied", ErrConflict)
	// ErrSeatNotOccupied: releasing a seat that no sale holds.
	ErrSeatNotOccupied = fmt.Errorf("%w: seat is not occupied", ErrConflict)
	// ErrSeatsExist: the trip already has its seat set generated.
	ErrSeatsExist = fmt.Errorf("%w: seats already generated for trip", ErrConflict)
	// ErrSaleCancelled: the sale was already cancelled.
	ErrSaleCancelled = fmt.Errorf("%w: sale already cancelled", ErrConflict)
	// ErrReceiptExhausted: could not mint a unique receipt number.
	ErrReceiptExhausted = fmt.Errorf("%w: receipt number attempts exhausted", ErrConflict)

	// ErrTripInactive: seats on inactive trips are not sellable.
	ErrTripInactive = fmt.Errorf("%w: trip is not active", ErrPrecondition)
	// ErrDepartsSoon: the trip departs within the sale cutoff window.
	ErrDepartsSoon = fmt.Errorf("%w: trip departs in less than %d minutes", ErrPrecondition, saleCutoffMinutes)
	// ErrAlreadyDeparted: cancellation after departure is not permitted.
	ErrAlreadyDeparted = fmt.Errorf("%w: trip already departed", ErrPrecondition)
)

// invalid builds a field-level validation error.
func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
