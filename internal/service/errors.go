package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Error kinds. Handlers map these to HTTP status codes with errors.Is.
var (
	ErrValidation   = errors.New("validation")   // 400
	ErrNotFound     = errors.New("not found")    // 404
	ErrConsistency  = errors.New("consistency")  // 400
	ErrUnauthorized = errors.New("unauthorized") // 401
	ErrForbidden    = errors.New("forbidden")    // 403
)

var (
	ErrEmptyCart         = fmt.Errorf("%w: all fields are required", ErrValidation)
	ErrInvalidQuantity   = fmt.Errorf("%w: quantity must be greater than zero", ErrValidation)
	ErrInvalidStatus     = fmt.Errorf("%w: invalid status", ErrValidation)
	ErrProductNotFound   = fmt.Errorf("%w: one or more products not found", ErrNotFound)
	ErrOrderNotFound     = fmt.Errorf("%w: order not found", ErrNotFound)
	ErrUserNotFound      = fmt.Errorf("%w: user not found", ErrNotFound)
	ErrTotalMismatch     = fmt.Errorf("%w: total amount mismatch", ErrConsistency)
	ErrInsufficientStock = fmt.Errorf("%w: insufficient stock", ErrConsistency)
)

// StockError reports which product could not cover the requested quantity
type StockError struct {
	ProductID uuid.UUID
	Name      string
	Requested int
	Available int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("Not enough stock for %s (requested %d, available %d)", e.Name, e.Requested, e.Available)
}

func (e *StockError) Unwrap() error {
	return ErrInsufficientStock
}

func validationError(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}
