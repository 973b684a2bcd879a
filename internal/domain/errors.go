package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidInput           = errors.New("invalid input")
	ErrNotFound               = errors.New("not found")
	ErrInsufficientStock      = errors.New("insufficient stock")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrForbidden              = errors.New("forbidden")
	ErrAlreadyReceived        = fmt.Errorf("report already received: %w", ErrInvalidStateTransition)
)

// InsufficientStockError names the item a ledger batch would drive negative
type InsufficientStockError struct {
	ItemID    string
	ItemName  string
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s (%s): available %s, requested %s",
		e.ItemName, e.ItemID, e.Available.String(), e.Requested.String())
}

// Is lets errors.Is match the sentinel
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// Shortage is how much more stock the batch needed
func (e *InsufficientStockError) Shortage() decimal.Decimal {
	return e.Requested.Sub(e.Available)
}

// InvalidInputf wraps ErrInvalidInput with a message
func InvalidInputf(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalidInput)
}

// NotFoundf wraps ErrNotFound with the missing resource
func NotFoundf(resource, id string) error {
	return fmt.Errorf("%s %q: %w", resource, id, ErrNotFound)
}

// TransitionError wraps ErrInvalidStateTransition with the attempted move
func TransitionError(resource, id string, from, to any) error {
	return fmt.Errorf("%s %s cannot move from %v to %v: %w", resource, id, from, to, ErrInvalidStateTransition)
}
