package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// Directory errors
	ErrItemNotFound = errors.New("item not found in directory")
	ErrItemInactive = errors.New("item is inactive")

	// Entry validation errors
	ErrFutureDate         = errors.New("transaction date is in the future")
	ErrInvalidQuantity    = errors.New("quantity must be positive")
	ErrMissingDocument    = errors.New("document number is required")
	ErrMissingBatch       = errors.New("batch id is required for this activity")
	ErrInvalidBatchFormat = errors.New("invalid batch id format")
	ErrExpiryRequired     = errors.New("expiry date is required for inbound activity")
	ErrExpiryBeforeDate   = errors.New("expiry date precedes transaction date")

	// Ledger errors
	ErrUnknownLedger     = errors.New("unknown ledger")
	ErrUnknownActivity   = errors.New("unknown activity kind for this ledger")
	ErrEntryNotFound     = errors.New("ledger entry not found")
	ErrInsufficientStock = errors.New("insufficient batch stock")
)

// InsufficientStockError reports how much stock was available against what
// the rejected entry requested.
type InsufficientStockError struct {
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient batch stock: available %s, requested %s",
		e.Available.String(), e.Requested.String())
}

// Unwrap makes the error match ErrInsufficientStock via errors.Is.
func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}
