package orders

import (
	"errors"
	"fmt"
)

var ErrOrderNotFound = errors.New("order not found")

// ValidationError: field wajib kosong / nilai tidak masuk akal.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// InsufficientStockError: qty diminta melebihi stok item saat commit.
type InsufficientStockError struct {
	ItemID    int64
	Required  int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough stock for item %d: need %d, available %d",
		e.ItemID, e.Required, e.Available)
}
