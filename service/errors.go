package service

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("resource not found")
	ErrEmptyCart       = errors.New("cart is empty")
	ErrInvalidQuantity = errors.New("quantity must be greater than 0")
	ErrProductInactive = errors.New("product is no longer available")
	ErrInvalidStatus   = errors.New("invalid order status")
	ErrInvalidCategory = errors.New("invalid category")
)

// InsufficientStockError reports how many units were actually available so
// the caller can surface it to the shopper.
type InsufficientStockError struct {
	ProductName string
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s, available: %d", e.ProductName, e.Available)
}
