package domain

import (
	"fmt"

	apperrors "github.com/ruzaikr/screencloud-takehome/pkg/errors"
)

// ProductNotFoundError rejects an entire pricing request when any requested
// product id is unknown. The caller's fault; not retryable.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product not found: %s", e.ProductID)
}

func (e *ProductNotFoundError) Unwrap() error {
	return apperrors.ErrInvalidInput
}

// InsufficientInventoryError is raised the moment any product cannot be fully
// allocated across all warehouses. Allocatable reports how much could have
// been satisfied so clients can retry with a reduced quantity.
type InsufficientInventoryError struct {
	ProductID   string
	Requested   int
	Allocatable int
}

func (e *InsufficientInventoryError) Error() string {
	return fmt.Sprintf("insufficient inventory for product %s: requested %d, allocatable %d",
		e.ProductID, e.Requested, e.Allocatable)
}

func (e *InsufficientInventoryError) Unwrap() error {
	return apperrors.ErrConflict
}

// ShippingCostExceededError rejects an order whose computed shipping cost
// exceeds the configured ceiling. A business outcome, not a system fault.
type ShippingCostExceededError struct {
	ShippingCents   int64
	MaxAllowedCents int64
}

func (e *ShippingCostExceededError) Error() string {
	return fmt.Sprintf("shipping cost %d exceeds maximum allowed %d", e.ShippingCents, e.MaxAllowedCents)
}

func (e *ShippingCostExceededError) Unwrap() error {
	return apperrors.ErrUnprocessable
}
