// Package businessflow contains the core business logic and use cases for the billing workflows
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Catalog errors
	ErrItemNotFound         = errors.New("item not found")
	ErrItemNameRequired     = errors.New("item name cannot be empty")
	ErrItemNameTaken        = errors.New("an item with this name already exists")
	ErrMaterialNotFound     = errors.New("material not found")
	ErrMaterialNameRequired = errors.New("material name cannot be empty")
	ErrMaterialNameTaken    = errors.New("a material with this name already exists")

	// Rate errors
	ErrRateNotFound         = errors.New("rate not found for this combination")
	ErrRateTripleRequired   = errors.New("item, material, and unit of measure are required")
	ErrRatePriceInvalid     = errors.New("a valid positive rate value is required")
	ErrUnitOfMeasureInvalid = errors.New("unit of measure is not recognized")

	// Pricing errors
	ErrQuantityInvalid    = errors.New("quantity must be a positive integer")
	ErrTaxNegative        = errors.New("tax percentage cannot be negative")
	ErrDimensionsRequired = errors.New("width and height must be positive for area-based units")
	ErrAmountNotFinite    = errors.New("computed amount is not a finite number")

	// Invoice errors
	ErrInvoiceNotFound       = errors.New("invoice not found")
	ErrCustomerNameRequired  = errors.New("customer name is required")
	ErrInvoiceLinesRequired  = errors.New("an invoice must contain at least one line item")
	ErrInvoiceLinesMissing   = errors.New("line items are required")
	ErrInvoiceNumberConflict = errors.New("invoice number was assigned concurrently")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func IsItemNotFound(err error) bool {
	return errors.Is(err, ErrItemNotFound)
}

func IsMaterialNotFound(err error) bool {
	return errors.Is(err, ErrMaterialNotFound)
}

func IsRateNotFound(err error) bool {
	return errors.Is(err, ErrRateNotFound)
}

func IsInvoiceNotFound(err error) bool {
	return errors.Is(err, ErrInvoiceNotFound)
}

func IsInvoiceNumberConflict(err error) bool {
	return errors.Is(err, ErrInvoiceNumberConflict)
}

func IsDimensionsRequired(err error) bool {
	return errors.Is(err, ErrDimensionsRequired)
}

func IsQuantityInvalid(err error) bool {
	return errors.Is(err, ErrQuantityInvalid)
}
