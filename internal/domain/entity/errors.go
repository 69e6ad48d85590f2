package entity

import (
	"errors"
	"fmt"

	"github.com/jumapay/billing-api/internal/domain/enum"
)

var (
	// ErrNotFound is returned by repositories when an aggregate does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrVersionConflict is returned by repositories when a save carries a
	// stale expected version. Callers recover by reloading and reapplying.
	ErrVersionConflict = errors.New("version conflict")

	// ErrInvalidCustomer is returned when an invoice references an unknown
	// or inactive customer.
	ErrInvalidCustomer = errors.New("customer is unknown or inactive")

	// ErrDeleteNotAllowed is returned when deleting an invoice that is
	// neither draft nor cancelled.
	ErrDeleteNotAllowed = errors.New("only draft or cancelled invoices can be deleted")
)

// ValidationError reports malformed input at aggregate construction.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// InvalidTransitionError reports a status change not permitted from the
// current state. Status and version are left untouched when this is returned.
type InvalidTransitionError struct {
	From enum.InvoiceStatus
	To   enum.InvoiceStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid invoice transition %s -> %s", e.From, e.To)
}

// OverpaymentError reports a payment that would drive the remaining balance
// negative. The aggregate is left unchanged.
type OverpaymentError struct {
	InvoiceNumber string
	Remaining     string
	Attempted     string
}

func (e *OverpaymentError) Error() string {
	return fmt.Sprintf(
		"payment of %s exceeds remaining balance %s on invoice %s",
		e.Attempted, e.Remaining, e.InvoiceNumber,
	)
}

// UnallocatedFundsError reports leftover payment funds after every targeted
// invoice has been fully covered. The caller must supply more targets or an
// explicit overpayment policy.
type UnallocatedFundsError struct {
	Remaining string
	Currency  string
}

func (e *UnallocatedFundsError) Error() string {
	return fmt.Sprintf("payment leaves %s %s unallocated", e.Remaining, e.Currency)
}
