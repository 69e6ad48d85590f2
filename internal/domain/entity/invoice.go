package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jumapay/billing-api/internal/domain/enum"
	"github.com/jumapay/billing-api/internal/domain/event"
	"github.com/jumapay/billing-api/pkg/money"
)

// Invoice is the aggregate root for billing. All mutation goes through its
// methods; every method either fully applies or leaves the aggregate
// untouched and returns an error. Version is the optimistic-concurrency
// counter compared by repositories at save time.
type Invoice struct {
	ID            uuid.UUID
	InvoiceNumber string
	CustomerID    uuid.UUID
	CustomerName  string
	CustomerEmail string
	IssueDate     time.Time
	DueDate       time.Time
	Status        enum.InvoiceStatus
	LineItems     []LineItem
	StatusHistory []StatusChange
	TotalAmount   money.Money
	PaidAmount    money.Money
	Version       int64
	CreatedAt     time.Time
	UpdatedAt     time.Time

	pending []event.DomainEvent
}

// NewInvoiceInput carries everything needed to create a draft invoice.
type NewInvoiceInput struct {
	InvoiceNumber string
	CustomerID    uuid.UUID
	CustomerName  string
	CustomerEmail string
	IssueDate     time.Time
	DueDate       time.Time
	LineItems     []LineItem
}

// NewInvoice validates the input, computes the total and returns a Draft
// invoice at version 1 with an InvoiceCreated event pending. The initial
// Draft state is implicit and records no history entry.
func NewInvoice(in NewInvoiceInput) (*Invoice, error) {
	if in.InvoiceNumber == "" {
		return nil, NewValidationError("invoice_number", "must not be empty")
	}
	if in.CustomerID == uuid.Nil {
		return nil, NewValidationError("customer_id", "must not be empty")
	}
	if len(in.LineItems) == 0 {
		return nil, NewValidationError("line_items", "must not be empty")
	}
	if in.DueDate.Before(in.IssueDate) {
		return nil, NewValidationError("due_date", "must not be before issue date")
	}

	currency := in.LineItems[0].UnitPrice.Currency
	total := money.Zero(currency)
	for _, li := range in.LineItems {
		if err := li.validate(currency); err != nil {
			return nil, err
		}
		sum, err := total.Add(li.Total())
		if err != nil {
			return nil, NewValidationError("line_items", err.Error())
		}
		total = sum
	}

	now := time.Now().UTC()
	inv := &Invoice{
		ID:            uuid.New(),
		InvoiceNumber: in.InvoiceNumber,
		CustomerID:    in.CustomerID,
		CustomerName:  in.CustomerName,
		CustomerEmail: in.CustomerEmail,
		IssueDate:     in.IssueDate,
		DueDate:       in.DueDate,
		Status:        enum.InvoiceStatusDraft,
		LineItems:     in.LineItems,
		TotalAmount:   total,
		PaidAmount:    money.Zero(currency),
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	inv.record(event.InvoiceCreated{
		Base:          event.Now(),
		InvoiceID:     inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		CustomerID:    inv.CustomerID,
		TotalAmount:   inv.TotalAmount.Amount,
		Currency:      currency,
		DueDate:       inv.DueDate,
	})
	return inv, nil
}

// Currency returns the single currency shared by every amount on the invoice.
func (i *Invoice) Currency() string {
	return i.TotalAmount.Currency
}

// RemainingBalance returns total minus paid; never negative.
func (i *Invoice) RemainingBalance() money.Money {
	remaining, _ := i.TotalAmount.Sub(i.PaidAmount)
	return remaining
}

// IsFullyPaid reports whether the remaining balance is zero.
func (i *Invoice) IsFullyPaid() bool {
	return i.RemainingBalance().IsZero()
}

// Send issues a draft invoice to the customer.
func (i *Invoice) Send(actor string) error {
	if err := i.transition(enum.InvoiceStatusSent, "", actor); err != nil {
		return err
	}
	i.record(event.InvoiceSent{
		Base:          event.Now(),
		InvoiceID:     i.ID,
		InvoiceNumber: i.InvoiceNumber,
		CustomerID:    i.CustomerID,
	})
	return nil
}

// Cancel cancels a draft invoice with the given reason.
func (i *Invoice) Cancel(reason, actor string) error {
	if err := i.transition(enum.InvoiceStatusCancelled, reason, actor); err != nil {
		return err
	}
	i.record(event.InvoiceCancelled{
		Base:          event.Now(),
		InvoiceID:     i.ID,
		InvoiceNumber: i.InvoiceNumber,
		Reason:        reason,
	})
	return nil
}

// ApplyPayment applies amount towards the remaining balance. The invoice
// must be Sent or Overdue and the amount positive, in the invoice currency,
// and no greater than the remaining balance; overpayment is rejected rather
// than clamped. When the balance reaches zero the invoice transitions to
// Paid and a status-changed event is recorded alongside the payment event.
func (i *Invoice) ApplyPayment(amount money.Money, paymentID uuid.UUID) error {
	if !i.Status.CanAcceptPayment() {
		return &InvalidTransitionError{From: i.Status, To: enum.InvoiceStatusPaid}
	}
	if !amount.IsPositive() {
		return NewValidationError("amount", "must be greater than zero")
	}
	if amount.Currency != i.Currency() {
		return NewValidationError("amount", fmt.Sprintf("currency must be %s", i.Currency()))
	}
	remaining := i.RemainingBalance()
	if amount.GreaterThan(remaining) {
		return &OverpaymentError{
			InvoiceNumber: i.InvoiceNumber,
			Remaining:     remaining.String(),
			Attempted:     amount.String(),
		}
	}

	paid, err := i.PaidAmount.Add(amount)
	if err != nil {
		return NewValidationError("amount", err.Error())
	}
	i.PaidAmount = paid
	i.UpdatedAt = time.Now().UTC()

	i.record(event.PaymentApplied{
		Base:             event.Now(),
		InvoiceID:        i.ID,
		InvoiceNumber:    i.InvoiceNumber,
		PaymentID:        paymentID,
		Amount:           amount.Amount,
		Currency:         amount.Currency,
		RemainingBalance: i.RemainingBalance().Amount,
	})

	if i.IsFullyPaid() {
		from := i.Status
		// Cannot fail: Sent -> Paid and Overdue -> Paid are both legal edges.
		_ = i.transition(enum.InvoiceStatusPaid, "payment covered remaining balance", "")
		i.record(event.InvoiceStatusChanged{
			Base:          event.Now(),
			InvoiceID:     i.ID,
			InvoiceNumber: i.InvoiceNumber,
			FromStatus:    from.String(),
			ToStatus:      enum.InvoiceStatusPaid.String(),
		})
	}
	return nil
}

// MarkOverdue transitions a sent invoice with an outstanding balance past
// its due date to Overdue. It reports whether the invoice changed; unmet
// preconditions are a no-op rather than an error because the sweep calls
// this for many candidates, including ones already overdue.
func (i *Invoice) MarkOverdue(asOf time.Time) bool {
	if i.Status != enum.InvoiceStatusSent {
		return false
	}
	if !i.DueDate.Before(asOf) {
		return false
	}
	if !i.RemainingBalance().IsPositive() {
		return false
	}
	_ = i.transition(enum.InvoiceStatusOverdue, "past due date", "overdue-sweep")
	i.record(event.InvoiceOverdue{
		Base:             event.Now(),
		InvoiceID:        i.ID,
		InvoiceNumber:    i.InvoiceNumber,
		CustomerID:       i.CustomerID,
		RemainingBalance: i.RemainingBalance().Amount,
		Currency:         i.Currency(),
		DueDate:          i.DueDate,
	})
	return true
}

// EnsureDeletable reports whether the invoice may be removed. Only draft
// and cancelled invoices can be deleted.
func (i *Invoice) EnsureDeletable() error {
	if !i.Status.CanDelete() {
		return ErrDeleteNotAllowed
	}
	return nil
}

// Events returns the pending domain events recorded since load.
func (i *Invoice) Events() []event.DomainEvent {
	return i.pending
}

// ClearEvents drops pending events after they have been handed off.
func (i *Invoice) ClearEvents() {
	i.pending = nil
}

// transition moves the invoice along one edge of the status machine,
// appending a history entry. All checks happen before any field changes.
func (i *Invoice) transition(to enum.InvoiceStatus, reason, actor string) error {
	if !i.Status.CanTransitionTo(to) {
		return &InvalidTransitionError{From: i.Status, To: to}
	}
	now := time.Now().UTC()
	i.StatusHistory = append(i.StatusHistory, StatusChange{
		FromStatus: i.Status,
		ToStatus:   to,
		ChangedAt:  now,
		Reason:     reason,
		Actor:      actor,
	})
	i.Status = to
	i.UpdatedAt = now
	return nil
}

func (i *Invoice) record(e event.DomainEvent) {
	i.pending = append(i.pending, e)
}
