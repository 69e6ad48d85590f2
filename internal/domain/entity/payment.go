package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/jumapay/billing-api/internal/domain/event"
	"github.com/jumapay/billing-api/pkg/money"
)

// PaymentAllocation is the portion of a payment applied to one invoice.
type PaymentAllocation struct {
	InvoiceID     uuid.UUID   `json:"invoice_id"`
	InvoiceNumber string      `json:"invoice_number"`
	Amount        money.Money `json:"amount"`
}

// Payment is the aggregate root for money received. Once its allocations
// are fixed at construction the payment is immutable; the version exists
// only so the repository contract is uniform across aggregates.
type Payment struct {
	ID          uuid.UUID
	Amount      money.Money
	ReceivedAt  time.Time
	Allocations []PaymentAllocation
	Version     int64
	CreatedAt   time.Time

	pending []event.DomainEvent
}

// NewPayment fixes a payment with the given allocations. Allocations must be
// non-empty, share the payment currency, and sum to no more than the total.
func NewPayment(amount money.Money, receivedAt time.Time, allocations []PaymentAllocation) (*Payment, error) {
	if !amount.IsPositive() {
		return nil, NewValidationError("amount", "must be greater than zero")
	}
	if len(allocations) == 0 {
		return nil, NewValidationError("allocations", "must not be empty")
	}

	allocated := money.Zero(amount.Currency)
	invoiceIDs := make([]uuid.UUID, 0, len(allocations))
	for _, a := range allocations {
		if !a.Amount.IsPositive() {
			return nil, NewValidationError("allocations", "allocation amounts must be greater than zero")
		}
		sum, err := allocated.Add(a.Amount)
		if err != nil {
			return nil, NewValidationError("allocations", "allocations must share the payment currency")
		}
		allocated = sum
		invoiceIDs = append(invoiceIDs, a.InvoiceID)
	}
	if allocated.GreaterThan(amount) {
		return nil, NewValidationError("allocations", "allocations exceed the payment amount")
	}

	now := time.Now().UTC()
	p := &Payment{
		ID:          uuid.New(),
		Amount:      amount,
		ReceivedAt:  receivedAt,
		Allocations: allocations,
		Version:     1,
		CreatedAt:   now,
	}
	p.pending = append(p.pending, event.PaymentRecorded{
		Base:        event.Now(),
		PaymentID:   p.ID,
		TotalAmount: amount.Amount,
		Currency:    amount.Currency,
		Invoices:    invoiceIDs,
	})
	return p, nil
}

// AllocatedAmount returns the sum of all allocations.
func (p *Payment) AllocatedAmount() money.Money {
	total := money.Zero(p.Amount.Currency)
	for _, a := range p.Allocations {
		total, _ = total.Add(a.Amount)
	}
	return total
}

// Events returns the pending domain events recorded since construction.
func (p *Payment) Events() []event.DomainEvent {
	return p.pending
}

// ClearEvents drops pending events after they have been handed off.
func (p *Payment) ClearEvents() {
	p.pending = nil
}
