package event

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event type tags. Each tag identifies one event schema below; the set is
// closed on purpose so consumers never need reflection to decode a payload.
const (
	TypeInvoiceCreated       = "invoice.created"
	TypeInvoiceSent          = "invoice.sent"
	TypeInvoiceCancelled     = "invoice.cancelled"
	TypeInvoiceOverdue       = "invoice.overdue"
	TypeInvoiceStatusChanged = "invoice.status_changed"
	TypePaymentApplied       = "invoice.payment_applied"
	TypePaymentRecorded      = "payment.recorded"
)

// DomainEvent is an immutable fact recorded by an aggregate. Events from the
// same aggregate are published in the order they were recorded; no ordering
// is guaranteed across aggregates.
type DomainEvent interface {
	EventType() string
	OccurredAt() time.Time
}

type Base struct {
	At time.Time `json:"occurred_at"`
}

func (b Base) OccurredAt() time.Time { return b.At }

func Now() Base { return Base{At: time.Now().UTC()} }

// InvoiceCreated is recorded when a new invoice enters the system in Draft.
type InvoiceCreated struct {
	Base
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Currency      string          `json:"currency"`
	DueDate       time.Time       `json:"due_date"`
}

func (InvoiceCreated) EventType() string { return TypeInvoiceCreated }

// InvoiceSent is recorded when a draft invoice is issued to the customer.
type InvoiceSent struct {
	Base
	InvoiceID     uuid.UUID `json:"invoice_id"`
	InvoiceNumber string    `json:"invoice_number"`
	CustomerID    uuid.UUID `json:"customer_id"`
}

func (InvoiceSent) EventType() string { return TypeInvoiceSent }

// InvoiceCancelled is recorded when a draft invoice is cancelled.
type InvoiceCancelled struct {
	Base
	InvoiceID     uuid.UUID `json:"invoice_id"`
	InvoiceNumber string    `json:"invoice_number"`
	Reason        string    `json:"reason"`
}

func (InvoiceCancelled) EventType() string { return TypeInvoiceCancelled }

// InvoiceOverdue is recorded when the sweep moves a sent invoice past due.
type InvoiceOverdue struct {
	Base
	InvoiceID        uuid.UUID       `json:"invoice_id"`
	InvoiceNumber    string          `json:"invoice_number"`
	CustomerID       uuid.UUID       `json:"customer_id"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
	Currency         string          `json:"currency"`
	DueDate          time.Time       `json:"due_date"`
}

func (InvoiceOverdue) EventType() string { return TypeInvoiceOverdue }

// InvoiceStatusChanged is recorded alongside any status transition caused by
// a payment fully covering the remaining balance.
type InvoiceStatusChanged struct {
	Base
	InvoiceID     uuid.UUID `json:"invoice_id"`
	InvoiceNumber string    `json:"invoice_number"`
	FromStatus    string    `json:"from_status"`
	ToStatus      string    `json:"to_status"`
}

func (InvoiceStatusChanged) EventType() string { return TypeInvoiceStatusChanged }

// PaymentApplied is recorded each time funds are applied to an invoice.
type PaymentApplied struct {
	Base
	InvoiceID        uuid.UUID       `json:"invoice_id"`
	InvoiceNumber    string          `json:"invoice_number"`
	PaymentID        uuid.UUID       `json:"payment_id"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
}

func (PaymentApplied) EventType() string { return TypePaymentApplied }

// PaymentRecorded is recorded when a payment and its allocations are fixed.
type PaymentRecorded struct {
	Base
	PaymentID   uuid.UUID       `json:"payment_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Currency    string          `json:"currency"`
	Invoices    []uuid.UUID     `json:"invoice_ids"`
}

func (PaymentRecorded) EventType() string { return TypePaymentRecorded }
