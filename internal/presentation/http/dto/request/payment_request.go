package request

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecordPaymentRequest represents a payment recording request. The payment
// is allocated across the target invoices oldest-due-first.
type RecordPaymentRequest struct {
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	Currency   string          `json:"currency" binding:"required,len=3"`
	ReceivedAt *time.Time      `json:"received_at"`
	InvoiceIDs []uuid.UUID     `json:"invoice_ids" binding:"required,min=1"`
}

// CreateCustomerRequest represents a customer creation request
type CreateCustomerRequest struct {
	Name  string `json:"name" binding:"required,min=2,max=255"`
	Email string `json:"email" binding:"omitempty,email"`
}
