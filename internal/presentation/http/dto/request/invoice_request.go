package request

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItemRequest represents one billed item in an invoice creation request
type LineItemRequest struct {
	Description string          `json:"description" binding:"required"`
	Quantity    int64           `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
}

// CreateInvoiceRequest represents an invoice creation request
type CreateInvoiceRequest struct {
	CustomerID uuid.UUID         `json:"customer_id" binding:"required"`
	Currency   string            `json:"currency" binding:"required,len=3"`
	IssueDate  time.Time         `json:"issue_date" binding:"required"`
	DueDate    time.Time         `json:"due_date" binding:"required"`
	Items      []LineItemRequest `json:"line_items" binding:"required,dive"`
}

// CancelInvoiceRequest represents an invoice cancellation request
type CancelInvoiceRequest struct {
	Reason string `json:"reason" binding:"required"`
	Actor  string `json:"actor"`
}

// SendInvoiceRequest carries the optional actor issuing the invoice
type SendInvoiceRequest struct {
	Actor string `json:"actor"`
}

// InvoiceFilterRequest represents invoice list filter parameters
type InvoiceFilterRequest struct {
	Status     string `form:"status"`
	CustomerID string `form:"customer_id"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
}

// SweepRequest triggers an overdue sweep, optionally at a fixed point in time
type SweepRequest struct {
	AsOf *time.Time `json:"as_of"`
}
