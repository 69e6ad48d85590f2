package response

import (
	"time"

	"github.com/google/uuid"
	"github.com/jumapay/billing-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// LineItemResponse is one billed item on an invoice response
type LineItemResponse struct {
	Description string          `json:"description"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}

// StatusChangeResponse is one audit entry in an invoice's status history
type StatusChangeResponse struct {
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	ChangedAt  time.Time `json:"changed_at"`
	Reason     string    `json:"reason,omitempty"`
	Actor      string    `json:"actor,omitempty"`
}

// InvoiceResponse is the API shape of an invoice aggregate
type InvoiceResponse struct {
	ID               uuid.UUID              `json:"id"`
	InvoiceNumber    string                 `json:"invoice_number"`
	CustomerID       uuid.UUID              `json:"customer_id"`
	CustomerName     string                 `json:"customer_name"`
	CustomerEmail    string                 `json:"customer_email,omitempty"`
	IssueDate        time.Time              `json:"issue_date"`
	DueDate          time.Time              `json:"due_date"`
	Status           string                 `json:"status"`
	Currency         string                 `json:"currency"`
	LineItems        []LineItemResponse     `json:"line_items"`
	StatusHistory    []StatusChangeResponse `json:"status_history,omitempty"`
	TotalAmount      decimal.Decimal        `json:"total_amount"`
	PaidAmount       decimal.Decimal        `json:"paid_amount"`
	RemainingBalance decimal.Decimal        `json:"remaining_balance"`
	Version          int64                  `json:"version"`
	CreatedAt        time.Time              `json:"created_at"`
	UpdatedAt        time.Time              `json:"updated_at"`
}

// NewInvoiceResponse converts an invoice aggregate to its API shape
func NewInvoiceResponse(inv *entity.Invoice) *InvoiceResponse {
	items := make([]LineItemResponse, len(inv.LineItems))
	for i, li := range inv.LineItems {
		items[i] = LineItemResponse{
			Description: li.Description,
			Quantity:    li.Quantity,
			UnitPrice:   li.UnitPrice.Amount,
			Total:       li.Total().Amount,
		}
	}
	history := make([]StatusChangeResponse, len(inv.StatusHistory))
	for i, sc := range inv.StatusHistory {
		history[i] = StatusChangeResponse{
			FromStatus: sc.FromStatus.String(),
			ToStatus:   sc.ToStatus.String(),
			ChangedAt:  sc.ChangedAt,
			Reason:     sc.Reason,
			Actor:      sc.Actor,
		}
	}
	return &InvoiceResponse{
		ID:               inv.ID,
		InvoiceNumber:    inv.InvoiceNumber,
		CustomerID:       inv.CustomerID,
		CustomerName:     inv.CustomerName,
		CustomerEmail:    inv.CustomerEmail,
		IssueDate:        inv.IssueDate,
		DueDate:          inv.DueDate,
		Status:           inv.Status.String(),
		Currency:         inv.Currency(),
		LineItems:        items,
		StatusHistory:    history,
		TotalAmount:      inv.TotalAmount.Amount,
		PaidAmount:       inv.PaidAmount.Amount,
		RemainingBalance: inv.RemainingBalance().Amount,
		Version:          inv.Version,
		CreatedAt:        inv.CreatedAt,
		UpdatedAt:        inv.UpdatedAt,
	}
}

// NewInvoiceResponses converts a slice of invoice aggregates
func NewInvoiceResponses(invoices []*entity.Invoice) []*InvoiceResponse {
	out := make([]*InvoiceResponse, len(invoices))
	for i, inv := range invoices {
		out[i] = NewInvoiceResponse(inv)
	}
	return out
}

// AllocationResponse is one allocation on a payment response
type AllocationResponse struct {
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	Amount        decimal.Decimal `json:"amount"`
}

// PaymentResponse is the API shape of a payment aggregate
type PaymentResponse struct {
	ID          uuid.UUID            `json:"id"`
	Amount      decimal.Decimal      `json:"amount"`
	Currency    string               `json:"currency"`
	ReceivedAt  time.Time            `json:"received_at"`
	Allocations []AllocationResponse `json:"allocations"`
	CreatedAt   time.Time            `json:"created_at"`
}

// NewPaymentResponse converts a payment aggregate to its API shape
func NewPaymentResponse(p *entity.Payment) *PaymentResponse {
	allocations := make([]AllocationResponse, len(p.Allocations))
	for i, a := range p.Allocations {
		allocations[i] = AllocationResponse{
			InvoiceID:     a.InvoiceID,
			InvoiceNumber: a.InvoiceNumber,
			Amount:        a.Amount.Amount,
		}
	}
	return &PaymentResponse{
		ID:          p.ID,
		Amount:      p.Amount.Amount,
		Currency:    p.Amount.Currency,
		ReceivedAt:  p.ReceivedAt,
		Allocations: allocations,
		CreatedAt:   p.CreatedAt,
	}
}

// NewPaymentResponses converts a slice of payment aggregates
func NewPaymentResponses(payments []*entity.Payment) []*PaymentResponse {
	out := make([]*PaymentResponse, len(payments))
	for i, p := range payments {
		out[i] = NewPaymentResponse(p)
	}
	return out
}
