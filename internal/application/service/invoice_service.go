package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jumapay/billing-api/internal/domain/entity"
	"github.com/jumapay/billing-api/internal/domain/enum"
	"github.com/jumapay/billing-api/internal/domain/event"
	"github.com/jumapay/billing-api/internal/domain/repository"
	"github.com/jumapay/billing-api/pkg/apperror"
	"github.com/jumapay/billing-api/pkg/money"
	"github.com/jumapay/billing-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// InvoiceService orchestrates the invoice aggregate lifecycle: load through
// the repository, invoke a domain operation, persist with the version the
// aggregate was loaded at, then publish whatever events it recorded.
type InvoiceService struct {
	invoiceRepo  repository.InvoiceRepository
	customerRepo repository.CustomerRepository
	publisher    event.Publisher
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	customerRepo repository.CustomerRepository,
	publisher event.Publisher,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		publisher:    publisher,
	}
}

// LineItemInput represents one billed item in a create request
type LineItemInput struct {
	Description string
	Quantity    int64
	UnitPrice   decimal.Decimal
}

// CreateInvoiceInput represents the create invoice input
type CreateInvoiceInput struct {
	CustomerID uuid.UUID
	Currency   string
	IssueDate  time.Time
	DueDate    time.Time
	Items      []LineItemInput
}

// CreateInvoice validates the customer, snapshots their contact details and
// creates a draft invoice.
func (s *InvoiceService) CreateInvoice(ctx context.Context, input *CreateInvoiceInput) (*entity.Invoice, error) {
	active, err := s.customerRepo.IsActive(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, entity.ErrInvalidCustomer
	}

	customer, err := s.customerRepo.GetByID(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, entity.ErrInvalidCustomer
	}

	items := make([]entity.LineItem, 0, len(input.Items))
	for _, it := range input.Items {
		price, priceErr := money.New(it.UnitPrice, input.Currency)
		if priceErr != nil {
			return nil, entity.NewValidationError("currency", priceErr.Error())
		}
		items = append(items, entity.LineItem{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   price,
		})
	}

	invoice, err := entity.NewInvoice(entity.NewInvoiceInput{
		InvoiceNumber: generateInvoiceNumber(),
		CustomerID:    customer.ID,
		CustomerName:  customer.Name,
		CustomerEmail: customer.Email,
		IssueDate:     input.IssueDate,
		DueDate:       input.DueDate,
		LineItems:     items,
	})
	if err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, invoice.Events())
	invoice.ClearEvents()
	return invoice, nil
}

// GetInvoice retrieves an invoice by ID
func (s *InvoiceService) GetInvoice(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	return invoice, nil
}

// GetInvoiceByNumber retrieves an invoice by its human-readable number
func (s *InvoiceService) GetInvoiceByNumber(ctx context.Context, number string) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByInvoiceNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice " + number)
	}
	return invoice, nil
}

// SendInvoice issues a draft invoice to its customer.
func (s *InvoiceService) SendInvoice(ctx context.Context, id uuid.UUID, actor string) (*entity.Invoice, error) {
	return s.mutate(ctx, id, func(inv *entity.Invoice) error {
		return inv.Send(actor)
	})
}

// CancelInvoice cancels a draft invoice with a reason.
func (s *InvoiceService) CancelInvoice(ctx context.Context, id uuid.UUID, reason, actor string) (*entity.Invoice, error) {
	return s.mutate(ctx, id, func(inv *entity.Invoice) error {
		return inv.Cancel(reason, actor)
	})
}

// DeleteInvoice removes a draft or cancelled invoice. Any other status
// fails with entity.ErrDeleteNotAllowed.
func (s *InvoiceService) DeleteInvoice(ctx context.Context, id uuid.UUID) error {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if invoice == nil {
		return apperror.NewNotFoundError("Invoice")
	}
	if err := invoice.EnsureDeletable(); err != nil {
		return err
	}
	return s.invoiceRepo.Delete(ctx, invoice.ID)
}

// InvoiceFilter narrows ListInvoices by status and/or customer
type InvoiceFilter struct {
	Status     *enum.InvoiceStatus
	CustomerID *uuid.UUID
}

// ListInvoices lists invoices matching the filter, paginated
func (s *InvoiceService) ListInvoices(ctx context.Context, filter InvoiceFilter, params *pagination.PaginationParams) (*pagination.PaginatedResult[*entity.Invoice], error) {
	var (
		invoices []*entity.Invoice
		err      error
	)
	switch {
	case filter.CustomerID != nil:
		invoices, err = s.invoiceRepo.FindByCustomer(ctx, *filter.CustomerID)
		if err == nil && filter.Status != nil {
			filtered := invoices[:0]
			for _, inv := range invoices {
				if inv.Status == *filter.Status {
					filtered = append(filtered, inv)
				}
			}
			invoices = filtered
		}
	case filter.Status != nil:
		invoices, err = s.invoiceRepo.FindByStatus(ctx, *filter.Status)
	default:
		return nil, apperror.NewBadRequestError("Provide a status or customer_id filter")
	}
	if err != nil {
		return nil, err
	}

	params.Validate()
	total := int64(len(invoices))
	start := params.Offset()
	if start > len(invoices) {
		start = len(invoices)
	}
	end := start + params.PerPage
	if end > len(invoices) {
		end = len(invoices)
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(invoices[start:end], pag), nil
}

// mutate loads the aggregate, applies op, and saves at the loaded version.
func (s *InvoiceService) mutate(ctx context.Context, id uuid.UUID, op func(*entity.Invoice) error) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}

	loadedVersion := invoice.Version
	if err := op(invoice); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Save(ctx, invoice, loadedVersion); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, invoice.Events())
	invoice.ClearEvents()
	return invoice, nil
}

// publishEvents delivers pending events after a successful save. A failed
// publish is logged, not rolled back: delivery is at-least-once and retries
// are layered outside the service.
func (s *InvoiceService) publishEvents(ctx context.Context, events []event.DomainEvent) {
	for _, e := range events {
		if err := s.publisher.Publish(ctx, e); err != nil {
			log.Printf("failed to publish %s: %v", e.EventType(), err)
		}
	}
}

// generateInvoiceNumber produces a unique human-readable invoice number
func generateInvoiceNumber() string {
	return fmt.Sprintf("INV-%s", uuid.New().String()[:8])
}
