package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jumapay/billing-api/internal/domain/entity"
	"github.com/jumapay/billing-api/internal/domain/event"
	"github.com/jumapay/billing-api/internal/domain/repository"
	"github.com/jumapay/billing-api/pkg/apperror"
	"github.com/jumapay/billing-api/pkg/money"
	"github.com/shopspring/decimal"
)

// PaymentService records payments and drives the allocation engine. A
// recorded payment and every invoice it touches are persisted in one atomic
// write; on any failure nothing is persisted.
type PaymentService struct {
	paymentRepo repository.PaymentRepository
	invoiceRepo repository.InvoiceRepository
	publisher   event.Publisher
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	invoiceRepo repository.InvoiceRepository,
	publisher event.Publisher,
) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		invoiceRepo: invoiceRepo,
		publisher:   publisher,
	}
}

// RecordPaymentInput represents the record payment input
type RecordPaymentInput struct {
	Amount     decimal.Decimal
	Currency   string
	ReceivedAt time.Time
	InvoiceIDs []uuid.UUID
}

// RecordPayment allocates one payment across the target invoices
// oldest-due-first, applies each allocation to its invoice and persists the
// payment together with every touched invoice atomically. Leftover funds
// beyond the total owed fail the whole operation with no invoice mutated.
func (s *PaymentService) RecordPayment(ctx context.Context, input *RecordPaymentInput) (*entity.Payment, error) {
	amount, err := money.New(input.Amount, input.Currency)
	if err != nil {
		return nil, entity.NewValidationError("currency", err.Error())
	}
	if len(input.InvoiceIDs) == 0 {
		return nil, entity.NewValidationError("invoice_ids", "must not be empty")
	}

	seen := make(map[uuid.UUID]struct{}, len(input.InvoiceIDs))
	for _, id := range input.InvoiceIDs {
		if _, dup := seen[id]; dup {
			return nil, entity.NewValidationError("invoice_ids", "duplicate invoice id "+id.String())
		}
		seen[id] = struct{}{}
	}

	invoices := make([]*entity.Invoice, 0, len(input.InvoiceIDs))
	loadedVersions := make(map[uuid.UUID]int64, len(input.InvoiceIDs))
	for _, id := range input.InvoiceIDs {
		invoice, loadErr := s.invoiceRepo.GetByID(ctx, id)
		if loadErr != nil {
			return nil, loadErr
		}
		if invoice == nil {
			return nil, apperror.NewNotFoundError("Invoice " + id.String())
		}
		invoices = append(invoices, invoice)
		loadedVersions[invoice.ID] = invoice.Version
	}

	// Pure computation first: a rejected allocation leaves every invoice
	// untouched.
	result, err := entity.AllocatePayment(amount, invoices)
	if err != nil {
		return nil, err
	}

	receivedAt := input.ReceivedAt
	if receivedAt.IsZero() {
		receivedAt = time.Now().UTC()
	}
	payment, err := entity.NewPayment(amount, receivedAt, result.Allocations)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*entity.Invoice, len(invoices))
	for _, inv := range invoices {
		byID[inv.ID] = inv
	}

	touched := make([]repository.InvoiceSave, 0, len(result.Allocations))
	for _, alloc := range result.Allocations {
		invoice := byID[alloc.InvoiceID]
		if applyErr := invoice.ApplyPayment(alloc.Amount, payment.ID); applyErr != nil {
			return nil, applyErr
		}
		touched = append(touched, repository.InvoiceSave{
			Invoice:         invoice,
			ExpectedVersion: loadedVersions[invoice.ID],
		})
	}

	if err := s.paymentRepo.SaveWithInvoices(ctx, payment, touched); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, payment.Events())
	payment.ClearEvents()
	for _, saved := range touched {
		s.publishEvents(ctx, saved.Invoice.Events())
		saved.Invoice.ClearEvents()
	}
	return payment, nil
}

// GetPayment retrieves a payment by ID
func (s *PaymentService) GetPayment(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, apperror.NewNotFoundError("Payment")
	}
	return payment, nil
}

// ListPaymentsForInvoice lists payments with an allocation against the invoice
func (s *PaymentService) ListPaymentsForInvoice(ctx context.Context, invoiceID uuid.UUID) ([]*entity.Payment, error) {
	return s.paymentRepo.FindByInvoice(ctx, invoiceID)
}

func (s *PaymentService) publishEvents(ctx context.Context, events []event.DomainEvent) {
	for _, e := range events {
		if err := s.publisher.Publish(ctx, e); err != nil {
			log.Printf("failed to publish %s: %v", e.EventType(), err)
		}
	}
}
