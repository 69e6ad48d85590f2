package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/jumapay/billing-api/internal/domain/entity"
	domainRepo "github.com/jumapay/billing-api/internal/domain/repository"
)

// PaymentRepository is an in-memory adapter for payment aggregates. Its
// SaveWithInvoices write is atomic: invoice version checks run first and a
// conflict aborts before anything is stored.
type PaymentRepository struct {
	mu       sync.Mutex
	payments map[uuid.UUID]*entity.Payment
	invoices *InvoiceRepository
}

// NewPaymentRepository creates an in-memory payment repository sharing the
// given invoice store for the atomic multi-aggregate write.
func NewPaymentRepository(invoices *InvoiceRepository) *PaymentRepository {
	return &PaymentRepository{
		payments: make(map[uuid.UUID]*entity.Payment),
		invoices: invoices,
	}
}

var _ domainRepo.PaymentRepository = (*PaymentRepository)(nil)

func (r *PaymentRepository) GetByID(_ context.Context, id uuid.UUID) (*entity.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	payment, ok := r.payments[id]
	if !ok {
		return nil, nil
	}
	return clonePayment(payment), nil
}

func (r *PaymentRepository) Save(_ context.Context, payment *entity.Payment, expectedVersion int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.payments[payment.ID]
	if !ok {
		return entity.ErrNotFound
	}
	if stored.Version != expectedVersion {
		return entity.ErrVersionConflict
	}
	payment.Version = expectedVersion + 1
	r.payments[payment.ID] = clonePayment(payment)
	return nil
}

func (r *PaymentRepository) SaveWithInvoices(_ context.Context, payment *entity.Payment, invoices []domainRepo.InvoiceSave) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invoices.mu.Lock()
	defer r.invoices.mu.Unlock()

	// Check every version before writing anything.
	for _, save := range invoices {
		stored, ok := r.invoices.invoices[save.Invoice.ID]
		if !ok {
			return entity.ErrNotFound
		}
		if stored.Version != save.ExpectedVersion {
			return entity.ErrVersionConflict
		}
	}

	for _, save := range invoices {
		if err := r.invoices.saveLocked(save.Invoice, save.ExpectedVersion); err != nil {
			return err
		}
	}
	r.payments[payment.ID] = clonePayment(payment)
	return nil
}

func (r *PaymentRepository) FindByInvoice(_ context.Context, invoiceID uuid.UUID) ([]*entity.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Payment
	for _, payment := range r.payments {
		for _, alloc := range payment.Allocations {
			if alloc.InvoiceID == invoiceID {
				out = append(out, clonePayment(payment))
				break
			}
		}
	}
	return out, nil
}

func clonePayment(p *entity.Payment) *entity.Payment {
	c := *p
	c.Allocations = append([]entity.PaymentAllocation(nil), p.Allocations...)
	c.ClearEvents()
	return &c
}
