package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/jumapay/billing-api/internal/domain/entity"
	"github.com/jumapay/billing-api/internal/domain/enum"
	domainRepo "github.com/jumapay/billing-api/internal/domain/repository"
)

// InvoiceRepository is an in-memory adapter with the same version-conflict
// semantics as the postgres adapter. Aggregates are deep-copied on the way
// in and out so callers never share state with the store.
type InvoiceRepository struct {
	mu       sync.RWMutex
	invoices map[uuid.UUID]*entity.Invoice
}

// NewInvoiceRepository creates an empty in-memory invoice repository
func NewInvoiceRepository() *InvoiceRepository {
	return &InvoiceRepository{invoices: make(map[uuid.UUID]*entity.Invoice)}
}

var _ domainRepo.InvoiceRepository = (*InvoiceRepository)(nil)

func (r *InvoiceRepository) Create(_ context.Context, invoice *entity.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invoices[invoice.ID] = cloneInvoice(invoice)
	return nil
}

func (r *InvoiceRepository) GetByID(_ context.Context, id uuid.UUID) (*entity.Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	invoice, ok := r.invoices[id]
	if !ok {
		return nil, nil
	}
	return cloneInvoice(invoice), nil
}

func (r *InvoiceRepository) GetByInvoiceNumber(_ context.Context, number string) (*entity.Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, invoice := range r.invoices {
		if invoice.InvoiceNumber == number {
			return cloneInvoice(invoice), nil
		}
	}
	return nil, nil
}

func (r *InvoiceRepository) Save(_ context.Context, invoice *entity.Invoice, expectedVersion int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saveLocked(invoice, expectedVersion)
}

func (r *InvoiceRepository) saveLocked(invoice *entity.Invoice, expectedVersion int64) error {
	stored, ok := r.invoices[invoice.ID]
	if !ok {
		return entity.ErrNotFound
	}
	if stored.Version != expectedVersion {
		return entity.ErrVersionConflict
	}
	invoice.Version = expectedVersion + 1
	r.invoices[invoice.ID] = cloneInvoice(invoice)
	return nil
}

// Delete removes the invoice only while the stored copy is still Draft or
// Cancelled, mirroring the status predicate the postgres adapter puts in
// its DELETE statement.
func (r *InvoiceRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.invoices[id]
	if !ok {
		return entity.ErrNotFound
	}
	if !stored.Status.CanDelete() {
		return entity.ErrDeleteNotAllowed
	}
	delete(r.invoices, id)
	return nil
}

func (r *InvoiceRepository) FindByStatus(_ context.Context, status enum.InvoiceStatus) ([]*entity.Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*entity.Invoice
	for _, invoice := range r.invoices {
		if invoice.Status == status {
			out = append(out, cloneInvoice(invoice))
		}
	}
	return out, nil
}

func (r *InvoiceRepository) FindByCustomer(_ context.Context, customerID uuid.UUID) ([]*entity.Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*entity.Invoice
	for _, invoice := range r.invoices {
		if invoice.CustomerID == customerID {
			out = append(out, cloneInvoice(invoice))
		}
	}
	return out, nil
}

func cloneInvoice(inv *entity.Invoice) *entity.Invoice {
	c := *inv
	c.LineItems = append([]entity.LineItem(nil), inv.LineItems...)
	c.StatusHistory = append([]entity.StatusChange(nil), inv.StatusHistory...)
	c.ClearEvents()
	return &c
}
