package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jumapay/billing-api/internal/domain/entity"
)

// InvoiceSave pairs an invoice with the version the caller loaded it at,
// for the atomic multi-aggregate write below.
type InvoiceSave struct {
	Invoice         *entity.Invoice
	ExpectedVersion int64
}

// PaymentRepository defines the persistence contract for payment aggregates.
// SaveWithInvoices persists the payment together with every touched invoice
// in one atomic write: if any invoice fails its version check the whole
// write is rolled back and entity.ErrVersionConflict is returned.
type PaymentRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error)
	Save(ctx context.Context, payment *entity.Payment, expectedVersion int64) error
	SaveWithInvoices(ctx context.Context, payment *entity.Payment, invoices []InvoiceSave) error
	FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]*entity.Payment, error)
}
