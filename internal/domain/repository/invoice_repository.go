package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jumapay/billing-api/internal/domain/entity"
	"github.com/jumapay/billing-api/internal/domain/enum"
)

// InvoiceRepository defines the persistence contract for invoice aggregates.
// Save compares the stored version against expectedVersion and fails with
// entity.ErrVersionConflict on mismatch; on success the stored version (and
// the aggregate's Version field) advance by exactly one.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	GetByInvoiceNumber(ctx context.Context, number string) (*entity.Invoice, error)
	Save(ctx context.Context, invoice *entity.Invoice, expectedVersion int64) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByStatus(ctx context.Context, status enum.InvoiceStatus) ([]*entity.Invoice, error)
	FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]*entity.Invoice, error)
}
