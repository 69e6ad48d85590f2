package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jumapay/billing-api/internal/domain/entity"
	"github.com/jumapay/billing-api/internal/domain/enum"
	domainRepo "github.com/jumapay/billing-api/internal/domain/repository"
	"gorm.io/gorm"
)

type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *gorm.DB) domainRepo.InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *entity.Invoice) error {
	return r.db.WithContext(ctx).Create(InvoiceModelFromDomain(invoice)).Error
}

func (r *invoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	var model InvoiceModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

func (r *invoiceRepository) GetByInvoiceNumber(ctx context.Context, number string) (*entity.Invoice, error) {
	var model InvoiceModel
	err := r.db.WithContext(ctx).First(&model, "invoice_number = ?", number).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save persists the aggregate with a compare-and-swap on the version column.
// The row is updated only if it still holds expectedVersion; on success both
// the row and the aggregate advance to expectedVersion+1.
func (r *invoiceRepository) Save(ctx context.Context, invoice *entity.Invoice, expectedVersion int64) error {
	return saveInvoiceTx(ctx, r.db, invoice, expectedVersion)
}

// saveInvoiceTx is shared with the payment repository so the multi-aggregate
// payment write reuses the exact same version-check semantics inside its
// transaction.
func saveInvoiceTx(ctx context.Context, tx *gorm.DB, invoice *entity.Invoice, expectedVersion int64) error {
	model := InvoiceModelFromDomain(invoice)
	model.Version = expectedVersion + 1

	res := tx.WithContext(ctx).
		Model(&InvoiceModel{}).
		Where("id = ? AND version = ?", invoice.ID, expectedVersion).
		Select("*").
		Omit("id", "created_at").
		Updates(model)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := tx.WithContext(ctx).Model(&InvoiceModel{}).
			Where("id = ?", invoice.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return entity.ErrNotFound
		}
		return entity.ErrVersionConflict
	}

	invoice.Version = expectedVersion + 1
	return nil
}

// Delete removes the invoice only while it is still Draft or Cancelled.
// The status predicate lives in the DELETE itself so a concurrent Send
// cannot slip between a caller's check and the removal.
func (r *invoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	deletable := []enum.InvoiceStatus{enum.InvoiceStatusDraft, enum.InvoiceStatusCancelled}
	res := r.db.WithContext(ctx).
		Where("id = ? AND status IN ?", id, deletable).
		Delete(&InvoiceModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&InvoiceModel{}).
			Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return entity.ErrNotFound
		}
		return entity.ErrDeleteNotAllowed
	}
	return nil
}

func (r *invoiceRepository) FindByStatus(ctx context.Context, status enum.InvoiceStatus) ([]*entity.Invoice, error) {
	var models []InvoiceModel
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("due_date ASC, invoice_number ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return toDomainSlice(models), nil
}

func (r *invoiceRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]*entity.Invoice, error) {
	var models []InvoiceModel
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return toDomainSlice(models), nil
}

func toDomainSlice(models []InvoiceModel) []*entity.Invoice {
	invoices := make([]*entity.Invoice, len(models))
	for i := range models {
		invoices[i] = models[i].ToDomain()
	}
	return invoices
}
