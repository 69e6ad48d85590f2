package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jumapay/billing-api/internal/domain/entity"
	domainRepo "github.com/jumapay/billing-api/internal/domain/repository"
	"gorm.io/gorm"
)

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) domainRepo.PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	var model PaymentModel
	err := r.db.WithContext(ctx).Preload("Allocations").First(&model, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

func (r *paymentRepository) Save(ctx context.Context, payment *entity.Payment, expectedVersion int64) error {
	model := PaymentModelFromDomain(payment)
	model.Version = expectedVersion + 1

	res := r.db.WithContext(ctx).
		Model(&PaymentModel{}).
		Where("id = ? AND version = ?", payment.ID, expectedVersion).
		Select("amount", "currency", "received_at", "version").
		Updates(model)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&PaymentModel{}).
			Where("id = ?", payment.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return entity.ErrNotFound
		}
		return entity.ErrVersionConflict
	}

	payment.Version = expectedVersion + 1
	return nil
}

// SaveWithInvoices persists the payment, its allocations and every touched
// invoice in a single database transaction. A version conflict on any
// invoice rolls back the whole write.
func (r *paymentRepository) SaveWithInvoices(ctx context.Context, payment *entity.Payment, invoices []domainRepo.InvoiceSave) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(PaymentModelFromDomain(payment)).Error; err != nil {
			return err
		}
		for _, save := range invoices {
			if err := saveInvoiceTx(ctx, tx, save.Invoice, save.ExpectedVersion); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *paymentRepository) FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]*entity.Payment, error) {
	var paymentIDs []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&PaymentAllocationModel{}).
		Where("invoice_id = ?", invoiceID).
		Distinct().
		Pluck("payment_id", &paymentIDs).Error
	if err != nil {
		return nil, err
	}
	if len(paymentIDs) == 0 {
		return nil, nil
	}

	var models []PaymentModel
	err = r.db.WithContext(ctx).
		Preload("Allocations").
		Where("id IN ?", paymentIDs).
		Order("received_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	payments := make([]*entity.Payment, len(models))
	for i := range models {
		payments[i] = models[i].ToDomain()
	}
	return payments, nil
}
