package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jumapay/billing-api/internal/domain/entity"
	"github.com/jumapay/billing-api/internal/domain/enum"
	domainRepo "github.com/jumapay/billing-api/internal/domain/repository"
	"github.com/jumapay/billing-api/pkg/money"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordPaymentSettlesOldestFirst(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	older := env.seedSentInvoice(t, "INV-0001", "100.00", time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC))
	newer := env.seedSentInvoice(t, "INV-0002", "100.00", time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC))

	payment, err := env.payments.RecordPayment(ctx, &RecordPaymentInput{
		Amount:     decimal.RequireFromString("150.00"),
		Currency:   "USD",
		ReceivedAt: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		InvoiceIDs: []uuid.UUID{newer.ID, older.ID},
	})
	require.NoError(t, err)

	require.Len(t, payment.Allocations, 2)
	assert.Equal(t, older.ID, payment.Allocations[0].InvoiceID)
	assert.True(t, payment.Allocations[0].Amount.Equal(money.MustNew("100.00", "USD")))
	assert.Equal(t, newer.ID, payment.Allocations[1].InvoiceID)
	assert.True(t, payment.Allocations[1].Amount.Equal(money.MustNew("50.00", "USD")))

	storedOlder, err := env.invoiceRepo.GetByID(ctx, older.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.InvoiceStatusPaid, storedOlder.Status)
	assert.Equal(t, int64(2), storedOlder.Version)

	storedNewer, err := env.invoiceRepo.GetByID(ctx, newer.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.InvoiceStatusSent, storedNewer.Status)
	assert.True(t, storedNewer.RemainingBalance().Equal(money.MustNew("50.00", "USD")))
	assert.Equal(t, int64(2), storedNewer.Version)

	storedPayment, err := env.payments.GetPayment(ctx, payment.ID)
	require.NoError(t, err)
	assert.True(t, storedPayment.Amount.Equal(money.MustNew("150.00", "USD")))

	types := env.publisher.types()
	assert.Contains(t, types, "payment.recorded")
	assert.Contains(t, types, "invoice.payment_applied")
	assert.Contains(t, types, "invoice.status_changed")
}

func TestRecordPaymentUnallocatedFundsMutatesNothing(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	inv := env.seedSentInvoice(t, "INV-0001", "100.00", time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC))

	_, err := env.payments.RecordPayment(ctx, &RecordPaymentInput{
		Amount:     decimal.RequireFromString("120.00"),
		Currency:   "USD",
		InvoiceIDs: []uuid.UUID{inv.ID},
	})
	var uErr *entity.UnallocatedFundsError
	require.ErrorAs(t, err, &uErr)

	stored, err := env.invoiceRepo.GetByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.True(t, stored.PaidAmount.IsZero())
	assert.Equal(t, enum.InvoiceStatusSent, stored.Status)
	assert.Equal(t, int64(1), stored.Version)

	payments, err := env.payments.ListPaymentsForInvoice(ctx, inv.ID)
	require.NoError(t, err)
	assert.Empty(t, payments)
	assert.Empty(t, env.publisher.types())
}

func TestRecordPaymentDuplicateInvoiceIDs(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	inv := env.seedSentInvoice(t, "INV-0001", "100.00", time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC))

	_, err := env.payments.RecordPayment(ctx, &RecordPaymentInput{
		Amount:     decimal.RequireFromString("100.00"),
		Currency:   "USD",
		InvoiceIDs: []uuid.UUID{inv.ID, inv.ID},
	})
	var vErr *entity.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "invoice_ids", vErr.Field)

	stored, err := env.invoiceRepo.GetByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.True(t, stored.PaidAmount.IsZero())
	assert.Equal(t, int64(1), stored.Version)
}

func TestRecordPaymentUnknownInvoice(t *testing.T) {
	env := newTestEnv()

	_, err := env.payments.RecordPayment(context.Background(), &RecordPaymentInput{
		Amount:     decimal.RequireFromString("10.00"),
		Currency:   "USD",
		InvoiceIDs: []uuid.UUID{uuid.New()},
	})
	assert.Error(t, err)
}

func TestRecordPaymentDraftTargetRejected(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	customer := env.seedCustomer(t)
	draft, err := env.invoices.CreateInvoice(ctx, createInvoiceInput(customer.ID))
	require.NoError(t, err)

	_, err = env.payments.RecordPayment(ctx, &RecordPaymentInput{
		Amount:     decimal.RequireFromString("10.00"),
		Currency:   "USD",
		InvoiceIDs: []uuid.UUID{draft.ID},
	})
	var vErr *entity.ValidationError
	assert.ErrorAs(t, err, &vErr)
}

// staleInvoiceReader serves a fixed stale snapshot from GetByID so a
// concurrent-writer race can be forced deterministically.
type staleInvoiceReader struct {
	domainRepo.InvoiceRepository
	stale *entity.Invoice
}

func (r *staleInvoiceReader) GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	if id == r.stale.ID {
		snapshot := *r.stale
		return &snapshot, nil
	}
	return r.InvoiceRepository.GetByID(ctx, id)
}

func TestRecordPaymentVersionConflictIsAtomic(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	inv := env.seedSentInvoice(t, "INV-0001", "100.00", time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC))

	stale, err := env.invoiceRepo.GetByID(ctx, inv.ID)
	require.NoError(t, err)

	// Another writer lands first, bumping the stored version past the snapshot.
	concurrent, err := env.invoiceRepo.GetByID(ctx, inv.ID)
	require.NoError(t, err)
	require.NoError(t, concurrent.ApplyPayment(money.MustNew("10.00", "USD"), uuid.New()))
	require.NoError(t, env.invoiceRepo.Save(ctx, concurrent, 1))

	staleService := NewPaymentService(env.paymentRepo, &staleInvoiceReader{
		InvoiceRepository: env.invoiceRepo,
		stale:             stale,
	}, env.publisher)

	_, err = staleService.RecordPayment(ctx, &RecordPaymentInput{
		Amount:     decimal.RequireFromString("50.00"),
		Currency:   "USD",
		InvoiceIDs: []uuid.UUID{inv.ID},
	})
	require.ErrorIs(t, err, entity.ErrVersionConflict)

	// The failed save must not persist the payment or touch the invoice.
	payments, err := env.payments.ListPaymentsForInvoice(ctx, inv.ID)
	require.NoError(t, err)
	assert.Empty(t, payments)

	stored, err := env.invoiceRepo.GetByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stored.Version)
	assert.True(t, stored.PaidAmount.Equal(money.MustNew("10.00", "USD")))
}

func TestRecordPaymentAcrossOverdueAndSent(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	overdueInv := env.seedSentInvoice(t, "INV-0001", "40.00", time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC))

	_, err := env.overdue.Run(ctx, time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	sentInv := env.seedSentInvoice(t, "INV-0002", "40.00", time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC))

	payment, err := env.payments.RecordPayment(ctx, &RecordPaymentInput{
		Amount:     decimal.RequireFromString("80.00"),
		Currency:   "USD",
		InvoiceIDs: []uuid.UUID{sentInv.ID, overdueInv.ID},
	})
	require.NoError(t, err)
	require.Len(t, payment.Allocations, 2)
	assert.Equal(t, overdueInv.ID, payment.Allocations[0].InvoiceID, "overdue invoice is due first")

	storedOverdue, err := env.invoiceRepo.GetByID(ctx, overdueInv.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.InvoiceStatusPaid, storedOverdue.Status)

	storedSent, err := env.invoiceRepo.GetByID(ctx, sentInv.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.InvoiceStatusPaid, storedSent.Status)
}
