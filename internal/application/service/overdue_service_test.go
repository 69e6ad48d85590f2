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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverdueSweep(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	asOf := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	pastDue := env.seedSentInvoice(t, "INV-0001", "100.00", time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC))
	notDue := env.seedSentInvoice(t, "INV-0002", "100.00", time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC))

	// A past-due invoice already settled must not be swept.
	settled := env.seedSentInvoice(t, "INV-0003", "50.00", time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC))
	loaded, err := env.invoiceRepo.GetByID(ctx, settled.ID)
	require.NoError(t, err)
	require.NoError(t, loaded.ApplyPayment(money.MustNew("50.00", "USD"), uuid.New()))
	require.NoError(t, env.invoiceRepo.Save(ctx, loaded, 1))

	result, err := env.overdue.Run(ctx, asOf)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Candidates, "the settled invoice is already Paid")
	assert.Equal(t, 1, result.Transitioned)
	assert.Equal(t, 0, result.Conflicts)

	stored, err := env.invoiceRepo.GetByID(ctx, pastDue.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.InvoiceStatusOverdue, stored.Status)
	assert.Equal(t, int64(2), stored.Version)

	untouched, err := env.invoiceRepo.GetByID(ctx, notDue.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.InvoiceStatusSent, untouched.Status)
	assert.Equal(t, int64(1), untouched.Version)

	assert.Equal(t, []string{"invoice.overdue"}, env.publisher.types())
}

func TestOverdueSweepIdempotent(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	asOf := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	inv := env.seedSentInvoice(t, "INV-0001", "100.00", time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC))

	first, err := env.overdue.Run(ctx, asOf)
	require.NoError(t, err)
	require.Equal(t, 1, first.Transitioned)

	second, err := env.overdue.Run(ctx, asOf)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Candidates, "overdue invoices are no longer Sent")
	assert.Equal(t, 0, second.Transitioned)

	stored, err := env.invoiceRepo.GetByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stored.Version, "repeat sweeps do not bump the version")
	require.Len(t, stored.StatusHistory, 2)
}

// conflictingSaver fails every Save with a version conflict, standing in for
// a concurrent writer that always lands first.
type conflictingSaver struct {
	domainRepo.InvoiceRepository
}

func (r *conflictingSaver) Save(context.Context, *entity.Invoice, int64) error {
	return entity.ErrVersionConflict
}

func TestOverdueSweepCountsConflicts(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.seedSentInvoice(t, "INV-0001", "100.00", time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC))

	sweeper := NewOverdueService(&conflictingSaver{InvoiceRepository: env.invoiceRepo}, env.publisher)
	result, err := sweeper.Run(ctx, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, 1, result.Candidates)
	assert.Equal(t, 0, result.Transitioned)
	assert.Equal(t, 1, result.Conflicts)
	assert.Empty(t, env.publisher.types(), "no event without a durable save")
}
