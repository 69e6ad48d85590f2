package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jumapay/billing-api/internal/domain/event"
	"github.com/jumapay/billing-api/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sentInvoiceDue builds a Sent invoice with the given number, total and due date.
func sentInvoiceDue(t *testing.T, number, total string, due time.Time) *Invoice {
	t.Helper()
	inv, err := NewInvoice(NewInvoiceInput{
		InvoiceNumber: number,
		CustomerID:    uuid.New(),
		IssueDate:     due.AddDate(0, -1, 0),
		DueDate:       due,
		LineItems: []LineItem{
			{Description: "Services", Quantity: 1, UnitPrice: money.MustNew(total, "USD")},
		},
	})
	require.NoError(t, err)
	require.NoError(t, inv.Send(""))
	inv.ClearEvents()
	return inv
}

func TestNewPayment(t *testing.T) {
	invoiceID := uuid.New()
	p, err := NewPayment(
		money.MustNew("100.00", "USD"),
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		[]PaymentAllocation{
			{InvoiceID: invoiceID, InvoiceNumber: "INV-1", Amount: money.MustNew("100.00", "USD")},
		},
	)
	require.NoError(t, err)

	assert.Equal(t, int64(1), p.Version)
	assert.True(t, p.AllocatedAmount().Equal(p.Amount))

	require.Len(t, p.Events(), 1)
	recorded, ok := p.Events()[0].(event.PaymentRecorded)
	require.True(t, ok)
	assert.Equal(t, p.ID, recorded.PaymentID)
	assert.Equal(t, []uuid.UUID{invoiceID}, recorded.Invoices)
}

func TestNewPaymentValidation(t *testing.T) {
	now := time.Now()
	alloc := PaymentAllocation{InvoiceID: uuid.New(), InvoiceNumber: "INV-1", Amount: money.MustNew("50", "USD")}

	tests := []struct {
		name        string
		amount      money.Money
		allocations []PaymentAllocation
	}{
		{"zero amount", money.Zero("USD"), []PaymentAllocation{alloc}},
		{"negative amount", money.MustNew("-10", "USD"), []PaymentAllocation{alloc}},
		{"no allocations", money.MustNew("50", "USD"), nil},
		{"zero allocation", money.MustNew("50", "USD"), []PaymentAllocation{
			{InvoiceID: uuid.New(), Amount: money.Zero("USD")},
		}},
		{"allocation currency mismatch", money.MustNew("50", "USD"), []PaymentAllocation{
			{InvoiceID: uuid.New(), Amount: money.MustNew("50", "EUR")},
		}},
		{"allocations exceed amount", money.MustNew("50", "USD"), []PaymentAllocation{alloc, alloc}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPayment(tt.amount, now, tt.allocations)
			var vErr *ValidationError
			assert.ErrorAs(t, err, &vErr)
		})
	}
}

func TestAllocatePaymentOldestDueFirst(t *testing.T) {
	older := sentInvoiceDue(t, "INV-2", "100.00", time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC))
	newer := sentInvoiceDue(t, "INV-1", "100.00", time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC))

	// Pass targets newest-first; allocation must still favor the older due date.
	result, err := AllocatePayment(money.MustNew("150.00", "USD"), []*Invoice{newer, older})
	require.NoError(t, err)

	require.Len(t, result.Allocations, 2)
	assert.Equal(t, older.ID, result.Allocations[0].InvoiceID)
	assert.True(t, result.Allocations[0].Amount.Equal(money.MustNew("100.00", "USD")))
	assert.Equal(t, newer.ID, result.Allocations[1].InvoiceID)
	assert.True(t, result.Allocations[1].Amount.Equal(money.MustNew("50.00", "USD")))
	assert.True(t, result.Remaining.IsZero())
	assert.True(t, result.TotalAllocated.Equal(money.MustNew("150.00", "USD")))
}

func TestAllocatePaymentTieBrokenByInvoiceNumber(t *testing.T) {
	due := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	b := sentInvoiceDue(t, "INV-B", "100.00", due)
	a := sentInvoiceDue(t, "INV-A", "100.00", due)

	result, err := AllocatePayment(money.MustNew("100.00", "USD"), []*Invoice{b, a})
	require.NoError(t, err)

	require.Len(t, result.Allocations, 1)
	assert.Equal(t, "INV-A", result.Allocations[0].InvoiceNumber)
}

func TestAllocatePaymentSkipsSettledInvoice(t *testing.T) {
	due := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	settled := sentInvoiceDue(t, "INV-1", "100.00", due)
	require.NoError(t, settled.ApplyPayment(money.MustNew("100.00", "USD"), uuid.New()))
	open := sentInvoiceDue(t, "INV-2", "100.00", due.AddDate(0, 1, 0))

	// A Paid invoice cannot be targeted at all.
	_, err := AllocatePayment(money.MustNew("50.00", "USD"), []*Invoice{settled, open})
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestAllocatePaymentPartiallyPaidTarget(t *testing.T) {
	inv := sentInvoiceDue(t, "INV-1", "100.00", time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, inv.ApplyPayment(money.MustNew("60.00", "USD"), uuid.New()))

	result, err := AllocatePayment(money.MustNew("40.00", "USD"), []*Invoice{inv})
	require.NoError(t, err)

	require.Len(t, result.Allocations, 1)
	assert.True(t, result.Allocations[0].Amount.Equal(money.MustNew("40.00", "USD")))
}

func TestAllocatePaymentUnallocatedFunds(t *testing.T) {
	inv := sentInvoiceDue(t, "INV-1", "100.00", time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC))
	before := inv.PaidAmount

	_, err := AllocatePayment(money.MustNew("120.00", "USD"), []*Invoice{inv})
	var uErr *UnallocatedFundsError
	require.ErrorAs(t, err, &uErr)
	assert.Equal(t, "20.00", uErr.Remaining)
	assert.Equal(t, "USD", uErr.Currency)

	// Pure computation: the target invoice is untouched.
	assert.True(t, inv.PaidAmount.Equal(before))
	assert.Empty(t, inv.Events())
}

func TestAllocatePaymentValidation(t *testing.T) {
	inv := sentInvoiceDue(t, "INV-1", "100.00", time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC))

	t.Run("zero amount", func(t *testing.T) {
		_, err := AllocatePayment(money.Zero("USD"), []*Invoice{inv})
		var vErr *ValidationError
		assert.ErrorAs(t, err, &vErr)
	})

	t.Run("no invoices", func(t *testing.T) {
		_, err := AllocatePayment(money.MustNew("10", "USD"), nil)
		var vErr *ValidationError
		assert.ErrorAs(t, err, &vErr)
	})

	t.Run("currency mismatch", func(t *testing.T) {
		_, err := AllocatePayment(money.MustNew("10", "EUR"), []*Invoice{inv})
		var vErr *ValidationError
		assert.ErrorAs(t, err, &vErr)
	})

	t.Run("draft target", func(t *testing.T) {
		draft := newTestInvoice(t)
		_, err := AllocatePayment(money.MustNew("10", "USD"), []*Invoice{draft})
		var vErr *ValidationError
		assert.ErrorAs(t, err, &vErr)
	})
}

func TestAllocatePaymentDeterministic(t *testing.T) {
	due := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	invoices := []*Invoice{
		sentInvoiceDue(t, "INV-3", "30.00", due.AddDate(0, 0, 2)),
		sentInvoiceDue(t, "INV-1", "30.00", due),
		sentInvoiceDue(t, "INV-2", "30.00", due.AddDate(0, 0, 1)),
	}

	first, err := AllocatePayment(money.MustNew("70.00", "USD"), invoices)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := AllocatePayment(money.MustNew("70.00", "USD"), invoices)
		require.NoError(t, err)
		require.Equal(t, len(first.Allocations), len(again.Allocations))
		for j := range first.Allocations {
			assert.Equal(t, first.Allocations[j].InvoiceID, again.Allocations[j].InvoiceID)
			assert.True(t, first.Allocations[j].Amount.Equal(again.Allocations[j].Amount))
		}
	}

	assert.Equal(t, "INV-1", first.Allocations[0].InvoiceNumber)
	assert.Equal(t, "INV-2", first.Allocations[1].InvoiceNumber)
	assert.Equal(t, "INV-3", first.Allocations[2].InvoiceNumber)
	assert.True(t, first.Allocations[2].Amount.Equal(money.MustNew("10.00", "USD")))
}
