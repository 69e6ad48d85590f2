package entity

import (
	"sort"

	"github.com/jumapay/billing-api/pkg/money"
)

// AllocationResult is the outcome of splitting one payment across invoices.
type AllocationResult struct {
	Allocations    []PaymentAllocation
	TotalAllocated money.Money
	Remaining      money.Money
}

// AllocatePayment splits a payment across the target invoices with a
// deterministic oldest-due-first policy: ascending due date, ties broken by
// invoice number. Each allocation is min(remaining payment, invoice
// remaining balance). The computation is pure, no invoice is mutated, so
// a failed allocation leaves every aggregate untouched.
//
// Funds left over after all targets are fully covered are rejected with
// UnallocatedFundsError: the caller must supply more targets or an explicit
// overpayment policy.
func AllocatePayment(amount money.Money, invoices []*Invoice) (*AllocationResult, error) {
	if !amount.IsPositive() {
		return nil, NewValidationError("amount", "must be greater than zero")
	}
	if len(invoices) == 0 {
		return nil, NewValidationError("invoices", "at least one target invoice is required")
	}
	for _, inv := range invoices {
		if inv.Currency() != amount.Currency {
			return nil, NewValidationError("invoices",
				"invoice "+inv.InvoiceNumber+" is not in currency "+amount.Currency)
		}
		if !inv.Status.CanAcceptPayment() {
			return nil, NewValidationError("invoices",
				"invoice "+inv.InvoiceNumber+" cannot accept payments in status "+inv.Status.String())
		}
	}

	ordered := make([]*Invoice, len(invoices))
	copy(ordered, invoices)
	sort.SliceStable(ordered, func(a, b int) bool {
		if !ordered[a].DueDate.Equal(ordered[b].DueDate) {
			return ordered[a].DueDate.Before(ordered[b].DueDate)
		}
		return ordered[a].InvoiceNumber < ordered[b].InvoiceNumber
	})

	remaining := amount
	allocated := money.Zero(amount.Currency)
	allocations := make([]PaymentAllocation, 0, len(ordered))

	for _, inv := range ordered {
		if remaining.IsZero() {
			break
		}
		portion := remaining.Min(inv.RemainingBalance())
		if !portion.IsPositive() {
			continue
		}
		allocations = append(allocations, PaymentAllocation{
			InvoiceID:     inv.ID,
			InvoiceNumber: inv.InvoiceNumber,
			Amount:        portion,
		})
		remaining, _ = remaining.Sub(portion)
		allocated, _ = allocated.Add(portion)
	}

	if remaining.IsPositive() {
		return nil, &UnallocatedFundsError{
			Remaining: remaining.Amount.StringFixed(2),
			Currency:  remaining.Currency,
		}
	}

	return &AllocationResult{
		Allocations:    allocations,
		TotalAllocated: allocated,
		Remaining:      remaining,
	}, nil
}
