package entity

import (
	"github.com/jumapay/billing-api/pkg/money"
)

// LineItem is one billed item on an invoice. Quantity must be positive and
// the unit price non-negative; the line total is quantity x unit price.
type LineItem struct {
	Description string      `json:"description"`
	Quantity    int64       `json:"quantity"`
	UnitPrice   money.Money `json:"unit_price"`
}

// Total returns quantity x unit price.
func (li LineItem) Total() money.Money {
	return li.UnitPrice.MulInt(li.Quantity)
}

func (li LineItem) validate(currency string) error {
	if li.Description == "" {
		return NewValidationError("description", "must not be empty")
	}
	if li.Quantity <= 0 {
		return NewValidationError("quantity", "must be greater than zero")
	}
	if li.UnitPrice.IsNegative() {
		return NewValidationError("unit_price", "must not be negative")
	}
	if li.UnitPrice.Currency != currency {
		return NewValidationError("unit_price", "all line items must share one currency")
	}
	return nil
}
