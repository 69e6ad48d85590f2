package entity

import (
	"time"

	"github.com/jumapay/billing-api/internal/domain/enum"
)

// StatusChange is one append-only audit record of an invoice status
// transition. The latest entry's ToStatus always equals the invoice's
// current status.
type StatusChange struct {
	FromStatus enum.InvoiceStatus `json:"from_status"`
	ToStatus   enum.InvoiceStatus `json:"to_status"`
	ChangedAt  time.Time          `json:"changed_at"`
	Reason     string             `json:"reason,omitempty"`
	Actor      string             `json:"actor,omitempty"`
}
