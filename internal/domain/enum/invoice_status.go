package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// InvoiceStatus represents the lifecycle status of an invoice
type InvoiceStatus int

const (
	InvoiceStatusDraft     InvoiceStatus = 0
	InvoiceStatusSent      InvoiceStatus = 1
	InvoiceStatusPaid      InvoiceStatus = 2
	InvoiceStatusOverdue   InvoiceStatus = 3
	InvoiceStatusCancelled InvoiceStatus = 4
)

// transitions is the complete set of allowed status edges. Anything not
// listed here is an invalid transition.
var transitions = map[InvoiceStatus][]InvoiceStatus{
	InvoiceStatusDraft:   {InvoiceStatusSent, InvoiceStatusCancelled},
	InvoiceStatusSent:    {InvoiceStatusPaid, InvoiceStatusOverdue},
	InvoiceStatusOverdue: {InvoiceStatusPaid},
}

func (s InvoiceStatus) String() string {
	switch s {
	case InvoiceStatusDraft:
		return "Draft"
	case InvoiceStatusSent:
		return "Sent"
	case InvoiceStatusPaid:
		return "Paid"
	case InvoiceStatusOverdue:
		return "Overdue"
	case InvoiceStatusCancelled:
		return "Cancelled"
	}
	return "Unknown"
}

// IsValid reports whether s is one of the defined statuses
func (s InvoiceStatus) IsValid() bool {
	return s >= InvoiceStatusDraft && s <= InvoiceStatusCancelled
}

// IsTerminal reports whether no further transitions are allowed from s
func (s InvoiceStatus) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// CanTransitionTo reports whether the edge s -> target is allowed
func (s InvoiceStatus) CanTransitionTo(target InvoiceStatus) bool {
	for _, t := range transitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// CanAcceptPayment reports whether payments may be applied in status s
func (s InvoiceStatus) CanAcceptPayment() bool {
	return s == InvoiceStatusSent || s == InvoiceStatusOverdue
}

// CanDelete reports whether an invoice in status s may be deleted
func (s InvoiceStatus) CanDelete() bool {
	return s == InvoiceStatusDraft || s == InvoiceStatusCancelled
}

// ParseInvoiceStatus converts a case-insensitive status name to its enum value
func ParseInvoiceStatus(s string) (InvoiceStatus, error) {
	switch strings.ToLower(s) {
	case "draft":
		return InvoiceStatusDraft, nil
	case "sent":
		return InvoiceStatusSent, nil
	case "paid":
		return InvoiceStatusPaid, nil
	case "overdue":
		return InvoiceStatusOverdue, nil
	case "cancelled":
		return InvoiceStatusCancelled, nil
	default:
		return InvoiceStatusDraft, fmt.Errorf("unknown invoice status %q", s)
	}
}

func (s InvoiceStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *InvoiceStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		// Try unmarshaling as int
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = InvoiceStatus(i)
		return nil
	}
	switch str {
	case "Draft":
		*s = InvoiceStatusDraft
	case "Sent":
		*s = InvoiceStatusSent
	case "Paid":
		*s = InvoiceStatusPaid
	case "Overdue":
		*s = InvoiceStatusOverdue
	case "Cancelled":
		*s = InvoiceStatusCancelled
	}
	return nil
}

func (s InvoiceStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *InvoiceStatus) Scan(value interface{}) error {
	if value == nil {
		*s = InvoiceStatusDraft
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = InvoiceStatus(v)
	case int:
		*s = InvoiceStatus(v)
	}
	return nil
}
