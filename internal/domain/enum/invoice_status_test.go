package enum

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvoiceStatusCanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from InvoiceStatus
		to   InvoiceStatus
		want bool
	}{
		{"draft to sent", InvoiceStatusDraft, InvoiceStatusSent, true},
		{"draft to cancelled", InvoiceStatusDraft, InvoiceStatusCancelled, true},
		{"draft to paid", InvoiceStatusDraft, InvoiceStatusPaid, false},
		{"draft to overdue", InvoiceStatusDraft, InvoiceStatusOverdue, false},
		{"sent to paid", InvoiceStatusSent, InvoiceStatusPaid, true},
		{"sent to overdue", InvoiceStatusSent, InvoiceStatusOverdue, true},
		{"sent to cancelled", InvoiceStatusSent, InvoiceStatusCancelled, false},
		{"sent to draft", InvoiceStatusSent, InvoiceStatusDraft, false},
		{"overdue to paid", InvoiceStatusOverdue, InvoiceStatusPaid, true},
		{"overdue to cancelled", InvoiceStatusOverdue, InvoiceStatusCancelled, false},
		{"paid is terminal", InvoiceStatusPaid, InvoiceStatusSent, false},
		{"cancelled is terminal", InvoiceStatusCancelled, InvoiceStatusSent, false},
		{"self transition rejected", InvoiceStatusSent, InvoiceStatusSent, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestInvoiceStatusIsTerminal(t *testing.T) {
	assert.False(t, InvoiceStatusDraft.IsTerminal())
	assert.False(t, InvoiceStatusSent.IsTerminal())
	assert.False(t, InvoiceStatusOverdue.IsTerminal())
	assert.True(t, InvoiceStatusPaid.IsTerminal())
	assert.True(t, InvoiceStatusCancelled.IsTerminal())
}

func TestInvoiceStatusCanAcceptPayment(t *testing.T) {
	assert.False(t, InvoiceStatusDraft.CanAcceptPayment())
	assert.True(t, InvoiceStatusSent.CanAcceptPayment())
	assert.True(t, InvoiceStatusOverdue.CanAcceptPayment())
	assert.False(t, InvoiceStatusPaid.CanAcceptPayment())
	assert.False(t, InvoiceStatusCancelled.CanAcceptPayment())
}

func TestInvoiceStatusCanDelete(t *testing.T) {
	assert.True(t, InvoiceStatusDraft.CanDelete())
	assert.True(t, InvoiceStatusCancelled.CanDelete())
	assert.False(t, InvoiceStatusSent.CanDelete())
	assert.False(t, InvoiceStatusPaid.CanDelete())
	assert.False(t, InvoiceStatusOverdue.CanDelete())
}

func TestInvoiceStatusJSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(InvoiceStatusOverdue)
	require.NoError(t, err)
	assert.Equal(t, `"Overdue"`, string(data))

	var s InvoiceStatus
	require.NoError(t, json.Unmarshal(data, &s))
	assert.Equal(t, InvoiceStatusOverdue, s)
}

func TestParseInvoiceStatus(t *testing.T) {
	s, err := ParseInvoiceStatus("overdue")
	require.NoError(t, err)
	assert.Equal(t, InvoiceStatusOverdue, s)

	s, err = ParseInvoiceStatus("Sent")
	require.NoError(t, err)
	assert.Equal(t, InvoiceStatusSent, s)

	_, err = ParseInvoiceStatus("bogus")
	assert.Error(t, err)
}
