package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jumapay/billing-api/internal/domain/entity"
	"github.com/jumapay/billing-api/internal/domain/event"
	"github.com/jumapay/billing-api/internal/infrastructure/repository/memory"
	"github.com/jumapay/billing-api/pkg/money"
	"github.com/stretchr/testify/require"
)

// recordingPublisher captures published events for assertions.
type recordingPublisher struct {
	mu     sync.Mutex
	events []event.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, e event.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}

type testEnv struct {
	invoiceRepo  *memory.InvoiceRepository
	paymentRepo  *memory.PaymentRepository
	customerRepo *memory.CustomerRepository
	publisher    *recordingPublisher

	invoices  *InvoiceService
	payments  *PaymentService
	customers *CustomerService
	overdue   *OverdueService
}

func newTestEnv() *testEnv {
	invoiceRepo := memory.NewInvoiceRepository()
	paymentRepo := memory.NewPaymentRepository(invoiceRepo)
	customerRepo := memory.NewCustomerRepository()
	pub := &recordingPublisher{}

	return &testEnv{
		invoiceRepo:  invoiceRepo,
		paymentRepo:  paymentRepo,
		customerRepo: customerRepo,
		publisher:    pub,
		invoices:     NewInvoiceService(invoiceRepo, customerRepo, pub),
		payments:     NewPaymentService(paymentRepo, invoiceRepo, pub),
		customers:    NewCustomerService(customerRepo),
		overdue:      NewOverdueService(invoiceRepo, pub),
	}
}

func (env *testEnv) seedCustomer(t *testing.T) *entity.Customer {
	t.Helper()
	customer := &entity.Customer{Name: "Acme Ltd", Email: "billing@acme.test", Active: true}
	require.NoError(t, env.customerRepo.Create(context.Background(), customer))
	return customer
}

// seedSentInvoice stores a Sent invoice with a fixed number, total and due date.
func (env *testEnv) seedSentInvoice(t *testing.T, number, total string, due time.Time) *entity.Invoice {
	t.Helper()
	customer := env.seedCustomer(t)
	inv, err := entity.NewInvoice(entity.NewInvoiceInput{
		InvoiceNumber: number,
		CustomerID:    customer.ID,
		CustomerName:  customer.Name,
		IssueDate:     due.AddDate(0, -1, 0),
		DueDate:       due,
		LineItems: []entity.LineItem{
			{Description: "Services", Quantity: 1, UnitPrice: money.MustNew(total, "USD")},
		},
	})
	require.NoError(t, err)
	require.NoError(t, inv.Send(""))
	inv.ClearEvents()
	require.NoError(t, env.invoiceRepo.Create(context.Background(), inv))
	return inv
}
