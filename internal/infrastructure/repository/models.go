package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/jumapay/billing-api/internal/domain/entity"
	"github.com/jumapay/billing-api/internal/domain/enum"
	"github.com/jumapay/billing-api/pkg/money"
	"github.com/shopspring/decimal"
)

// InvoiceModel is the persistence model for the Invoice aggregate root.
// Line items and the status history travel as JSONB documents; they are
// owned by the aggregate and never queried independently.
type InvoiceModel struct {
	ID            uuid.UUID              `gorm:"type:uuid;primaryKey"`
	InvoiceNumber string                 `gorm:"size:50;uniqueIndex;not null"`
	CustomerID    uuid.UUID              `gorm:"type:uuid;not null;index"`
	CustomerName  string                 `gorm:"size:255;not null"`
	CustomerEmail string                 `gorm:"size:255"`
	IssueDate     time.Time              `gorm:"not null"`
	DueDate       time.Time              `gorm:"not null;index"`
	Status        enum.InvoiceStatus     `gorm:"not null;index"`
	LineItems     []entity.LineItem      `gorm:"serializer:json;type:jsonb;not null"`
	StatusHistory []entity.StatusChange  `gorm:"serializer:json;type:jsonb"`
	TotalAmount   decimal.Decimal        `gorm:"type:decimal(18,4);not null"`
	PaidAmount    decimal.Decimal        `gorm:"type:decimal(18,4);not null"`
	Currency      string                 `gorm:"size:3;not null"`
	Version       int64                  `gorm:"not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName returns the table name for the Invoice model
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice aggregate.
func (m *InvoiceModel) ToDomain() *entity.Invoice {
	return &entity.Invoice{
		ID:            m.ID,
		InvoiceNumber: m.InvoiceNumber,
		CustomerID:    m.CustomerID,
		CustomerName:  m.CustomerName,
		CustomerEmail: m.CustomerEmail,
		IssueDate:     m.IssueDate,
		DueDate:       m.DueDate,
		Status:        m.Status,
		LineItems:     m.LineItems,
		StatusHistory: m.StatusHistory,
		TotalAmount:   money.Money{Amount: m.TotalAmount, Currency: m.Currency},
		PaidAmount:    money.Money{Amount: m.PaidAmount, Currency: m.Currency},
		Version:       m.Version,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain Invoice.
func (m *InvoiceModel) FromDomain(inv *entity.Invoice) {
	m.ID = inv.ID
	m.InvoiceNumber = inv.InvoiceNumber
	m.CustomerID = inv.CustomerID
	m.CustomerName = inv.CustomerName
	m.CustomerEmail = inv.CustomerEmail
	m.IssueDate = inv.IssueDate
	m.DueDate = inv.DueDate
	m.Status = inv.Status
	m.LineItems = inv.LineItems
	m.StatusHistory = inv.StatusHistory
	m.TotalAmount = inv.TotalAmount.Amount
	m.PaidAmount = inv.PaidAmount.Amount
	m.Currency = inv.Currency()
	m.Version = inv.Version
	m.CreatedAt = inv.CreatedAt
	m.UpdatedAt = inv.UpdatedAt
}

// InvoiceModelFromDomain creates a new persistence model from a domain Invoice.
func InvoiceModelFromDomain(inv *entity.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(inv)
	return m
}

// PaymentModel is the persistence model for the Payment aggregate root.
type PaymentModel struct {
	ID          uuid.UUID                `gorm:"type:uuid;primaryKey"`
	Amount      decimal.Decimal          `gorm:"type:decimal(18,4);not null"`
	Currency    string                   `gorm:"size:3;not null"`
	ReceivedAt  time.Time                `gorm:"not null"`
	Version     int64                    `gorm:"not null"`
	Allocations []PaymentAllocationModel `gorm:"foreignKey:PaymentID;references:ID"`
	CreatedAt   time.Time
}

// TableName returns the table name for the Payment model
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain Payment aggregate.
func (m *PaymentModel) ToDomain() *entity.Payment {
	p := &entity.Payment{
		ID:          m.ID,
		Amount:      money.Money{Amount: m.Amount, Currency: m.Currency},
		ReceivedAt:  m.ReceivedAt,
		Version:     m.Version,
		CreatedAt:   m.CreatedAt,
		Allocations: make([]entity.PaymentAllocation, len(m.Allocations)),
	}
	for i, a := range m.Allocations {
		p.Allocations[i] = entity.PaymentAllocation{
			InvoiceID:     a.InvoiceID,
			InvoiceNumber: a.InvoiceNumber,
			Amount:        money.Money{Amount: a.Amount, Currency: m.Currency},
		}
	}
	return p
}

// FromDomain populates the persistence model from a domain Payment.
func (m *PaymentModel) FromDomain(p *entity.Payment) {
	m.ID = p.ID
	m.Amount = p.Amount.Amount
	m.Currency = p.Amount.Currency
	m.ReceivedAt = p.ReceivedAt
	m.Version = p.Version
	m.CreatedAt = p.CreatedAt
	m.Allocations = make([]PaymentAllocationModel, len(p.Allocations))
	for i, a := range p.Allocations {
		m.Allocations[i] = PaymentAllocationModel{
			ID:            uuid.New(),
			PaymentID:     p.ID,
			InvoiceID:     a.InvoiceID,
			InvoiceNumber: a.InvoiceNumber,
			Amount:        a.Amount.Amount,
		}
	}
}

// PaymentModelFromDomain creates a new persistence model from a domain Payment.
func PaymentModelFromDomain(p *entity.Payment) *PaymentModel {
	m := &PaymentModel{}
	m.FromDomain(p)
	return m
}

// PaymentAllocationModel is the persistence model for one allocation row.
type PaymentAllocationModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	PaymentID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	InvoiceID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	InvoiceNumber string          `gorm:"size:50;not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for the allocation model
func (PaymentAllocationModel) TableName() string {
	return "payment_allocations"
}
