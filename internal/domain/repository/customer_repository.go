package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jumapay/billing-api/internal/domain/entity"
)

// CustomerRepository defines the interface for customer data operations
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error)
	Update(ctx context.Context, customer *entity.Customer) error
	// IsActive reports whether the customer exists and is active. Invoice
	// creation consults this before constructing the aggregate.
	IsActive(ctx context.Context, id uuid.UUID) (bool, error)
}
