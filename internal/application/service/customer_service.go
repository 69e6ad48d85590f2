package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/jumapay/billing-api/internal/domain/entity"
	"github.com/jumapay/billing-api/internal/domain/repository"
	"github.com/jumapay/billing-api/pkg/apperror"
)

// CustomerService handles customer-related operations
type CustomerService struct {
	customerRepo repository.CustomerRepository
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo repository.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo}
}

// CreateCustomer creates a new active customer
func (s *CustomerService) CreateCustomer(ctx context.Context, name, email string) (*entity.Customer, error) {
	if name == "" {
		return nil, entity.NewValidationError("name", "must not be empty")
	}
	customer := &entity.Customer{
		Name:   name,
		Email:  email,
		Active: true,
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// GetCustomer retrieves a customer by ID
func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

// DeactivateCustomer marks a customer inactive; new invoices for them are
// rejected while existing invoices continue their lifecycle.
func (s *CustomerService) DeactivateCustomer(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	customer, err := s.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	customer.Active = false
	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}
