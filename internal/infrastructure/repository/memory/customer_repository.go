package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jumapay/billing-api/internal/domain/entity"
	domainRepo "github.com/jumapay/billing-api/internal/domain/repository"
)

// CustomerRepository is an in-memory adapter for customer records.
type CustomerRepository struct {
	mu        sync.RWMutex
	customers map[uuid.UUID]*entity.Customer
}

// NewCustomerRepository creates an empty in-memory customer repository
func NewCustomerRepository() *CustomerRepository {
	return &CustomerRepository{customers: make(map[uuid.UUID]*entity.Customer)}
}

var _ domainRepo.CustomerRepository = (*CustomerRepository)(nil)

func (r *CustomerRepository) Create(_ context.Context, customer *entity.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	now := time.Now().UTC()
	customer.CreatedAt = now
	customer.UpdatedAt = now
	c := *customer
	r.customers[customer.ID] = &c
	return nil
}

func (r *CustomerRepository) GetByID(_ context.Context, id uuid.UUID) (*entity.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	customer, ok := r.customers[id]
	if !ok {
		return nil, nil
	}
	c := *customer
	return &c, nil
}

func (r *CustomerRepository) Update(_ context.Context, customer *entity.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.customers[customer.ID]; !ok {
		return entity.ErrNotFound
	}
	customer.UpdatedAt = time.Now().UTC()
	c := *customer
	r.customers[customer.ID] = &c
	return nil
}

func (r *CustomerRepository) IsActive(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	customer, ok := r.customers[id]
	return ok && customer.Active, nil
}
