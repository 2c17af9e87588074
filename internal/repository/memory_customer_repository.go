package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/trackwerk-io/trackwerk-ce/internal/models"
)

// MemoryCustomerRepository is an in-memory implementation of CustomerRepository
type MemoryCustomerRepository struct {
	mu        sync.RWMutex
	customers map[int]*models.Customer
	nextID    int
}

// NewMemoryCustomerRepository creates a new in-memory customer repository
func NewMemoryCustomerRepository() *MemoryCustomerRepository {
	return &MemoryCustomerRepository{
		customers: make(map[int]*models.Customer),
		nextID:    1,
	}
}

// GetByID retrieves a customer by ID
func (r *MemoryCustomerRepository) GetByID(ctx context.Context, id int) (*models.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.customers[id]
	if !ok {
		return nil, fmt.Errorf("customer %d: %w", id, ErrNotFound)
	}
	cp := *c
	return &cp, nil
}

// List retrieves all customers ordered by ID
func (r *MemoryCustomerRepository) List(ctx context.Context) ([]*models.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []*models.Customer
	for _, c := range r.customers {
		cp := *c
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// Create stores a new customer
func (r *MemoryCustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	customer.ID = r.nextID
	r.nextID++
	cp := *customer
	r.customers[customer.ID] = &cp
	return nil
}

// Update rewrites a stored customer
func (r *MemoryCustomerRepository) Update(ctx context.Context, customer *models.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.customers[customer.ID]; !ok {
		return fmt.Errorf("customer %d: %w", customer.ID, ErrNotFound)
	}
	cp := *customer
	r.customers[customer.ID] = &cp
	return nil
}

// Delete removes a customer
func (r *MemoryCustomerRepository) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.customers[id]; !ok {
		return fmt.Errorf("customer %d: %w", id, ErrNotFound)
	}
	delete(r.customers, id)
	return nil
}
