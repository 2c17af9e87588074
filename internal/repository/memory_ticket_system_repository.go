package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/trackwerk-io/trackwerk-ce/internal/models"
)

// MemoryTicketSystemRepository is an in-memory implementation of TicketSystemRepository
type MemoryTicketSystemRepository struct {
	mu      sync.RWMutex
	systems map[int]*models.TicketSystem
	nextID  int
}

// NewMemoryTicketSystemRepository creates a new in-memory ticket system repository
func NewMemoryTicketSystemRepository() *MemoryTicketSystemRepository {
	return &MemoryTicketSystemRepository{
		systems: make(map[int]*models.TicketSystem),
		nextID:  1,
	}
}

// GetByID retrieves a ticket system by ID
func (r *MemoryTicketSystemRepository) GetByID(ctx context.Context, id int) (*models.TicketSystem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ts, ok := r.systems[id]
	if !ok {
		return nil, fmt.Errorf("ticket system %d: %w", id, ErrNotFound)
	}
	c := *ts
	return &c, nil
}

// List retrieves all ticket systems ordered by ID
func (r *MemoryTicketSystemRepository) List(ctx context.Context) ([]*models.TicketSystem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []*models.TicketSystem
	for _, ts := range r.systems {
		c := *ts
		result = append(result, &c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// Create stores a new ticket system
func (r *MemoryTicketSystemRepository) Create(ctx context.Context, ts *models.TicketSystem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ts.ID = r.nextID
	r.nextID++
	c := *ts
	r.systems[ts.ID] = &c
	return nil
}

// Update rewrites a stored ticket system
func (r *MemoryTicketSystemRepository) Update(ctx context.Context, ts *models.TicketSystem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.systems[ts.ID]; !ok {
		return fmt.Errorf("ticket system %d: %w", ts.ID, ErrNotFound)
	}
	c := *ts
	r.systems[ts.ID] = &c
	return nil
}

// Delete removes a ticket system
func (r *MemoryTicketSystemRepository) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.systems[id]; !ok {
		return fmt.Errorf("ticket system %d: %w", id, ErrNotFound)
	}
	delete(r.systems, id)
	return nil
}
